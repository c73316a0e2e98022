package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFundsWith(available Amount) *Funds {
	f := NewFunds()
	f.Available = available
	return f
}

func TestFunds_DepositWithdraw(t *testing.T) {
	f := NewFunds()
	require.NoError(t, f.Deposit(MustParseAmount("10")))
	require.NoError(t, f.Withdraw(MustParseAmount("3.5")))

	assert.Equal(t, MustParseAmount("6.5"), f.Available)
	assert.Equal(t, Zero(), f.Held)
	assert.Equal(t, FundsStateValid, f.State)
	assert.Equal(t, MustParseAmount("6.5"), f.Total())
}

func TestFunds_WithdrawInsufficientIsNoOp(t *testing.T) {
	f := newFundsWith(MustParseAmount("2"))

	require.NoError(t, f.Withdraw(MustParseAmount("3")))
	assert.Equal(t, MustParseAmount("2"), f.Available)
	assert.Equal(t, FundsStateValid, f.State)
}

func TestFunds_Dispute(t *testing.T) {
	f := newFundsWith(MustParseAmount("3"))

	require.NoError(t, f.Dispute(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("1"), f.Available)
	assert.Equal(t, MustParseAmount("2"), f.Held)
	assert.Equal(t, FundsStateDisputed, f.State)
	assert.True(t, f.IsDisputed(1))
	assert.Equal(t, MustParseAmount("3"), f.Total())
}

func TestFunds_DisputeMoreThanAvailable(t *testing.T) {
	// available 不足時保持不變，held 照樣增加
	f := newFundsWith(MustParseAmount("1"))

	require.NoError(t, f.Dispute(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("1"), f.Available)
	assert.Equal(t, MustParseAmount("2"), f.Held)
	assert.Equal(t, FundsStateDisputed, f.State)
}

func TestFunds_DisputeSameTxTwice(t *testing.T) {
	f := newFundsWith(MustParseAmount("5"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))

	err := f.Dispute(1, MustParseAmount("2"))
	assert.ErrorIs(t, err, ErrAlreadyDisputed)
	assert.Equal(t, MustParseAmount("3"), f.Available)
	assert.Equal(t, MustParseAmount("2"), f.Held)
}

func TestFunds_Resolve(t *testing.T) {
	f := newFundsWith(MustParseAmount("3"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))

	require.NoError(t, f.Resolve(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("3"), f.Available)
	assert.Equal(t, Zero(), f.Held)
	assert.Equal(t, FundsStateValid, f.State)
	assert.False(t, f.IsDisputed(1))
}

func TestFunds_ResolveRequiresDispute(t *testing.T) {
	f := newFundsWith(MustParseAmount("3"))
	assert.ErrorIs(t, f.Resolve(1, MustParseAmount("1")), ErrNotDisputed)
	assert.ErrorIs(t, f.Chargeback(1, MustParseAmount("1")), ErrNotDisputed)

	require.NoError(t, f.Dispute(1, MustParseAmount("1")))
	assert.ErrorIs(t, f.Resolve(2, MustParseAmount("1")), ErrNotUnderDispute)
	assert.ErrorIs(t, f.Chargeback(2, MustParseAmount("1")), ErrNotUnderDispute)
	assert.Equal(t, MustParseAmount("2"), f.Available)
	assert.Equal(t, MustParseAmount("1"), f.Held)
}

func TestFunds_Chargeback(t *testing.T) {
	f := newFundsWith(MustParseAmount("3"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))

	require.NoError(t, f.Chargeback(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("1"), f.Available)
	assert.Equal(t, Zero(), f.Held)
	assert.Equal(t, FundsStateFrozen, f.State)
	assert.True(t, f.Locked())
}

func TestFunds_ChargebackFreezesWithRemainingHeld(t *testing.T) {
	f := newFundsWith(MustParseAmount("10"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))
	require.NoError(t, f.Dispute(2, MustParseAmount("3")))

	require.NoError(t, f.Chargeback(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("3"), f.Held)
	assert.Equal(t, FundsStateFrozen, f.State)
}

func TestFunds_FrozenIsTerminal(t *testing.T) {
	f := newFundsWith(MustParseAmount("10"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))
	require.NoError(t, f.Dispute(2, MustParseAmount("3")))
	require.NoError(t, f.Chargeback(1, MustParseAmount("2")))
	before := *f

	assert.ErrorIs(t, f.Deposit(MustParseAmount("1")), ErrAccountFrozen)
	assert.ErrorIs(t, f.Withdraw(MustParseAmount("1")), ErrAccountFrozen)
	assert.ErrorIs(t, f.Dispute(3, MustParseAmount("1")), ErrAccountFrozen)
	assert.ErrorIs(t, f.Resolve(2, MustParseAmount("3")), ErrNotDisputed)
	assert.ErrorIs(t, f.Chargeback(2, MustParseAmount("3")), ErrNotDisputed)

	assert.Equal(t, before.Available, f.Available)
	assert.Equal(t, before.Held, f.Held)
	assert.Equal(t, FundsStateFrozen, f.State)
}

func TestFunds_MultipleDisputes(t *testing.T) {
	f := newFundsWith(MustParseAmount("10"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))
	require.NoError(t, f.Dispute(2, MustParseAmount("3")))
	assert.Equal(t, MustParseAmount("5"), f.Held)
	assert.Equal(t, 2, f.DisputedCount())

	require.NoError(t, f.Resolve(1, MustParseAmount("2")))
	assert.Equal(t, MustParseAmount("3"), f.Held)
	assert.Equal(t, FundsStateDisputed, f.State, "still disputed while held > 0")

	require.NoError(t, f.Resolve(2, MustParseAmount("3")))
	assert.Equal(t, Zero(), f.Held)
	assert.Equal(t, MustParseAmount("10"), f.Available)
	assert.Equal(t, FundsStateValid, f.State)
}

func TestFunds_ZeroValueUsable(t *testing.T) {
	var f Funds
	require.NoError(t, f.Deposit(MustParseAmount("1")))
	require.NoError(t, f.Dispute(1, MustParseAmount("1")))
	assert.Equal(t, FundsStateDisputed, f.State)
}

func TestFunds_Snapshot(t *testing.T) {
	f := newFundsWith(MustParseAmount("3"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))

	assert.Equal(t, Snapshot{
		Client:    7,
		Available: MustParseAmount("1"),
		Held:      MustParseAmount("2"),
		Total:     MustParseAmount("3"),
		Locked:    false,
	}, f.Snapshot(7))
}

func TestFundsState_String(t *testing.T) {
	assert.Equal(t, "valid", FundsStateValid.String())
	assert.Equal(t, "disputed", FundsStateDisputed.String())
	assert.Equal(t, "frozen", FundsStateFrozen.String())
}

func TestFunds_CloneDoesNotShareDisputes(t *testing.T) {
	f := newFundsWith(MustParseAmount("10"))
	require.NoError(t, f.Dispute(1, MustParseAmount("2")))

	clone := f.Clone()
	require.NoError(t, clone.Dispute(7, MustParseAmount("5")))
	require.NoError(t, clone.Resolve(1, MustParseAmount("2")))

	assert.True(t, f.IsDisputed(1))
	assert.False(t, f.IsDisputed(7))
	assert.Equal(t, 1, f.DisputedCount())
	assert.Equal(t, MustParseAmount("2"), f.Held)
	assert.Equal(t, FundsStateDisputed, f.State)
}
