package domain

import "maps"

// FundsState 帳戶狀態
type FundsState uint8

const (
	// 正常
	FundsStateValid FundsState = iota
	// 有進行中的爭議 (held > 0)
	FundsStateDisputed
	// 已退單，終止狀態，之後所有操作皆不生效
	FundsStateFrozen
)

func (s FundsState) String() string {
	switch s {
	case FundsStateValid:
		return "valid"
	case FundsStateDisputed:
		return "disputed"
	case FundsStateFrozen:
		return "frozen"
	}
	return "unknown"
}

// Funds 單一客戶的資金
//
// 結構:
//
//	Available: 可用餘額
//	Held: 爭議中凍結的金額
//	State: Valid / Disputed / Frozen
//	disputed: 目前爭議中的交易 ID
//
// Total 一律由 Available + Held 推導，不另外保存
type Funds struct {
	Available Amount
	Held      Amount
	State     FundsState
	disputed  map[TxID]struct{}
}

// NewFunds 建立空帳戶，第一筆存款時由引擎建立
func NewFunds() *Funds {
	return &Funds{
		State:    FundsStateValid,
		disputed: make(map[TxID]struct{}),
	}
}

// Clone 複製一份，爭議集合不與原本共用
func (f *Funds) Clone() Funds {
	clone := *f
	clone.disputed = maps.Clone(f.disputed)
	return clone
}

// Total 總額
func (f *Funds) Total() Amount {
	return f.Available.Add(f.Held)
}

// Locked 是否已凍結
func (f *Funds) Locked() bool {
	return f.State == FundsStateFrozen
}

// IsDisputed 該筆交易是否在爭議中
func (f *Funds) IsDisputed(tx TxID) bool {
	_, ok := f.disputed[tx]
	return ok
}

// DisputedCount 進行中的爭議數量
func (f *Funds) DisputedCount() int {
	return len(f.disputed)
}

// Deposit 存款
func (f *Funds) Deposit(amount Amount) error {
	if f.Locked() {
		return ErrAccountFrozen
	}
	f.Available = f.Available.Add(amount)
	return nil
}

// Withdraw 提款；餘額不足時不扣款但仍視為已處理
func (f *Funds) Withdraw(amount Amount) error {
	if f.Locked() {
		return ErrAccountFrozen
	}
	f.Available = f.Available.Sub(amount)
	return nil
}

// Dispute 將原始交易金額由 Available 移到 Held
func (f *Funds) Dispute(tx TxID, amount Amount) error {
	if f.Locked() {
		return ErrAccountFrozen
	}
	if f.IsDisputed(tx) {
		return ErrAlreadyDisputed
	}
	f.Held = f.Held.Add(amount)
	f.Available = f.Available.Sub(amount)
	f.disputedSet()[tx] = struct{}{}
	f.settle()
	return nil
}

// Resolve 解除爭議，金額回到 Available
func (f *Funds) Resolve(tx TxID, amount Amount) error {
	if err := f.checkUnderDispute(tx); err != nil {
		return err
	}
	f.Held = f.Held.Sub(amount)
	f.Available = f.Available.Add(amount)
	delete(f.disputed, tx)
	f.settle()
	return nil
}

// Chargeback 退單，扣除 Held 並凍結帳戶 (不論剩餘 Held)
func (f *Funds) Chargeback(tx TxID, amount Amount) error {
	if err := f.checkUnderDispute(tx); err != nil {
		return err
	}
	f.Held = f.Held.Sub(amount)
	delete(f.disputed, tx)
	f.State = FundsStateFrozen
	return nil
}

// Snapshot 輸出用
func (f *Funds) Snapshot(client ClientID) Snapshot {
	return Snapshot{
		Client:    client,
		Available: f.Available,
		Held:      f.Held,
		Total:     f.Total(),
		Locked:    f.Locked(),
	}
}

func (f *Funds) checkUnderDispute(tx TxID) error {
	if f.State != FundsStateDisputed {
		return ErrNotDisputed
	}
	if !f.IsDisputed(tx) {
		return ErrNotUnderDispute
	}
	return nil
}

// settle 依 Held 決定 Valid / Disputed
func (f *Funds) settle() {
	if !f.Held.IsZero() {
		f.State = FundsStateDisputed
	} else {
		f.State = FundsStateValid
	}
}

// disputedSet 允許零值 Funds 直接使用
func (f *Funds) disputedSet() map[TxID]struct{} {
	if f.disputed == nil {
		f.disputed = make(map[TxID]struct{})
	}
	return f.disputed
}

// Snapshot 單一客戶的最終結果
type Snapshot struct {
	Client    ClientID `json:"client"`
	Available Amount   `json:"available"`
	Held      Amount   `json:"held"`
	Total     Amount   `json:"total"`
	Locked    bool     `json:"locked"`
}
