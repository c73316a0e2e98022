package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat 金額或欄位格式錯誤
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidPrecision 小數位數超過 4 位
	ErrInvalidPrecision = errors.New("a valid amount is up to 4 digits precision")

	// ErrUnknownType 未知的交易類型
	ErrUnknownType = errors.New("unknown transaction type")

	// ErrMissingAmount 存款/提款缺少金額
	ErrMissingAmount = errors.New("amount is required")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountFrozen 帳戶已凍結
	ErrAccountFrozen = errors.New("account is frozen")

	// ErrTransactionNotFound 找不到原始交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrClientMismatch 原始交易屬於其他客戶
	ErrClientMismatch = errors.New("transaction belongs to another client")

	// ErrNotDisputed 帳戶不在爭議狀態
	ErrNotDisputed = errors.New("account is not disputed")

	// ErrNotUnderDispute 該筆交易沒有進行中的爭議
	ErrNotUnderDispute = errors.New("transaction is not under dispute")

	// ErrAlreadyDisputed 該筆交易已在爭議中
	ErrAlreadyDisputed = errors.New("transaction is already disputed")
)

// FormatError 輸入無法解析 (金額、類型、ID)
type FormatError struct {
	Field string
	Text  string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Text, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidationError 交易不符合當下帳戶/帳本狀態，整筆丟棄
type ValidationError struct {
	Type   TransactionType
	Client ClientID
	Tx     TxID
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s client=%d tx=%d rejected: %v", e.Type, e.Client, e.Tx, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
