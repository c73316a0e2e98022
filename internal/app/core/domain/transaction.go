package domain

import (
	"strconv"
	"strings"
)

// ClientID 客戶 ID
type ClientID uint16

// TxID 交易 ID，存款/提款唯一，爭議類交易引用原始 ID
type TxID uint32

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = iota + 1
	// 提款
	TransactionTypeWithdrawal
	// 爭議
	TransactionTypeDispute
	// 爭議解除
	TransactionTypeResolve
	// 退單 (凍結帳戶)
	TransactionTypeChargeback
)

var transactionTypeNames = map[TransactionType]string{
	TransactionTypeDeposit:    "deposit",
	TransactionTypeWithdrawal: "withdrawal",
	TransactionTypeDispute:    "dispute",
	TransactionTypeResolve:    "resolve",
	TransactionTypeChargeback: "chargeback",
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTransactionType 不分大小寫
func ParseTransactionType(text string) (TransactionType, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for t, name := range transactionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, &FormatError{Field: "type", Text: text, Err: ErrUnknownType}
}

// IsOriginal 存款/提款才會寫入帳本，成為之後爭議的引用對象
func (t TransactionType) IsOriginal() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// RowRecord 輸入的一列原始資料，欄位順序固定: type, client, tx, amount
type RowRecord struct {
	Type   string `json:"type"`
	Client string `json:"client"`
	Tx     string `json:"tx"`
	Amount string `json:"amount"`
}

// TransactionRecord 正規化後的交易，建立後不再修改
// 注意欄位排序以避免 Padding
type TransactionRecord struct {
	Amount    Amount
	Tx        TxID
	Client    ClientID
	Type      TransactionType
	HasAmount bool
}

// Normalize 將 RowRecord 轉為 TransactionRecord
// 金額為空、"null" 或無法解析時視為沒有金額；type/client/tx 無法解析則回傳 FormatError
func Normalize(row RowRecord) (TransactionRecord, error) {
	t, err := ParseTransactionType(row.Type)
	if err != nil {
		return TransactionRecord{}, err
	}
	client, err := strconv.ParseUint(strings.TrimSpace(row.Client), 10, 16)
	if err != nil {
		return TransactionRecord{}, &FormatError{Field: "client", Text: row.Client, Err: ErrInvalidFormat}
	}
	tx, err := strconv.ParseUint(strings.TrimSpace(row.Tx), 10, 32)
	if err != nil {
		return TransactionRecord{}, &FormatError{Field: "tx", Text: row.Tx, Err: ErrInvalidFormat}
	}

	rec := TransactionRecord{
		Type:   t,
		Client: ClientID(client),
		Tx:     TxID(tx),
	}
	if amount, ok := parseOptionalAmount(row.Amount); ok {
		rec.Amount = amount
		rec.HasAmount = true
	}
	return rec, nil
}

func parseOptionalAmount(text string) (Amount, bool) {
	s := strings.TrimSpace(text)
	if s == "" || strings.EqualFold(s, "null") {
		return 0, false
	}
	amount, err := ParseAmount(s)
	if err != nil {
		return 0, false
	}
	return amount, true
}
