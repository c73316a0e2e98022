package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// amount 使用 uint64，並定義精度：小數點後 4 位
const (
	CurrencyScale = 10000
	// CurrencyDigits 小數位數
	CurrencyDigits = 4
)

// Amount 以萬分之一為單位的非負定點數
type Amount uint64

// Zero 加法單位元
func Zero() Amount {
	return 0
}

// ParseAmount 解析 "integer[.fraction]" 格式的金額
// 小數 1~4 位右補零；沒有小數視為 .0000；超過 4 位回傳 ErrInvalidPrecision
func ParseAmount(text string) (Amount, error) {
	s := strings.TrimSpace(text)
	intPart, fracPart, _ := strings.Cut(s, ".")

	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return 0, &FormatError{Field: "amount", Text: text, Err: ErrInvalidFormat}
	}
	if len(fracPart) > CurrencyDigits {
		return 0, &FormatError{Field: "amount", Text: text, Err: ErrInvalidPrecision}
	}

	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil || whole > math.MaxUint64/CurrencyScale {
		return 0, &FormatError{Field: "amount", Text: text, Err: ErrInvalidFormat}
	}

	var frac uint64
	if fracPart != "" {
		// 右補零到 4 位，"5" -> "5000"
		padded := fracPart + strings.Repeat("0", CurrencyDigits-len(fracPart))
		frac, err = strconv.ParseUint(padded, 10, 64)
		if err != nil {
			return 0, &FormatError{Field: "amount", Text: text, Err: ErrInvalidFormat}
		}
	}
	// 整數部分已通過檢查，加上小數後仍可能超出 uint64
	scaled := whole * CurrencyScale
	if frac > math.MaxUint64-scaled {
		return 0, &FormatError{Field: "amount", Text: text, Err: ErrInvalidFormat}
	}
	return Amount(scaled + frac), nil
}

// MustParseAmount 僅供常數與測試使用
func MustParseAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Add 相加 (金額有業務上限，不處理溢位)
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub 相減；餘額不足時不動作，直接回傳 a
func (a Amount) Sub(b Amount) Amount {
	if a >= b {
		return a - b
	}
	return a
}

// IsZero 是否為零
func (a Amount) IsZero() bool { return a == 0 }

// Decimal 轉為 decimal.Decimal
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromUint64(uint64(a)).Shift(-CurrencyDigits)
}

// String 固定輸出 4 位小數，例如 "1.5000"
func (a Amount) String() string {
	return a.Decimal().StringFixed(CurrencyDigits)
}

// MarshalJSON 以數字輸出，保留 4 位小數
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}
