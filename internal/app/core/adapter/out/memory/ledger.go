package memory

import (
	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
)

// Ledger 是記憶體中的交易帳本
//
// 結構:
//
//	records: TxID 對應最後一筆存款/提款
//
// 由單一 Engine 獨佔，不需要 Lock
type Ledger struct {
	records map[domain.TxID]domain.TransactionRecord
}

// NewLedger 建立空帳本
func NewLedger() *Ledger {
	return &Ledger{
		records: make(map[domain.TxID]domain.TransactionRecord),
	}
}

// Get 取得原始交易
//
// 參數:
//
//	tx: 交易 ID
//
// 回傳:
//
//	domain.TransactionRecord: 原始交易
//	bool: 是否存在
func (l *Ledger) Get(tx domain.TxID) (domain.TransactionRecord, bool) {
	rec, ok := l.records[tx]
	return rec, ok
}

// Put 寫入原始交易，同一 TxID 以最後一筆為準
// 只接受存款/提款，其他類型直接忽略
func (l *Ledger) Put(rec domain.TransactionRecord) {
	if !rec.Type.IsOriginal() {
		return
	}
	l.records[rec.Tx] = rec
}

// Len 帳本筆數
func (l *Ledger) Len() int {
	return len(l.records)
}

var _ usecase.TransactionLedger = (*Ledger)(nil)
