package usecase

import (
	"context"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
)

// TransactionLedger 交易帳本：TxID 對應最後一筆存款/提款
// 爭議/解除/退單不會寫入帳本
type TransactionLedger interface {
	// Get 取得原始交易
	Get(tx domain.TxID) (domain.TransactionRecord, bool)
	// Put 寫入或覆蓋原始交易
	Put(rec domain.TransactionRecord)
	// Len 帳本筆數
	Len() int
}

// RejectSink 接收被丟棄的資料列 (例如寫入 journal)
type RejectSink interface {
	Reject(row domain.RowRecord, reason error) error
}

// SnapshotWriter 輸出最終帳戶結果
type SnapshotWriter interface {
	WriteSnapshots(ctx context.Context, snapshots []domain.Snapshot) error
}
