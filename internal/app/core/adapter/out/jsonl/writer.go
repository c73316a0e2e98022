package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
)

// Writer 以 JSON Lines 輸出帳戶結果，每個客戶一行
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSnapshots 金額以數字輸出，固定 4 位小數
//
// 參數:
//
//	ctx: 上下文
//	snapshots: 帳戶結果，依傳入順序輸出
//
// 回傳:
//
//	error: 寫入錯誤
func (w *Writer) WriteSnapshots(ctx context.Context, snapshots []domain.Snapshot) error {
	enc := json.NewEncoder(w.w)
	for _, s := range snapshots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("write json row for client %d: %w", s.Client, err)
		}
	}
	return nil
}

var _ usecase.SnapshotWriter = (*Writer)(nil)
