package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
)

var header = []string{"client", "available", "held", "total", "locked"}

// Writer 以 CSV 輸出帳戶結果
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSnapshots 寫入標頭與每個客戶一列，金額固定 4 位小數
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
	cw := stdcsv.NewWriter(w.w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range snapshots {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for client %d: %w", s.Client, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ usecase.SnapshotWriter = (*Writer)(nil)
