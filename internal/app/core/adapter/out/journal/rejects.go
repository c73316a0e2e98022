package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
)

// Appender 寫入一筆 JSON 資料，由 pkg/journal.Journal 實作
type Appender interface {
	Write(v any) error
}

// 丟棄原因分類
const (
	KindFormat     = "format"
	KindValidation = "validation"
)

// Entry journal 中的一行
type Entry struct {
	RunID      uuid.UUID        `json:"run_id"`
	Seq        uint64           `json:"seq"`
	Kind       string           `json:"kind"`
	Reason     string           `json:"reason"`
	Row        domain.RowRecord `json:"row"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// RejectJournal 將被丟棄的資料列寫入 journal，以 RunID 區分每次執行
type RejectJournal struct {
	out   Appender
	runID uuid.UUID
	seq   uint64
	now   func() time.Time
}

// NewRejectJournal 建立 RejectJournal
//
// 參數:
//
//	out: journal 寫入端
//	runID: 本次執行的 ID
//
// 回傳:
//
//	*RejectJournal: 實例
func NewRejectJournal(out Appender, runID uuid.UUID) *RejectJournal {
	return &RejectJournal{
		out:   out,
		runID: runID,
		now:   time.Now,
	}
}

// Reject 實作 usecase.RejectSink
func (r *RejectJournal) Reject(row domain.RowRecord, reason error) error {
	r.seq++
	return r.out.Write(Entry{
		RunID:      r.runID,
		Seq:        r.seq,
		Kind:       kindOf(reason),
		Reason:     reason.Error(),
		Row:        row,
		RecordedAt: r.now().UTC(),
	})
}

func kindOf(err error) string {
	var formatErr *domain.FormatError
	if errors.As(err, &formatErr) {
		return KindFormat
	}
	return KindValidation
}

var _ usecase.RejectSink = (*RejectJournal)(nil)
