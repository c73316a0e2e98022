package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
)

// Reader 逐列讀取 "type,client,tx,amount" 格式的 CSV
//
// 結構:
//
//	csv: 底層 encoding/csv Reader
//	err: 讀取中斷時的 I/O 錯誤
//	skipped: 無法解析的 CSV 列數 (例如引號錯誤)
type Reader struct {
	csv     *stdcsv.Reader
	err     error
	skipped int
}

// NewReader 建立 Reader；允許欄位數不固定 (amount 欄可省略)
func NewReader(r io.Reader) *Reader {
	cr := stdcsv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Rows 依檔案順序產生資料列，只能走訪一次
// 第一列若為標頭則略過；遇到 I/O 錯誤時停止，錯誤由 Err 取得
func (r *Reader) Rows() iter.Seq[domain.RowRecord] {
	return func(yield func(domain.RowRecord) bool) {
		first := true
		for {
			fields, err := r.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var parseErr *stdcsv.ParseError
				if errors.As(err, &parseErr) {
					r.skipped++
					continue
				}
				r.err = err
				return
			}
			if first {
				first = false
				if isHeader(fields) {
					continue
				}
			}
			if !yield(toRow(fields)) {
				return
			}
		}
	}
}

// Err 回傳中斷讀取的錯誤
func (r *Reader) Err() error {
	return r.err
}

// Skipped 無法解析而略過的 CSV 列數
func (r *Reader) Skipped() int {
	return r.skipped
}

func isHeader(fields []string) bool {
	if len(fields) < 3 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(fields[0]), "type") &&
		strings.EqualFold(strings.TrimSpace(fields[1]), "client") &&
		strings.EqualFold(strings.TrimSpace(fields[2]), "tx")
}

func toRow(fields []string) domain.RowRecord {
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return domain.RowRecord{
		Type:   field(0),
		Client: field(1),
		Tx:     field(2),
		Amount: field(3),
	}
}
