package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileMode fs.FileMode = 0644

// Journal 是 append-only 的 JSON Lines 檔案
// 每次 Write 寫入一行，Close 時才刷入硬碟
type Journal struct {
	file *os.File
	buf  *bufio.Writer
	mu   sync.Mutex
}

// Open 開啟或建立一個 journal 檔案
// O_RDWR 讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, err
	}
	return &Journal{
		file: file,
		buf:  bufio.NewWriter(file),
	}, nil
}

// Write 寫入一筆資料 (一行 JSON)
func (j *Journal) Write(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return json.NewEncoder(j.buf).Encode(v)
}

// Sync 將緩衝區寫出並刷入硬碟
func (j *Journal) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flush()
}

// Close 刷入硬碟後關閉檔案
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.flush(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}

func (j *Journal) flush() error {
	if err := j.buf.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// ReadAll 從頭讀取所有資料
// callback 每次收到一行原始 JSON，避免一次將所有資料載入記憶體
func (j *Journal) ReadAll(callback func(jsonRaw []byte) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.buf.Flush(); err != nil {
		return err
	}
	// 確保從頭讀取
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(j.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
