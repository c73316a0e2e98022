package usecase

import (
	"cmp"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
)

// Stats 單次重播的統計
type Stats struct {
	Rows     int
	Applied  int
	Rejected int
}

// Engine 是核心業務邏輯層，依序重播交易並維護每個客戶的資金
//
// 結構:
//
//	ledger: 存款/提款帳本，用來查詢爭議引用的原始交易
//	funds: 客戶資金表，第一筆有效存款時建立，執行期間不刪除
//	rejects: 被丟棄資料列的去處 (Optional)
//
// 單執行緒使用，不做任何鎖定
type Engine struct {
	ledger  TransactionLedger
	funds   map[domain.ClientID]*domain.Funds
	logger  *zap.Logger
	rejects RejectSink
	stats   Stats
}

// Option 定義了 Engine 的配置選項函數
type Option func(*Engine)

// WithLogger 設定 logger，預設不輸出
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRejectSink 設定被丟棄資料列的去處
func WithRejectSink(sink RejectSink) Option {
	return func(e *Engine) {
		e.rejects = sink
	}
}

// NewEngine 建立引擎
//
// 參數:
//
//	ledger: 交易帳本，由這個引擎獨佔使用
//	opts: 配置選項
//
// 回傳:
//
//	*Engine: 引擎實例
func NewEngine(ledger TransactionLedger, opts ...Option) *Engine {
	e := &Engine{
		ledger: ledger,
		funds:  make(map[domain.ClientID]*domain.Funds),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process 依輸入順序逐筆處理，回傳每個客戶的最終結果
// 任何一列失敗都只丟棄該列，不會中斷整批處理
//
// 參數:
//
//	rows: 已排序的輸入資料列，只讀取一次
//
// 回傳:
//
//	map[domain.ClientID]domain.Snapshot: 客戶 ID 對應最終結果
func (e *Engine) Process(rows iter.Seq[domain.RowRecord]) map[domain.ClientID]domain.Snapshot {
	for row := range rows {
		_ = e.ProcessRow(row)
	}
	e.logger.Info("replay finished",
		zap.Int("rows", e.stats.Rows),
		zap.Int("applied", e.stats.Applied),
		zap.Int("rejected", e.stats.Rejected),
		zap.Int("clients", len(e.funds)),
		zap.Int("ledger_size", e.ledger.Len()),
	)
	return e.Result()
}

// ProcessRow 正規化並套用單一資料列
//
// 回傳:
//
//	error: *domain.FormatError 或 *domain.ValidationError，僅供呼叫端參考，該列已被丟棄
func (e *Engine) ProcessRow(row domain.RowRecord) error {
	e.stats.Rows++

	rec, err := domain.Normalize(row)
	if err == nil {
		err = e.Apply(rec)
	}
	if err != nil {
		e.stats.Rejected++
		e.reject(row, err)
		return err
	}
	e.stats.Applied++
	return nil
}

// Apply 驗證並套用一筆已正規化的交易
// 驗證失敗時不修改任何資金，也不寫入帳本
//
// 回傳:
//
//	error: *domain.ValidationError
func (e *Engine) Apply(rec domain.TransactionRecord) error {
	var err error
	switch rec.Type {
	case domain.TransactionTypeDeposit:
		err = e.handleDeposit(rec)
	case domain.TransactionTypeWithdrawal:
		err = e.handleWithdrawal(rec)
	case domain.TransactionTypeDispute:
		err = e.handleDispute(rec)
	case domain.TransactionTypeResolve:
		err = e.handleResolve(rec)
	case domain.TransactionTypeChargeback:
		err = e.handleChargeback(rec)
	default:
		err = domain.ErrUnknownType
	}
	if err != nil {
		return &domain.ValidationError{Type: rec.Type, Client: rec.Client, Tx: rec.Tx, Err: err}
	}

	if rec.Type.IsOriginal() {
		e.ledger.Put(rec)
	}
	return nil
}

// Result 目前所有客戶的結果
func (e *Engine) Result() map[domain.ClientID]domain.Snapshot {
	result := make(map[domain.ClientID]domain.Snapshot, len(e.funds))
	for client, funds := range e.funds {
		result[client] = funds.Snapshot(client)
	}
	return result
}

// Snapshots 依客戶 ID 排序的結果
func (e *Engine) Snapshots() []domain.Snapshot {
	snapshots := make([]domain.Snapshot, 0, len(e.funds))
	for client, funds := range e.funds {
		snapshots = append(snapshots, funds.Snapshot(client))
	}
	slices.SortFunc(snapshots, func(a, b domain.Snapshot) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return snapshots
}

// Stats 回傳統計
func (e *Engine) Stats() Stats {
	return e.stats
}

// Funds 取得客戶資金的複本，修改複本不影響引擎
func (e *Engine) Funds(client domain.ClientID) (domain.Funds, bool) {
	funds, ok := e.funds[client]
	if !ok {
		return domain.Funds{}, false
	}
	return funds.Clone(), true
}

// handleDeposit 存款；第一筆有效存款建立帳戶
func (e *Engine) handleDeposit(rec domain.TransactionRecord) error {
	if !rec.HasAmount {
		return domain.ErrMissingAmount
	}
	funds, ok := e.funds[rec.Client]
	if !ok {
		funds = domain.NewFunds()
		if err := funds.Deposit(rec.Amount); err != nil {
			return err
		}
		e.funds[rec.Client] = funds
		return nil
	}
	return funds.Deposit(rec.Amount)
}

// handleWithdrawal 提款；帳戶必須已存在
func (e *Engine) handleWithdrawal(rec domain.TransactionRecord) error {
	if !rec.HasAmount {
		return domain.ErrMissingAmount
	}
	funds, ok := e.funds[rec.Client]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return funds.Withdraw(rec.Amount)
}

// handleDispute 金額一律取自帳本中的原始交易
func (e *Engine) handleDispute(rec domain.TransactionRecord) error {
	funds, original, err := e.lookupOriginal(rec)
	if err != nil {
		return err
	}
	return funds.Dispute(original.Tx, original.Amount)
}

func (e *Engine) handleResolve(rec domain.TransactionRecord) error {
	funds, original, err := e.lookupOriginal(rec)
	if err != nil {
		return err
	}
	return funds.Resolve(original.Tx, original.Amount)
}

func (e *Engine) handleChargeback(rec domain.TransactionRecord) error {
	funds, original, err := e.lookupOriginal(rec)
	if err != nil {
		return err
	}
	return funds.Chargeback(original.Tx, original.Amount)
}

// lookupOriginal 找出客戶帳戶與被引用的原始交易，原始交易必須屬於同一客戶
func (e *Engine) lookupOriginal(rec domain.TransactionRecord) (*domain.Funds, domain.TransactionRecord, error) {
	funds, ok := e.funds[rec.Client]
	if !ok {
		return nil, domain.TransactionRecord{}, domain.ErrAccountNotFound
	}
	original, ok := e.ledger.Get(rec.Tx)
	if !ok {
		return nil, domain.TransactionRecord{}, domain.ErrTransactionNotFound
	}
	if original.Client != rec.Client {
		return nil, domain.TransactionRecord{}, domain.ErrClientMismatch
	}
	return funds, original, nil
}

// reject 記錄被丟棄的資料列，journal 寫入失敗只記 log
func (e *Engine) reject(row domain.RowRecord, reason error) {
	e.logger.Debug("row dropped",
		zap.String("type", row.Type),
		zap.String("client", row.Client),
		zap.String("tx", row.Tx),
		zap.String("amount", row.Amount),
		zap.Error(reason),
	)
	if e.rejects == nil {
		return
	}
	if err := e.rejects.Reject(row, reason); err != nil {
		e.logger.Warn("failed to journal dropped row", zap.Error(err))
	}
}
