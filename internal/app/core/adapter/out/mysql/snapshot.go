package mysql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-mem-payments/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-payments/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-payments/pkg/mysql"
)

const defaultBatchSize = 500

// sqlClientFunds 對應資料庫的 client_funds 表
// 金額以萬分之一為單位的整數保存
type sqlClientFunds struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RunID     []byte `gorm:"column:run_id;type:binary(16);uniqueIndex:idx_run_client"`
	ClientID  uint16 `gorm:"column:client_id;uniqueIndex:idx_run_client"`
	Available uint64
	Held      uint64
	Total     uint64
	Locked    bool
	CreatedAt int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlClientFunds) TableName() string {
	return "client_funds"
}

// SnapshotStore 將每次執行的結果寫入 MySQL，以 run_id 區分
type SnapshotStore struct {
	client    *mysql.Client
	runID     uuid.UUID
	batchSize int
}

func NewSnapshotStore(client *mysql.Client, runID uuid.UUID) *SnapshotStore {
	return &SnapshotStore{
		client:    client,
		runID:     runID,
		batchSize: defaultBatchSize,
	}
}

// Migrate 建立或更新 client_funds 表
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&sqlClientFunds{})
}

// WriteSnapshots 在單一 Transaction 內寫入所有結果；同一 run_id + client_id 重複寫入時覆蓋
func (s *SnapshotStore) WriteSnapshots(ctx context.Context, snapshots []domain.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	rows := make([]sqlClientFunds, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, toSQLClientFunds(s.runID, snapshot))
	}

	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			DoUpdates: clause.AssignmentColumns([]string{"available", "held", "total", "locked"}),
		}).CreateInBatches(&rows, s.batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("write client_funds for run %s: %w", s.runID, err)
	}
	return nil
}

// LoadSnapshots 讀回本次執行寫入的結果，依 client_id 排序
func (s *SnapshotStore) LoadSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	var rows []sqlClientFunds
	err := s.client.DB().WithContext(ctx).
		Where("run_id = ?", s.runID[:]).
		Order("client_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, fromSQLClientFunds(row))
	}
	return snapshots, nil
}

func toSQLClientFunds(runID uuid.UUID, s domain.Snapshot) sqlClientFunds {
	return sqlClientFunds{
		RunID:     runID[:],
		ClientID:  uint16(s.Client),
		Available: uint64(s.Available),
		Held:      uint64(s.Held),
		Total:     uint64(s.Total),
		Locked:    s.Locked,
	}
}

func fromSQLClientFunds(row sqlClientFunds) domain.Snapshot {
	return domain.Snapshot{
		Client:    domain.ClientID(row.ClientID),
		Available: domain.Amount(row.Available),
		Held:      domain.Amount(row.Held),
		Total:     domain.Amount(row.Total),
		Locked:    row.Locked,
	}
}

var _ usecase.SnapshotWriter = (*SnapshotStore)(nil)
