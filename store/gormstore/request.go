package gormstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DomeLiquid/custody/core"
)

// IncrNonce locks the ledger's counter row for the rest of the transaction.
func (s *Store) IncrNonce(ctx context.Context, ledger core.Ledger) (uint64, error) {
	var nonce uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := requestNonceRow{Ledger: string(ledger)}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ledger = ?", string(ledger)).
			Take(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row.Nonce++
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ledger"}},
			DoUpdates: clause.AssignmentColumns([]string{"nonce"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		nonce = row.Nonce
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "incr %s nonce", ledger)
	}
	return nonce, nil
}

func (s *Store) GetNonce(ctx context.Context, ledger core.Ledger) (uint64, error) {
	var row requestNonceRow
	err := s.db.WithContext(ctx).Where("ledger = ?", string(ledger)).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Nonce, nil
}

func (s *Store) CreateRequestRecord(ctx context.Context, record *core.RequestRecord) error {
	return s.db.WithContext(ctx).Create(toRow(record)).Error
}

func (s *Store) UpdateRequestRecord(ctx context.Context, record *core.RequestRecord) error {
	res := s.db.WithContext(ctx).Model(&requestRecordRow{}).
		Where("ledger = ? AND hash = ?", string(record.Ledger), record.Hash).
		Updates(map[string]any{
			"status":     record.Status,
			"data":       record.Data,
			"updated_at": record.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) GetRequestRecordByHash(ctx context.Context, ledger core.Ledger, hash string) (*core.RequestRecord, error) {
	var row requestRecordRow
	if err := s.db.WithContext(ctx).Where("ledger = ? AND hash = ?", string(ledger), hash).Take(&row).Error; err != nil {
		return nil, err
	}
	return row.toRecord(), nil
}

func (s *Store) GetRequestRecordByNonce(ctx context.Context, ledger core.Ledger, nonce uint64) (*core.RequestRecord, error) {
	var row requestRecordRow
	if err := s.db.WithContext(ctx).Where("ledger = ? AND nonce = ?", string(ledger), nonce).Take(&row).Error; err != nil {
		return nil, err
	}
	return row.toRecord(), nil
}

func (s *Store) ListRequestRecords(ctx context.Context, ledger core.Ledger, startAfterNonce uint64, limit int) ([]*core.RequestRecord, error) {
	var rows []*requestRecordRow
	err := s.db.WithContext(ctx).
		Where("ledger = ? AND nonce > ?", string(ledger), startAfterNonce).
		Order("nonce ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]*core.RequestRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (s *Store) CountRequestRecords(ctx context.Context, ledger core.Ledger) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&requestRecordRow{}).Where("ledger = ?", string(ledger)).Count(&count).Error
	return count, err
}

func toRow(record *core.RequestRecord) *requestRecordRow {
	return &requestRecordRow{
		Ledger:    string(record.Ledger),
		Hash:      record.Hash,
		Nonce:     record.Nonce,
		Status:    record.Status,
		Data:      record.Data,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (r *requestRecordRow) toRecord() *core.RequestRecord {
	return &core.RequestRecord{
		Ledger:    core.Ledger(r.Ledger),
		Nonce:     r.Nonce,
		Hash:      r.Hash,
		Status:    r.Status,
		Data:      r.Data,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
