package store

import (
	"context"
	"encoding/json"
	"fmt"

	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists synced operations and raw drafts.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveOperations upserts the batch; an operation already known for the
// account (same account id + hash) is left untouched.
func (s *Store) SaveOperations(ctx context.Context, ops []model.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	records := make([]OperationRecord, 0, len(ops))
	for _, op := range ops {
		records = append(records, OperationRecord{
			AccountID:   op.AccountID,
			Hash:        op.Hash,
			Type:        string(op.Type),
			Value:       op.Value.String(),
			Fee:         op.Fee.String(),
			FromAddress: op.From,
			ToAddress:   op.To,
			BlockHeight: op.BlockHeight,
			Date:        op.Date,
		})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to save operations: %w", err)
	}
	return nil
}

// ListOperations returns the account's stored operations, newest block
// first.
func (s *Store) ListOperations(ctx context.Context, accountID string) ([]model.Operation, error) {
	var records []OperationRecord
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("block_height DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	ops := make([]model.Operation, 0, len(records))
	for _, rec := range records {
		op, err := recordToOperation(rec)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// SaveDraft stores a raw draft and returns its id.
func (s *Store) SaveDraft(ctx context.Context, accountID string, raw model.TransactionRaw) (uint64, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to encode draft: %w", err)
	}

	record := DraftRecord{AccountID: accountID, Raw: string(encoded)}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, fmt.Errorf("failed to save draft: %w", err)
	}
	return record.ID, nil
}

// GetDraft loads a stored raw draft.
func (s *Store) GetDraft(ctx context.Context, id uint64) (model.TransactionRaw, error) {
	var record DraftRecord
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return model.TransactionRaw{}, fmt.Errorf("failed to load draft %d: %w", id, err)
	}

	var raw model.TransactionRaw
	if err := json.Unmarshal([]byte(record.Raw), &raw); err != nil {
		return model.TransactionRaw{}, fmt.Errorf("stored draft %d is corrupt: %w", id, err)
	}
	return raw, nil
}

func recordToOperation(rec OperationRecord) (model.Operation, error) {
	value, err := decimal.NewFromString(rec.Value)
	if err != nil {
		return model.Operation{}, fmt.Errorf("stored operation %d has invalid value: %w", rec.ID, err)
	}
	fee, err := decimal.NewFromString(rec.Fee)
	if err != nil {
		return model.Operation{}, fmt.Errorf("stored operation %d has invalid fee: %w", rec.ID, err)
	}

	return model.Operation{
		AccountID:   rec.AccountID,
		Hash:        rec.Hash,
		Type:        model.OperationType(rec.Type),
		Value:       value,
		Fee:         fee,
		From:        rec.FromAddress,
		To:          rec.ToAddress,
		BlockHeight: rec.BlockHeight,
		Date:        rec.Date.UTC(),
	}, nil
}
