package store

import "time"

// OperationRecord is the persisted form of one synced operation. Monetary
// fields are stored as the same canonical decimal strings the wire format
// uses.
type OperationRecord struct {
	ID          uint64    `gorm:"primaryKey"`
	AccountID   string    `gorm:"size:128;uniqueIndex:idx_op_account_hash"`
	Hash        string    `gorm:"size:128;uniqueIndex:idx_op_account_hash"`
	Type        string    `gorm:"size:8"`
	Value       string    `gorm:"size:80"`
	Fee         string    `gorm:"size:80"`
	FromAddress string    `gorm:"size:64"`
	ToAddress   string    `gorm:"size:64"`
	BlockHeight uint64    `gorm:"index"`
	Date        time.Time ``
	CreatedAt   time.Time ``
}

// DraftRecord persists a draft transaction between edit sessions. Only the
// raw wire shape is ever stored, never the in-memory Transaction.
type DraftRecord struct {
	ID        uint64 `gorm:"primaryKey"`
	AccountID string `gorm:"size:128;index"`
	Raw       string `gorm:"type:text"` // JSON-encoded TransactionRaw
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllModels returns every model the store migrates. New tables only need to
// be added here.
func AllModels() []interface{} {
	return []interface{}{
		&OperationRecord{},
		&DraftRecord{},
	}
}
