package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the direction of a historical transaction relative to the
// synced account.
type OperationType string

const (
	OperationIn  OperationType = "IN"
	OperationOut OperationType = "OUT"
)

// Operation is one historical transaction of an account, mapped from an
// explorer record.
type Operation struct {
	AccountID   string          `json:"account_id"`
	Hash        string          `json:"hash"`
	Type        OperationType   `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Fee         decimal.Decimal `json:"fee"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	BlockHeight uint64          `json:"block_height"`
	Date        time.Time       `json:"date"`
}
