package bridge

import (
	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
)

// TransactionPatch is a partial update applied to a draft. Nil fields are
// left untouched. Fee fields travel as a whole FeeScheme, so a patch can
// replace the fee model but never mix the two.
type TransactionPatch struct {
	Amount       *decimal.Decimal
	Recipient    *string
	UseAllAmount *bool
	Nonce        *uint64
	GasLimit     *decimal.Decimal
	Data         []byte
	FeesStrategy *string
	Fees         model.FeeScheme
}

// UpdateTransaction applies the patch and returns a new value; the input
// draft is never mutated.
func UpdateTransaction(tx model.Transaction, patch TransactionPatch) model.Transaction {
	next := tx

	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.Recipient != nil {
		next.Recipient = *patch.Recipient
	}
	if patch.UseAllAmount != nil {
		next.UseAllAmount = *patch.UseAllAmount
	}
	if patch.Nonce != nil {
		next.Nonce = *patch.Nonce
	}
	if patch.GasLimit != nil {
		next.GasLimit = *patch.GasLimit
	}
	if patch.Data != nil {
		next.Data = append([]byte(nil), patch.Data...)
	}
	if patch.FeesStrategy != nil {
		next.FeesStrategy = *patch.FeesStrategy
	}
	if patch.Fees != nil {
		next.Fees = patch.Fees
	}

	return next
}
