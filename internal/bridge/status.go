package bridge

import (
	"context"

	"evm-bridge/internal/fees"
	"evm-bridge/internal/model"
	"evm-bridge/pkg/address"
	"evm-bridge/pkg/errno"

	"github.com/shopspring/decimal"
)

// GetTransactionStatus validates a draft against the account's synced state.
// Errors block signing, warnings do not. No I/O: estimated fees are computed
// from the fields preparation already filled.
func (b *Bridge) GetTransactionStatus(ctx context.Context, account model.Account, tx model.Transaction) (model.TransactionStatus, error) {
	statusErrors := map[string]error{}
	warnings := map[string]error{}

	estimatedFees := estimateFees(tx)
	totalSpent := tx.Amount.Add(estimatedFees)

	if tx.Recipient == "" {
		statusErrors["recipient"] = errno.ErrRecipientRequired
	} else if !address.Valid(tx.Recipient) {
		statusErrors["recipient"] = errno.ErrInvalidRecipient
	}

	if tx.Amount.IsZero() && !tx.UseAllAmount {
		statusErrors["amount"] = errno.ErrAmountRequired
	} else if totalSpent.GreaterThan(account.Balance) {
		statusErrors["amount"] = errno.ErrNotEnoughBalance
	}

	if tx.GasLimit.LessThan(fees.DefaultGasLimit) {
		warnings["gasLimit"] = errno.ErrGasLimitTooLow
	}

	return model.TransactionStatus{
		Errors:        statusErrors,
		Warnings:      warnings,
		EstimatedFees: estimatedFees,
		Amount:        tx.Amount,
		TotalSpent:    totalSpent,
	}, nil
}

// estimateFees is gasLimit times the per-gas ceiling of the populated fee
// scheme.
func estimateFees(tx model.Transaction) decimal.Decimal {
	switch fees := tx.Fees.(type) {
	case model.LegacyFees:
		return tx.GasLimit.Mul(fees.GasPrice)
	case model.DynamicFees:
		return tx.GasLimit.Mul(fees.MaxFeePerGas)
	default:
		return decimal.Zero
	}
}
