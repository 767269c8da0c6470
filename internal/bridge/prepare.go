package bridge

import (
	"context"

	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
)

// PrepareTransaction fills the draft's gas limit and fee fields from the
// node and returns a new, broadcast-ready transaction.
//
// Fee-model selection is provider-driven, not chain-driven: the same chain
// id can yield either variant depending on what the configured endpoint
// reports, so the decision is re-made on every call and carried downstream
// only via the transaction's type tag. The result always holds exactly one
// fee scheme.
func (b *Bridge) PrepareTransaction(ctx context.Context, account model.Account, tx model.Transaction) (model.Transaction, error) {
	gasLimit := b.fees.GetGasEstimation(ctx, tx)
	feeData := b.fees.GetFeesEstimation(ctx)

	next := tx
	next.ChainID = account.Currency.ChainID
	next.GasLimit = gasLimit

	if feeData.MaxFeePerGas != nil && feeData.MaxPriorityFeePerGas != nil {
		next.Fees = model.DynamicFees{
			MaxFeePerGas:         *feeData.MaxFeePerGas,
			MaxPriorityFeePerGas: *feeData.MaxPriorityFeePerGas,
		}
		return next, nil
	}

	gasPrice := decimal.Zero
	if feeData.GasPrice != nil {
		gasPrice = *feeData.GasPrice
	}
	next.Fees = model.LegacyFees{GasPrice: gasPrice}

	return next, nil
}
