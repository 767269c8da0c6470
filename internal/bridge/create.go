package bridge

import (
	"evm-bridge/internal/fees"
	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
)

// CreateTransaction returns a fresh draft for the account. Pure, no I/O.
// The draft is EIP-1559-shaped; PrepareTransaction downgrades it to legacy
// when the configured provider reports no EIP-1559 fee data.
//
// The nonce is an optimistic local estimate (operationsCount + 1). It is
// overwritten by the authoritative on-chain nonce before signing, so it is
// an approximation, not a uniqueness guarantee under concurrent sends.
func CreateTransaction(account model.Account) model.Transaction {
	return model.Transaction{
		Family:       "evm",
		Mode:         "send",
		Amount:       decimal.Zero,
		Recipient:    "",
		GasLimit:     fees.DefaultGasLimit,
		Nonce:        uint64(account.OperationsCount) + 1,
		ChainID:      account.Currency.ChainID,
		FeesStrategy: "medium",
		Fees: model.DynamicFees{
			MaxFeePerGas:         decimal.Zero,
			MaxPriorityFeePerGas: decimal.Zero,
		},
	}
}
