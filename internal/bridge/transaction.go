package bridge

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"evm-bridge/internal/model"
	"evm-bridge/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// ToRaw maps a transaction to its wire/storage twin. Decimals become
// canonical fixed-point strings and calldata becomes unprefixed lowercase
// hex. The populated fee scheme's fields are always emitted, even when their
// value is zero: "present with value 0" and "absent" are different states
// and both must survive the round-trip.
func ToRaw(tx model.Transaction) model.TransactionRaw {
	raw := model.TransactionRaw{
		Family:       tx.Family,
		Mode:         tx.Mode,
		Amount:       tx.Amount.String(),
		Recipient:    tx.Recipient,
		UseAllAmount: tx.UseAllAmount,
		Nonce:        tx.Nonce,
		ChainID:      tx.ChainID,
		GasLimit:     tx.GasLimit.String(),
		FeesStrategy: tx.FeesStrategy,
		Type:         tx.Type(),
	}

	if len(tx.Data) > 0 {
		raw.Data = hex.EncodeToString(tx.Data)
	}

	switch fees := tx.Fees.(type) {
	case model.LegacyFees:
		gasPrice := fees.GasPrice.String()
		raw.GasPrice = &gasPrice
	case model.DynamicFees:
		maxFee := fees.MaxFeePerGas.String()
		maxPriority := fees.MaxPriorityFeePerGas.String()
		raw.MaxFeePerGas = &maxFee
		raw.MaxPriorityFeePerGas = &maxPriority
	}

	return raw
}

// FromRaw decodes a wire/storage transaction. The raw's type tag must agree
// with its populated fee fields; a raw carrying both fee models, or missing
// the fields its tag requires, is rejected rather than narrowed silently.
func FromRaw(raw model.TransactionRaw) (model.Transaction, error) {
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", raw.Amount, err)
	}

	gasLimit, err := decimal.NewFromString(raw.GasLimit)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid gasLimit %q: %w", raw.GasLimit, err)
	}

	tx := model.Transaction{
		Family:       raw.Family,
		Mode:         raw.Mode,
		Amount:       amount,
		Recipient:    raw.Recipient,
		UseAllAmount: raw.UseAllAmount,
		Nonce:        raw.Nonce,
		ChainID:      raw.ChainID,
		GasLimit:     gasLimit,
		FeesStrategy: raw.FeesStrategy,
	}

	if raw.Data != "" {
		data, err := hex.DecodeString(raw.Data)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid data payload: %w", err)
		}
		tx.Data = data
	}

	switch raw.Type {
	case model.DynamicFeeTxType:
		if raw.MaxFeePerGas == nil || raw.MaxPriorityFeePerGas == nil || raw.GasPrice != nil {
			return model.Transaction{}, errno.ErrInvalidTransaction
		}
		maxFee, err := decimal.NewFromString(*raw.MaxFeePerGas)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid maxFeePerGas %q: %w", *raw.MaxFeePerGas, err)
		}
		maxPriority, err := decimal.NewFromString(*raw.MaxPriorityFeePerGas)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid maxPriorityFeePerGas %q: %w", *raw.MaxPriorityFeePerGas, err)
		}
		tx.Fees = model.DynamicFees{
			MaxFeePerGas:         maxFee,
			MaxPriorityFeePerGas: maxPriority,
		}

	case model.LegacyTxType:
		if raw.GasPrice == nil || raw.MaxFeePerGas != nil || raw.MaxPriorityFeePerGas != nil {
			return model.Transaction{}, errno.ErrInvalidTransaction
		}
		gasPrice, err := decimal.NewFromString(*raw.GasPrice)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid gasPrice %q: %w", *raw.GasPrice, err)
		}
		tx.Fees = model.LegacyFees{GasPrice: gasPrice}

	default:
		return model.Transaction{}, errno.ErrInvalidTransaction
	}

	return tx, nil
}

// ToNative maps a transaction to the chain-native encoding handed to the
// signer. The variant is selected by the transaction's own type tag, never
// re-derived from which fee fields happen to be non-nil.
func ToNative(tx model.Transaction) (*types.Transaction, error) {
	var to *common.Address
	if tx.Recipient != "" {
		addr := common.HexToAddress(tx.Recipient)
		to = &addr
	}

	value := tx.Amount.BigInt()
	gas := tx.GasLimit.BigInt().Uint64()

	switch tx.Type() {
	case model.DynamicFeeTxType:
		fees, ok := tx.Fees.(model.DynamicFees)
		if !ok {
			return nil, errno.ErrInvalidTransaction
		}
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(tx.ChainID),
			Nonce:     tx.Nonce,
			GasTipCap: fees.MaxPriorityFeePerGas.BigInt(),
			GasFeeCap: fees.MaxFeePerGas.BigInt(),
			Gas:       gas,
			To:        to,
			Value:     value,
			Data:      tx.Data,
		}), nil

	case model.LegacyTxType:
		fees, ok := tx.Fees.(model.LegacyFees)
		if !ok {
			return nil, errno.ErrInvalidTransaction
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    tx.Nonce,
			GasPrice: fees.GasPrice.BigInt(),
			Gas:      gas,
			To:       to,
			Value:    value,
			Data:     tx.Data,
		}), nil

	default:
		return nil, errno.ErrInvalidTransaction
	}
}
