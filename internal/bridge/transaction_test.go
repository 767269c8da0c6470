package bridge

import (
	"encoding/json"
	"testing"

	"evm-bridge/internal/model"
	"evm-bridge/pkg/errno"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// roundTrip pushes the raw form through JSON, the storage boundary the raw
// shape exists for, before decoding it back.
func roundTrip(t *testing.T, tx model.Transaction) model.Transaction {
	t.Helper()

	bytes, err := json.Marshal(ToRaw(tx))
	require.NoError(t, err)

	var raw model.TransactionRaw
	require.NoError(t, json.Unmarshal(bytes, &raw))

	decoded, err := FromRaw(raw)
	require.NoError(t, err)
	return decoded
}

func TestRoundTripDynamic(t *testing.T) {
	tx := model.Transaction{
		Family:       "evm",
		Mode:         "send",
		Amount:       dec("1500000000000000000"),
		Recipient:    "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42",
		Nonce:        7,
		ChainID:      1,
		GasLimit:     dec("52000"),
		Data:         []byte{0xa9, 0x05, 0x9c, 0xbb},
		FeesStrategy: "fast",
		Fees: model.DynamicFees{
			MaxFeePerGas:         dec("30000000000"),
			MaxPriorityFeePerGas: dec("1500000000"),
		},
	}

	got := roundTrip(t, tx)

	assert.Equal(t, tx.Family, got.Family)
	assert.Equal(t, tx.Recipient, got.Recipient)
	assert.Equal(t, tx.Nonce, got.Nonce)
	assert.Equal(t, tx.ChainID, got.ChainID)
	assert.Equal(t, tx.Data, got.Data)
	assert.True(t, got.Amount.Equal(tx.Amount))
	assert.True(t, got.GasLimit.Equal(tx.GasLimit))

	feeScheme, ok := got.Fees.(model.DynamicFees)
	require.True(t, ok)
	assert.True(t, feeScheme.MaxFeePerGas.Equal(dec("30000000000")))
	assert.True(t, feeScheme.MaxPriorityFeePerGas.Equal(dec("1500000000")))
}

func TestRoundTripLegacyZeroGasPrice(t *testing.T) {
	// "gasPrice present with value 0" and "gasPrice absent" are different
	// states; a zero must survive the trip, not vanish to omitempty.
	tx := model.Transaction{
		Family:   "evm",
		Mode:     "send",
		Amount:   dec("0"),
		GasLimit: dec("21000"),
		Fees:     model.LegacyFees{GasPrice: dec("0")},
	}

	raw := ToRaw(tx)
	require.NotNil(t, raw.GasPrice)
	assert.Equal(t, "0", *raw.GasPrice)
	assert.Nil(t, raw.MaxFeePerGas)
	assert.Nil(t, raw.MaxPriorityFeePerGas)
	assert.Equal(t, model.LegacyTxType, raw.Type)

	got := roundTrip(t, tx)
	feeScheme, ok := got.Fees.(model.LegacyFees)
	require.True(t, ok)
	assert.True(t, feeScheme.GasPrice.IsZero())
}

func TestToRawOmitsEmptyData(t *testing.T) {
	tx := model.Transaction{
		Family:   "evm",
		Amount:   dec("1"),
		GasLimit: dec("21000"),
		Fees:     model.LegacyFees{GasPrice: dec("10")},
	}

	bytes, err := json.Marshal(ToRaw(tx))
	require.NoError(t, err)

	assert.NotContains(t, string(bytes), `"data"`)
	assert.NotContains(t, string(bytes), `"maxFeePerGas"`)

	got := roundTrip(t, tx)
	assert.Nil(t, got.Data)
}

func TestFromRawRejectsInconsistentFees(t *testing.T) {
	base := model.TransactionRaw{
		Family:   "evm",
		Mode:     "send",
		Amount:   "0",
		GasLimit: "21000",
	}

	cases := []struct {
		name   string
		mutate func(raw *model.TransactionRaw)
	}{
		{
			name: "dynamic tag without fee pair",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = model.DynamicFeeTxType
			},
		},
		{
			name: "dynamic tag missing priority fee",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = model.DynamicFeeTxType
				raw.MaxFeePerGas = strPtr("100")
			},
		},
		{
			name: "dynamic tag carrying gasPrice",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = model.DynamicFeeTxType
				raw.MaxFeePerGas = strPtr("100")
				raw.MaxPriorityFeePerGas = strPtr("2")
				raw.GasPrice = strPtr("90")
			},
		},
		{
			name: "legacy tag without gasPrice",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = model.LegacyTxType
			},
		},
		{
			name: "legacy tag carrying dynamic fields",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = model.LegacyTxType
				raw.GasPrice = strPtr("50")
				raw.MaxFeePerGas = strPtr("100")
			},
		},
		{
			name: "unknown type tag",
			mutate: func(raw *model.TransactionRaw) {
				raw.Type = 1
				raw.GasPrice = strPtr("50")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := base
			tc.mutate(&raw)

			_, err := FromRaw(raw)
			assert.ErrorIs(t, err, errno.ErrInvalidTransaction)
		})
	}
}

func TestFromRawRejectsMalformedNumbers(t *testing.T) {
	raw := model.TransactionRaw{
		Family:   "evm",
		Amount:   "not-a-number",
		GasLimit: "21000",
		Type:     model.LegacyTxType,
		GasPrice: strPtr("50"),
	}

	_, err := FromRaw(raw)
	assert.Error(t, err)
}

func TestToNativeDynamic(t *testing.T) {
	tx := model.Transaction{
		Family:    "evm",
		Amount:    dec("1000000000000000000"),
		Recipient: "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42",
		Nonce:     3,
		ChainID:   137,
		GasLimit:  dec("21000"),
		Fees: model.DynamicFees{
			MaxFeePerGas:         dec("30000000000"),
			MaxPriorityFeePerGas: dec("1500000000"),
		},
	}

	native, err := ToNative(tx)
	require.NoError(t, err)

	assert.Equal(t, uint8(types.DynamicFeeTxType), native.Type())
	assert.Equal(t, uint64(3), native.Nonce())
	assert.Equal(t, uint64(21000), native.Gas())
	assert.Equal(t, int64(137), native.ChainId().Int64())
	assert.Equal(t, "30000000000", native.GasFeeCap().String())
	assert.Equal(t, "1500000000", native.GasTipCap().String())
	require.NotNil(t, native.To())
	assert.Equal(t, tx.Recipient, native.To().Hex())
}

func TestToNativeLegacy(t *testing.T) {
	tx := model.Transaction{
		Family:    "evm",
		Amount:    dec("5"),
		Recipient: "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42",
		Nonce:     12,
		GasLimit:  dec("21000"),
		Fees:      model.LegacyFees{GasPrice: dec("20000000000")},
	}

	native, err := ToNative(tx)
	require.NoError(t, err)

	assert.Equal(t, uint8(types.LegacyTxType), native.Type())
	assert.Equal(t, "20000000000", native.GasPrice().String())
	assert.Equal(t, uint64(12), native.Nonce())
}

func TestToNativeMissingFees(t *testing.T) {
	// A transaction without a fee scheme reports legacy type but cannot be
	// encoded.
	tx := model.Transaction{Family: "evm", Amount: dec("1"), GasLimit: dec("21000")}

	_, err := ToNative(tx)
	assert.ErrorIs(t, err, errno.ErrInvalidTransaction)
}
