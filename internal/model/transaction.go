package model

import "github.com/shopspring/decimal"

// Transaction type discriminators, matching the on-chain envelope types.
const (
	LegacyTxType     uint8 = 0
	DynamicFeeTxType uint8 = 2
)

// FeeScheme is the fee model attached to a Transaction. It is a closed sum:
// LegacyFees (type 0) or DynamicFees (type 2). A transaction holds exactly
// one scheme; switching models means attaching the other variant, so a value
// can never carry both gas price and the EIP-1559 pair at once.
type FeeScheme interface {
	TxType() uint8
	feeScheme()
}

// LegacyFees is the pre-EIP-1559 single gas price model.
type LegacyFees struct {
	GasPrice decimal.Decimal
}

func (LegacyFees) TxType() uint8 { return LegacyTxType }
func (LegacyFees) feeScheme()    {}

// DynamicFees is the EIP-1559 dual fee model.
type DynamicFees struct {
	MaxFeePerGas         decimal.Decimal
	MaxPriorityFeePerGas decimal.Decimal
}

func (DynamicFees) TxType() uint8 { return DynamicFeeTxType }
func (DynamicFees) feeScheme()    {}

// Transaction is an in-memory EVM transaction. Values are immutable once
// built: create, prepare and patch all return a fresh value instead of
// mutating in place.
type Transaction struct {
	Family       string
	Mode         string
	Amount       decimal.Decimal
	Recipient    string
	UseAllAmount bool
	Nonce        uint64
	ChainID      uint64
	GasLimit     decimal.Decimal
	Data         []byte // optional contract calldata
	FeesStrategy string // slow / medium / fast hint
	Fees         FeeScheme
}

// Type returns the envelope type of the populated fee scheme.
func (t Transaction) Type() uint8 {
	if t.Fees == nil {
		return LegacyTxType
	}
	return t.Fees.TxType()
}

// TransactionRaw is the storage/wire twin of Transaction. Every decimal is a
// canonical fixed-point string and the data payload is unprefixed lowercase
// hex. Optional fee fields are pointers so that an explicit zero survives a
// round-trip instead of collapsing into "absent".
type TransactionRaw struct {
	Family       string `json:"family"`
	Mode         string `json:"mode"`
	Amount       string `json:"amount"`
	Recipient    string `json:"recipient"`
	UseAllAmount bool   `json:"useAllAmount,omitempty"`
	Nonce        uint64 `json:"nonce"`
	ChainID      uint64 `json:"chainId"`
	GasLimit     string `json:"gasLimit"`
	Data         string `json:"data,omitempty"`
	FeesStrategy string `json:"feesStrategy,omitempty"`
	Type         uint8  `json:"type"`

	GasPrice             *string `json:"gasPrice,omitempty"`
	MaxFeePerGas         *string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *string `json:"maxPriorityFeePerGas,omitempty"`
}

// FeeData mirrors the node's answer to a fee-market query. Each field is nil
// when the provider does not report it; all three are nil when the query
// failed entirely.
type FeeData struct {
	MaxFeePerGas         *decimal.Decimal
	MaxPriorityFeePerGas *decimal.Decimal
	GasPrice             *decimal.Decimal
}

// AccountState is the composite result of the parallel balance/nonce/height
// query. A nil *AccountState means "account state temporarily unavailable".
type AccountState struct {
	Balance     decimal.Decimal
	Nonce       uint64
	BlockHeight uint64
}
