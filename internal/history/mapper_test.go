package history

import (
	"testing"
	"time"

	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountAddress = "0x59569e96d0E3D9728dc07bf5C1443809e6F237Fd"

func validRecord() Record {
	return Record{
		Hash:        "0xaaa",
		From:        accountAddress,
		To:          "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42",
		Value:       "1000000000000000000",
		GasUsed:     "21000",
		GasPrice:    "20000000000",
		BlockNumber: "18999990",
		TimeStamp:   "1700000000",
	}
}

func TestMapRecord(t *testing.T) {
	op, ok := MapRecord("ethereum:0xabc", accountAddress, validRecord())
	require.True(t, ok)

	assert.Equal(t, "ethereum:0xabc", op.AccountID)
	assert.Equal(t, "0xaaa", op.Hash)
	assert.Equal(t, model.OperationOut, op.Type)
	assert.True(t, op.Value.Equal(decimal.RequireFromString("1000000000000000000")))
	assert.True(t, op.Fee.Equal(decimal.RequireFromString("420000000000000")), "fee is gasUsed*gasPrice")
	assert.Equal(t, uint64(18999990), op.BlockHeight)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), op.Date)
}

func TestMapRecordDirection(t *testing.T) {
	rec := validRecord()
	rec.From = "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42"
	rec.To = accountAddress

	op, ok := MapRecord("ethereum:0xabc", accountAddress, rec)
	require.True(t, ok)
	assert.Equal(t, model.OperationIn, op.Type)
}

func TestMapRecordCaseInsensitiveAddressMatch(t *testing.T) {
	rec := validRecord()
	rec.From = "0X59569E96D0E3D9728DC07BF5C1443809E6F237FD"

	op, ok := MapRecord("ethereum:0xabc", accountAddress, rec)
	require.True(t, ok)
	assert.Equal(t, model.OperationOut, op.Type)
}

func TestMapRecordRejectsBadRecords(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(rec *Record)
	}{
		{"missing hash", func(rec *Record) { rec.Hash = "" }},
		{"bad value", func(rec *Record) { rec.Value = "xx" }},
		{"bad gasUsed", func(rec *Record) { rec.GasUsed = "" }},
		{"bad gasPrice", func(rec *Record) { rec.GasPrice = "1e" }},
		{"bad blockNumber", func(rec *Record) { rec.BlockNumber = "abc" }},
		{"bad timestamp", func(rec *Record) { rec.TimeStamp = "soon" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			_, ok := MapRecord("ethereum:0xabc", accountAddress, rec)
			assert.False(t, ok)
		})
	}
}
