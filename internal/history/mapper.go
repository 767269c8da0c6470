package history

import (
	"strconv"
	"strings"
	"time"

	"evm-bridge/internal/model"

	"github.com/shopspring/decimal"
)

// MapRecord converts one explorer record into an Operation. The second
// return is false for records that cannot be mapped (missing hash,
// unparsable numbers); such records are dropped from the batch without
// failing the other entries.
func MapRecord(accountID, address string, rec Record) (model.Operation, bool) {
	if rec.Hash == "" {
		return model.Operation{}, false
	}

	value, err := decimal.NewFromString(rec.Value)
	if err != nil {
		return model.Operation{}, false
	}

	gasUsed, err := decimal.NewFromString(rec.GasUsed)
	if err != nil {
		return model.Operation{}, false
	}

	gasPrice, err := decimal.NewFromString(rec.GasPrice)
	if err != nil {
		return model.Operation{}, false
	}

	blockHeight, err := strconv.ParseUint(rec.BlockNumber, 10, 64)
	if err != nil {
		return model.Operation{}, false
	}

	timestamp, err := strconv.ParseInt(rec.TimeStamp, 10, 64)
	if err != nil {
		return model.Operation{}, false
	}

	opType := model.OperationIn
	if strings.EqualFold(rec.From, address) {
		opType = model.OperationOut
	}

	return model.Operation{
		AccountID:   accountID,
		Hash:        rec.Hash,
		Type:        opType,
		Value:       value,
		Fee:         gasUsed.Mul(gasPrice),
		From:        rec.From,
		To:          rec.To,
		BlockHeight: blockHeight,
		Date:        time.Unix(timestamp, 0).UTC(),
	}, true
}
