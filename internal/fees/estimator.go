package fees

import (
	"context"
	"sync"

	"evm-bridge/internal/model"
	"evm-bridge/internal/rpc"
	"evm-bridge/pkg/logger"
	"evm-bridge/pkg/monitor"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultGasLimit is the exact gas cost of a plain value transfer. It is the
// fallback when the node cannot estimate; for a transaction carrying
// calldata this fallback is almost certainly too low, so callers that know
// tx.Data is non-empty must not trust it blindly.
var DefaultGasLimit = decimal.NewFromInt(21000)

// Estimator answers account-state and fee questions for one currency, with
// per-call degradation: individual numeric queries fall back to documented
// defaults, while the composite account query fails closed (nil) because
// account existence must be certain even when single fields tolerate
// defaults.
type Estimator struct {
	currency model.Currency
	node     rpc.NodeClient
}

func NewEstimator(currency model.Currency, node rpc.NodeClient) *Estimator {
	return &Estimator{currency: currency, node: node}
}

// GetAccount fans out balance, nonce and block height concurrently and joins
// all three; latency is bounded by the slowest call and a failure does not
// cancel the others. Any failure yields nil: "account state temporarily
// unavailable", never an error.
func (e *Estimator) GetAccount(ctx context.Context, address string) *model.AccountState {
	var (
		wg      sync.WaitGroup
		balance decimal.Decimal
		nonce   uint64
		height  uint64

		balanceErr, nonceErr, heightErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		balance, balanceErr = e.node.GetBalance(ctx, address)
	}()
	go func() {
		defer wg.Done()
		nonce, nonceErr = e.node.GetNonce(ctx, address)
	}()
	go func() {
		defer wg.Done()
		height, heightErr = e.node.GetBlockHeight(ctx)
	}()
	wg.Wait()

	for _, err := range []error{balanceErr, nonceErr, heightErr} {
		if err != nil {
			logger.Warn("account state unavailable",
				zap.String("currency", e.currency.ID),
				zap.String("address", address),
				zap.Error(err),
			)
			return nil
		}
	}

	return &model.AccountState{
		Balance:     balance,
		Nonce:       nonce,
		BlockHeight: height,
	}
}

// GetBalance returns the address balance, zero when the node query fails.
func (e *Estimator) GetBalance(ctx context.Context, address string) decimal.Decimal {
	balance, err := e.node.GetBalance(ctx, address)
	if err != nil {
		logger.Debug("balance query failed, defaulting to 0",
			zap.String("currency", e.currency.ID), zap.Error(err))
		return decimal.Zero
	}
	return balance
}

// GetNonce returns the on-chain nonce, zero when the node query fails.
func (e *Estimator) GetNonce(ctx context.Context, address string) uint64 {
	nonce, err := e.node.GetNonce(ctx, address)
	if err != nil {
		logger.Debug("nonce query failed, defaulting to 0",
			zap.String("currency", e.currency.ID), zap.Error(err))
		return 0
	}
	return nonce
}

// GetGasEstimation returns the node's gas estimate for the draft, or
// DefaultGasLimit on any failure.
func (e *Estimator) GetGasEstimation(ctx context.Context, tx model.Transaction) decimal.Decimal {
	estimate, err := e.node.EstimateGas(ctx, tx)
	if err != nil {
		logger.Debug("gas estimation failed, using default transfer cost",
			zap.String("currency", e.currency.ID),
			zap.Error(err),
		)
		if monitor.Business != nil {
			monitor.Business.GasFallbacksTotal.WithLabelValues(e.currency.ID).Inc()
		}
		return DefaultGasLimit
	}
	return estimate
}

// GetFeesEstimation returns the node's fee data with independently-nullable
// fields; all nil when the query fails. It never returns an error.
func (e *Estimator) GetFeesEstimation(ctx context.Context) model.FeeData {
	fee, err := e.node.GetFeeEstimate(ctx)
	if err != nil {
		logger.Debug("fee data query failed, returning empty fee data",
			zap.String("currency", e.currency.ID),
			zap.Error(err),
		)
		if monitor.Business != nil {
			monitor.Business.FeeDataUnavailable.WithLabelValues(e.currency.ID).Inc()
		}
		return model.FeeData{}
	}
	return fee
}
