// Package rpcmock provides a hand-written NodeClient fake for tests.
package rpcmock

import (
	"context"
	"errors"
	"sync/atomic"

	"evm-bridge/internal/model"
	"evm-bridge/internal/rpc"

	"github.com/shopspring/decimal"
)

// Node is a configurable NodeClient fake. Unset functions return a generic
// error so tests fail loudly on unexpected calls. Per-method counters are
// atomic so concurrent tests can assert call counts.
type Node struct {
	GetBalanceFn     func(ctx context.Context, address string) (decimal.Decimal, error)
	GetNonceFn       func(ctx context.Context, address string) (uint64, error)
	GetBlockHeightFn func(ctx context.Context) (uint64, error)
	GetTransactionFn func(ctx context.Context, hash string) (*rpc.TxInfo, error)
	GetBlockFn       func(ctx context.Context, height uint64) (*rpc.BlockInfo, error)
	EstimateGasFn    func(ctx context.Context, tx model.Transaction) (decimal.Decimal, error)
	GetFeeEstimateFn func(ctx context.Context) (model.FeeData, error)
	BroadcastFn      func(ctx context.Context, signedHex string) (string, error)

	GetBalanceCalls     atomic.Int64
	GetNonceCalls       atomic.Int64
	GetBlockHeightCalls atomic.Int64
	EstimateGasCalls    atomic.Int64
	GetFeeEstimateCalls atomic.Int64
	BroadcastCalls      atomic.Int64
}

var _ rpc.NodeClient = (*Node)(nil)

var errNotConfigured = errors.New("rpcmock: method not configured")

func (n *Node) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	n.GetBalanceCalls.Add(1)
	if n.GetBalanceFn == nil {
		return decimal.Zero, errNotConfigured
	}
	return n.GetBalanceFn(ctx, address)
}

func (n *Node) GetNonce(ctx context.Context, address string) (uint64, error) {
	n.GetNonceCalls.Add(1)
	if n.GetNonceFn == nil {
		return 0, errNotConfigured
	}
	return n.GetNonceFn(ctx, address)
}

func (n *Node) GetBlockHeight(ctx context.Context) (uint64, error) {
	n.GetBlockHeightCalls.Add(1)
	if n.GetBlockHeightFn == nil {
		return 0, errNotConfigured
	}
	return n.GetBlockHeightFn(ctx)
}

func (n *Node) GetTransaction(ctx context.Context, hash string) (*rpc.TxInfo, error) {
	if n.GetTransactionFn == nil {
		return nil, errNotConfigured
	}
	return n.GetTransactionFn(ctx, hash)
}

func (n *Node) GetBlock(ctx context.Context, height uint64) (*rpc.BlockInfo, error) {
	if n.GetBlockFn == nil {
		return nil, errNotConfigured
	}
	return n.GetBlockFn(ctx, height)
}

func (n *Node) EstimateGas(ctx context.Context, tx model.Transaction) (decimal.Decimal, error) {
	n.EstimateGasCalls.Add(1)
	if n.EstimateGasFn == nil {
		return decimal.Zero, errNotConfigured
	}
	return n.EstimateGasFn(ctx, tx)
}

func (n *Node) GetFeeEstimate(ctx context.Context) (model.FeeData, error) {
	n.GetFeeEstimateCalls.Add(1)
	if n.GetFeeEstimateFn == nil {
		return model.FeeData{}, errNotConfigured
	}
	return n.GetFeeEstimateFn(ctx)
}

func (n *Node) Broadcast(ctx context.Context, signedHex string) (string, error) {
	n.BroadcastCalls.Add(1)
	if n.BroadcastFn == nil {
		return "", errNotConfigured
	}
	return n.BroadcastFn(ctx, signedHex)
}
