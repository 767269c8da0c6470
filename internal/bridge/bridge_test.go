package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evm-bridge/internal/fees"
	"evm-bridge/internal/history"
	"evm-bridge/internal/model"
	"evm-bridge/internal/rpc/rpcmock"
	"evm-bridge/pkg/cache"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	records []history.Record
	err     error
}

func (p *fakeProvider) ListTransactions(ctx context.Context, address string, page int, fromBlock uint64) ([]history.Record, error) {
	return p.records, p.err
}

type fakeSigner struct {
	signedNonce uint64
	signedType  uint8
}

func (s *fakeSigner) Sign(ctx context.Context, tx *types.Transaction) (string, error) {
	s.signedNonce = tx.Nonce()
	s.signedType = tx.Type()
	return "0xdeadbeef", nil
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []struct {
		topic string
		key   string
	}
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, struct {
		topic string
		key   string
	}{topic, key})
	return nil
}

func newFullBridge(node *rpcmock.Node, provider history.Provider, signer Signer, producer *fakeProducer) *Bridge {
	currency := testAccount(0).Currency
	queryCache := cache.NewQueryCache(cache.NewMemoryCache(time.Minute, time.Minute))
	svc := history.NewService(provider, queryCache, 50*time.Millisecond)
	// a typed-nil *fakeProducer would not compare equal to nil through the
	// interface, so pass an untyped nil explicitly
	if producer == nil {
		return New(currency, node, fees.NewEstimator(currency, node), svc, signer, nil)
	}
	return New(currency, node, fees.NewEstimator(currency, node), svc, signer, producer)
}

func healthyNode() *rpcmock.Node {
	return &rpcmock.Node{
		GetBalanceFn: func(ctx context.Context, address string) (decimal.Decimal, error) {
			return dec("5000000000000000000"), nil
		},
		GetNonceFn: func(ctx context.Context, address string) (uint64, error) {
			return 9, nil
		},
		GetBlockHeightFn: func(ctx context.Context) (uint64, error) {
			return 19000000, nil
		},
	}
}

func TestSyncRefreshesAccount(t *testing.T) {
	provider := &fakeProvider{records: []history.Record{
		{
			Hash:        "0xaaa",
			From:        "0x59569e96d0E3D9728dc07bf5C1443809e6F237Fd",
			To:          "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42",
			Value:       "1000",
			GasUsed:     "21000",
			GasPrice:    "10",
			BlockNumber: "18999990",
			TimeStamp:   "1700000000",
		},
	}}
	producer := &fakeProducer{}
	b := newFullBridge(healthyNode(), provider, nil, producer)

	account, ops, err := b.Sync(context.Background(), testAccount(0))
	require.NoError(t, err)

	assert.True(t, account.Balance.Equal(dec("5000000000000000000")))
	assert.Equal(t, uint64(19000000), account.BlockHeight)
	require.Len(t, ops, 1)
	assert.Equal(t, 1, account.OperationsCount)
	assert.Equal(t, model.OperationOut, ops[0].Type)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.messages, 1)
	assert.Equal(t, "bridge_events_operations", producer.messages[0].topic)
}

func TestSyncKeepsStateWhenNodeDown(t *testing.T) {
	node := &rpcmock.Node{} // every call fails
	provider := &fakeProvider{err: errors.New("explorer down")}
	b := newFullBridge(node, provider, nil, nil)

	stale := testAccount(3)
	stale.Balance = dec("42")
	stale.BlockHeight = 100

	account, ops, err := b.Sync(context.Background(), stale)
	require.NoError(t, err)

	// unavailable node keeps the previous snapshot
	assert.True(t, account.Balance.Equal(dec("42")))
	assert.Equal(t, uint64(100), account.BlockHeight)
	assert.Empty(t, ops)
}

func TestScanAccounts(t *testing.T) {
	b := newFullBridge(healthyNode(), &fakeProvider{}, nil, nil)

	account, err := b.ScanAccounts(context.Background(), "0x59569e96d0E3D9728dc07bf5C1443809e6F237Fd")
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.Equal(t, "ethereum:0x59569e96d0E3D9728dc07bf5C1443809e6F237Fd", account.ID)
	assert.True(t, account.Balance.Equal(dec("5000000000000000000")))
	assert.Equal(t, 0, account.OperationsCount)
}

func TestScanAccountsNodeUnavailable(t *testing.T) {
	b := newFullBridge(&rpcmock.Node{}, &fakeProvider{}, nil, nil)

	account, err := b.ScanAccounts(context.Background(), "0x59569e96d0E3D9728dc07bf5C1443809e6F237Fd")
	require.NoError(t, err)
	assert.Nil(t, account, "no account when state cannot be read")
}

func TestSignOperationUsesOnChainNonce(t *testing.T) {
	signer := &fakeSigner{}
	b := newFullBridge(healthyNode(), &fakeProvider{}, signer, nil)

	account := testAccount(2) // draft nonce would be 3
	tx := CreateTransaction(account)
	tx.Fees = model.DynamicFees{
		MaxFeePerGas:         dec("30000000000"),
		MaxPriorityFeePerGas: dec("1500000000"),
	}
	tx.Recipient = "0x51B2Ad5D1D5D8a5A9a38F1E6e8A6f1A4dD3b8E42"

	signed, err := b.SignOperation(context.Background(), account, tx)
	require.NoError(t, err)

	assert.Equal(t, "0xdeadbeef", signed)
	assert.Equal(t, uint64(9), signer.signedNonce, "on-chain nonce replaces the draft's")
	assert.Equal(t, uint8(types.DynamicFeeTxType), signer.signedType)
}

func TestSignOperationNonceQueryFails(t *testing.T) {
	node := healthyNode()
	node.GetNonceFn = func(ctx context.Context, address string) (uint64, error) {
		return 0, errors.New("timeout")
	}
	b := newFullBridge(node, &fakeProvider{}, &fakeSigner{}, nil)

	_, err := b.SignOperation(context.Background(), testAccount(0), validDraft())
	assert.Error(t, err, "signing must not fall back to a guessed nonce")
}

func TestBroadcast(t *testing.T) {
	node := healthyNode()
	node.BroadcastFn = func(ctx context.Context, signedHex string) (string, error) {
		return "0xhash", nil
	}
	producer := &fakeProducer{}
	b := newFullBridge(node, &fakeProvider{}, nil, producer)

	hash, err := b.Broadcast(context.Background(), "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, "0xhash", hash)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.messages, 1)
	assert.Equal(t, "bridge_events_broadcast", producer.messages[0].topic)
}

func TestBroadcastPropagatesNodeError(t *testing.T) {
	nodeErr := errors.New("nonce too low")
	node := healthyNode()
	node.BroadcastFn = func(ctx context.Context, signedHex string) (string, error) {
		return "", nodeErr
	}
	b := newFullBridge(node, &fakeProvider{}, nil, nil)

	_, err := b.Broadcast(context.Background(), "0xdeadbeef")
	assert.ErrorIs(t, err, nodeErr, "broadcast errors surface unmodified")
}
