package bridge

import (
	"context"
	"encoding/json"

	"evm-bridge/internal/fees"
	"evm-bridge/internal/history"
	"evm-bridge/internal/model"
	"evm-bridge/internal/mq"
	"evm-bridge/internal/rpc"
	"evm-bridge/pkg/address"
	"evm-bridge/pkg/logger"
	"evm-bridge/pkg/monitor"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Signer turns a native-encoded transaction into a signed, broadcast-ready
// hex payload. Signing internals (hardware transport, key custody) live
// outside the bridge.
type Signer interface {
	Sign(ctx context.Context, tx *types.Transaction) (string, error)
}

// AccountBridge is the uniform contract every chain-family bridge in the
// wallet exposes. The EVM implementation below is the canonical shape other
// families replicate with their own fee and serialization rules.
type AccountBridge interface {
	CreateTransaction(account model.Account) model.Transaction
	UpdateTransaction(tx model.Transaction, patch TransactionPatch) model.Transaction
	PrepareTransaction(ctx context.Context, account model.Account, tx model.Transaction) (model.Transaction, error)
	GetTransactionStatus(ctx context.Context, account model.Account, tx model.Transaction) (model.TransactionStatus, error)
	Sync(ctx context.Context, account model.Account) (model.Account, []model.Operation, error)
	ScanAccounts(ctx context.Context, address string) (*model.Account, error)
	SignOperation(ctx context.Context, account model.Account, tx model.Transaction) (string, error)
	Broadcast(ctx context.Context, signedHex string) (string, error)
}

// Bridge composes the factory, preparer, serializer, fee engine and history
// service for one currency. It is stateless across calls; one instance
// serves concurrent requests.
type Bridge struct {
	currency model.Currency
	node     rpc.NodeClient
	fees     *fees.Estimator
	history  *history.Service
	signer   Signer
	producer mq.Producer // optional; nil disables event publishing
}

var _ AccountBridge = (*Bridge)(nil)

func New(
	currency model.Currency,
	node rpc.NodeClient,
	estimator *fees.Estimator,
	historyService *history.Service,
	signer Signer,
	producer mq.Producer,
) *Bridge {
	return &Bridge{
		currency: currency,
		node:     node,
		fees:     estimator,
		history:  historyService,
		signer:   signer,
		producer: producer,
	}
}

func (b *Bridge) CreateTransaction(account model.Account) model.Transaction {
	return CreateTransaction(account)
}

func (b *Bridge) UpdateTransaction(tx model.Transaction, patch TransactionPatch) model.Transaction {
	return UpdateTransaction(tx, patch)
}

// Sync refreshes the account's on-chain state and pulls its history through
// the cached query. Both sides are best-effort: an unavailable account state
// keeps the previous values, a failed history fetch yields no operations.
func (b *Bridge) Sync(ctx context.Context, account model.Account) (model.Account, []model.Operation, error) {
	next := account

	if state := b.fees.GetAccount(ctx, account.FreshAddress); state != nil {
		next.Balance = state.Balance
		next.BlockHeight = state.BlockHeight
	}

	ops, err := b.history.ForAccount(ctx, account, account.BlockHeight)
	if err != nil {
		return next, nil, err
	}
	next.OperationsCount = len(ops)

	b.publishOperations(ctx, next, ops)

	return next, ops, nil
}

// ScanAccounts discovers the account behind an address from on-chain state
// and history. A nil result means the node could not answer.
func (b *Bridge) ScanAccounts(ctx context.Context, addr string) (*model.Account, error) {
	state := b.fees.GetAccount(ctx, addr)
	if state == nil {
		return nil, nil
	}

	canonical := address.Checksum(addr)
	account := model.Account{
		ID:           b.currency.ID + ":" + canonical,
		FreshAddress: canonical,
		Currency:     b.currency,
		Balance:      state.Balance,
		BlockHeight:  state.BlockHeight,
	}

	ops, err := b.history.ForAccount(ctx, account, 0)
	if err != nil {
		return nil, err
	}
	account.OperationsCount = len(ops)

	return &account, nil
}

// SignOperation replaces the draft's optimistic nonce with the authoritative
// on-chain one, encodes the transaction natively and hands it to the signer.
func (b *Bridge) SignOperation(ctx context.Context, account model.Account, tx model.Transaction) (string, error) {
	nonce, err := b.node.GetNonce(ctx, account.FreshAddress)
	if err != nil {
		return "", err
	}

	next := tx
	next.Nonce = nonce

	native, err := ToNative(next)
	if err != nil {
		return "", err
	}

	return b.signer.Sign(ctx, native)
}

// Broadcast submits the signed payload. Failures propagate unmodified: this
// is the one call that must never be silently defaulted.
func (b *Bridge) Broadcast(ctx context.Context, signedHex string) (string, error) {
	hash, err := b.node.Broadcast(ctx, signedHex)
	if monitor.Business != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		monitor.Business.BroadcastTotal.WithLabelValues(b.currency.ID, status).Inc()
	}
	if err != nil {
		return "", err
	}

	b.publishBroadcast(ctx, hash)

	return hash, nil
}

func (b *Bridge) publishBroadcast(ctx context.Context, hash string) {
	if b.producer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"currency": b.currency.ID,
		"hash":     hash,
	})
	if err := b.producer.Publish(ctx, mq.TopicBroadcast, b.currency.ID, payload); err != nil {
		logger.Warn("failed to publish broadcast event",
			zap.String("currency", b.currency.ID),
			zap.String("hash", hash),
			zap.Error(err),
		)
	}
}

func (b *Bridge) publishOperations(ctx context.Context, account model.Account, ops []model.Operation) {
	if b.producer == nil || len(ops) == 0 {
		return
	}

	payload, err := json.Marshal(ops)
	if err != nil {
		return
	}
	if err := b.producer.Publish(ctx, mq.TopicOperations, account.ID, payload); err != nil {
		logger.Warn("failed to publish operations event",
			zap.String("account", account.ID),
			zap.Error(err),
		)
	}
}
