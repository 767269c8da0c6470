package rpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"evm-bridge/internal/model"
	"evm-bridge/pkg/errno"
	"evm-bridge/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

// TxInfo is the subset of on-chain transaction state the bridge cares about.
type TxInfo struct {
	Hash        string
	Pending     bool
	BlockNumber uint64
	Success     bool
}

// BlockInfo describes a block header.
type BlockInfo struct {
	Height uint64
	Hash   string
	Time   time.Time
}

// NodeClient is the node contract the fee engine and the bridge depend on.
// The concrete Client wraps go-ethereum's ethclient; tests supply fakes.
// Calls are independent, one network round-trip each, no retries here.
type NodeClient interface {
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	GetNonce(ctx context.Context, address string) (uint64, error)
	GetBlockHeight(ctx context.Context) (uint64, error)
	GetTransaction(ctx context.Context, hash string) (*TxInfo, error)
	GetBlock(ctx context.Context, height uint64) (*BlockInfo, error)
	EstimateGas(ctx context.Context, tx model.Transaction) (decimal.Decimal, error)
	GetFeeEstimate(ctx context.Context) (model.FeeData, error)
	Broadcast(ctx context.Context, signedHex string) (string, error)
}

// Client is the per-currency node adapter. It holds no cross-call session
// state, so one instance can serve concurrent requests without locking.
type Client struct {
	currency model.Currency
	eth      *ethclient.Client
}

var _ NodeClient = (*Client)(nil)

// New dials the currency's node. It fails with ErrNoRPCEndpoint before any
// network activity when the currency has no endpoint configured.
func New(currency model.Currency) (*Client, error) {
	if !currency.HasRPC() {
		return nil, errno.ErrNoRPCEndpoint
	}

	eth, err := ethclient.Dial(currency.RPC)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	return &Client{currency: currency, eth: eth}, nil
}

func (c *Client) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	defer c.observe("eth_getBalance", time.Now())

	balance, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		c.count("eth_getBalance", err)
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	c.count("eth_getBalance", nil)

	return decimal.NewFromBigInt(balance, 0), nil
}

func (c *Client) GetNonce(ctx context.Context, address string) (uint64, error) {
	defer c.observe("eth_getTransactionCount", time.Now())

	nonce, err := c.eth.NonceAt(ctx, common.HexToAddress(address), nil)
	c.count("eth_getTransactionCount", err)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}

	return nonce, nil
}

func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	defer c.observe("eth_blockNumber", time.Now())

	height, err := c.eth.BlockNumber(ctx)
	c.count("eth_blockNumber", err)
	if err != nil {
		return 0, fmt.Errorf("failed to get block height: %w", err)
	}

	return height, nil
}

func (c *Client) GetTransaction(ctx context.Context, hash string) (*TxInfo, error) {
	defer c.observe("eth_getTransactionByHash", time.Now())

	_, pending, err := c.eth.TransactionByHash(ctx, common.HexToHash(hash))
	c.count("eth_getTransactionByHash", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	info := &TxInfo{Hash: hash, Pending: pending}
	if !pending {
		receipt, err := c.eth.TransactionReceipt(ctx, common.HexToHash(hash))
		if err == nil {
			info.BlockNumber = receipt.BlockNumber.Uint64()
			info.Success = receipt.Status == types.ReceiptStatusSuccessful
		}
	}

	return info, nil
}

func (c *Client) GetBlock(ctx context.Context, height uint64) (*BlockInfo, error) {
	defer c.observe("eth_getBlockByNumber", time.Now())

	header, err := c.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(height))
	c.count("eth_getBlockByNumber", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", height, err)
	}

	return &BlockInfo{
		Height: header.Number.Uint64(),
		Hash:   header.Hash().Hex(),
		Time:   time.Unix(int64(header.Time), 0),
	}, nil
}

func (c *Client) EstimateGas(ctx context.Context, tx model.Transaction) (decimal.Decimal, error) {
	defer c.observe("eth_estimateGas", time.Now())

	gas, err := c.eth.EstimateGas(ctx, callMsg(tx))
	c.count("eth_estimateGas", err)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return decimal.NewFromUint64(gas), nil
}

// GetFeeEstimate queries the fee market the way ethers' getFeeData does:
// eth_gasPrice always, and when the head block carries a base fee (EIP-1559
// chain), eth_maxPriorityFeePerGas with maxFee = 2*baseFee + tip. Fields the
// node does not support stay nil.
func (c *Client) GetFeeEstimate(ctx context.Context) (model.FeeData, error) {
	defer c.observe("eth_feeData", time.Now())

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	c.count("eth_gasPrice", err)
	if err != nil {
		return model.FeeData{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	fee := model.FeeData{}
	gp := decimal.NewFromBigInt(gasPrice, 0)
	fee.GasPrice = &gp

	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return model.FeeData{}, fmt.Errorf("failed to get head block: %w", err)
	}

	if head.BaseFee != nil {
		tip, err := c.eth.SuggestGasTipCap(ctx)
		c.count("eth_maxPriorityFeePerGas", err)
		if err != nil {
			return model.FeeData{}, fmt.Errorf("failed to get priority fee: %w", err)
		}

		maxPriority := decimal.NewFromBigInt(tip, 0)
		maxFee := decimal.NewFromBigInt(new(big.Int).Add(
			new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
			tip,
		), 0)

		fee.MaxPriorityFeePerGas = &maxPriority
		fee.MaxFeePerGas = &maxFee
	}

	return fee, nil
}

// Broadcast submits a signed raw transaction and returns its hash. Errors
// here are never defaulted away: a swallowed broadcast failure would falsely
// imply funds moved.
func (c *Client) Broadcast(ctx context.Context, signedHex string) (string, error) {
	defer c.observe("eth_sendRawTransaction", time.Now())

	raw, err := hex.DecodeString(strings.TrimPrefix(signedHex, "0x"))
	if err != nil {
		return "", fmt.Errorf("signed payload is not valid hex: %w", err)
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("signed payload is not a valid transaction: %w", err)
	}

	err = c.eth.SendTransaction(ctx, tx)
	c.count("eth_sendRawTransaction", err)
	if err != nil {
		return "", fmt.Errorf("broadcast failed: %w", err)
	}

	return tx.Hash().Hex(), nil
}

// callMsg maps a draft to the estimation call. An empty recipient yields a
// nil To, which nodes treat as contract creation; the resulting estimation
// error is absorbed upstream by the 21000 fallback.
func callMsg(tx model.Transaction) ethereum.CallMsg {
	msg := ethereum.CallMsg{
		Value: tx.Amount.BigInt(),
		Data:  tx.Data,
	}
	if tx.Recipient != "" {
		to := common.HexToAddress(tx.Recipient)
		msg.To = &to
	}
	return msg
}

func (c *Client) observe(method string, start time.Time) {
	if monitor.Business == nil {
		return
	}
	monitor.Business.RPCCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (c *Client) count(method string, err error) {
	if monitor.Business == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	monitor.Business.RPCCallsTotal.WithLabelValues(method, status).Inc()
}
