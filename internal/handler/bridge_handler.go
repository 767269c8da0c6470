package handler

import (
	"evm-bridge/internal/bridge"
	"evm-bridge/internal/handler/response"
	"evm-bridge/internal/model"
	"evm-bridge/internal/store"
	"evm-bridge/pkg/address"
	"evm-bridge/pkg/config"
	"evm-bridge/pkg/errno"

	"github.com/gin-gonic/gin"
)

// BridgeHandler exposes one AccountBridge per configured currency over HTTP.
type BridgeHandler struct {
	bridges map[string]bridge.AccountBridge // keyed by currency id
	store   *store.Store                    // optional; nil disables draft persistence
}

func NewBridgeHandler(bridges map[string]bridge.AccountBridge, st *store.Store) *BridgeHandler {
	return &BridgeHandler{bridges: bridges, store: st}
}

type accountRequest struct {
	Address         string `json:"address" binding:"required"`
	OperationsCount int    `json:"operations_count"`
}

type prepareRequest struct {
	Account     accountRequest       `json:"account" binding:"required"`
	Transaction model.TransactionRaw `json:"transaction" binding:"required"`
}

type broadcastRequest struct {
	SignedHex string `json:"signed_hex" binding:"required"`
}

func (h *BridgeHandler) resolve(c *gin.Context) (model.Currency, bridge.AccountBridge, bool) {
	id := c.Param("currency")
	currency, ok := config.CurrencyByID(id)
	if !ok {
		response.Error(c, errno.ErrCurrencyNotFound)
		return model.Currency{}, nil, false
	}
	b, ok := h.bridges[id]
	if !ok {
		response.Error(c, errno.ErrNoRPCEndpoint)
		return model.Currency{}, nil, false
	}
	return currency, b, true
}

func accountFromRequest(currency model.Currency, req accountRequest) model.Account {
	// account ids are keyed by the EIP-55 form so casing differences in
	// client input collapse to one account
	addr := address.Checksum(req.Address)
	return model.Account{
		ID:              currency.ID + ":" + addr,
		FreshAddress:    addr,
		OperationsCount: req.OperationsCount,
		Currency:        currency,
	}
}

// CreateTransaction godoc
// @Summary Create a default draft transaction for an account
// @Param currency path string true "currency id"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/transactions [post]
func (h *BridgeHandler) CreateTransaction(c *gin.Context) {
	currency, b, ok := h.resolve(c)
	if !ok {
		return
	}

	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	account := accountFromRequest(currency, req)
	raw := bridge.ToRaw(b.CreateTransaction(account))

	result := gin.H{"transaction": raw}
	if h.store != nil {
		draftID, err := h.store.SaveDraft(c.Request.Context(), account.ID, raw)
		if err != nil {
			response.Error(c, errno.ErrDatabase)
			return
		}
		result["draft_id"] = draftID
	}

	response.Success(c, result)
}

// PrepareTransaction godoc
// @Summary Fill gas limit and fee fields of a draft from the node
// @Param currency path string true "currency id"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/transactions/prepare [post]
func (h *BridgeHandler) PrepareTransaction(c *gin.Context) {
	currency, b, ok := h.resolve(c)
	if !ok {
		return
	}

	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	tx, err := bridge.FromRaw(req.Transaction)
	if err != nil {
		response.Error(c, errno.ErrInvalidTransaction)
		return
	}

	account := accountFromRequest(currency, req.Account)
	prepared, err := b.PrepareTransaction(c.Request.Context(), account, tx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"transaction": bridge.ToRaw(prepared)})
}

// TransactionStatus godoc
// @Summary Validate a draft against the account's synced state
// @Param currency path string true "currency id"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/transactions/status [post]
func (h *BridgeHandler) TransactionStatus(c *gin.Context) {
	currency, b, ok := h.resolve(c)
	if !ok {
		return
	}

	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	tx, err := bridge.FromRaw(req.Transaction)
	if err != nil {
		response.Error(c, errno.ErrInvalidTransaction)
		return
	}

	account := accountFromRequest(currency, req.Account)
	account, _, err = b.Sync(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := b.GetTransactionStatus(c.Request.Context(), account, tx)
	if err != nil {
		response.Error(c, err)
		return
	}

	errs := map[string]string{}
	for field, ferr := range status.Errors {
		errs[field] = ferr.Error()
	}
	warns := map[string]string{}
	for field, werr := range status.Warnings {
		warns[field] = werr.Error()
	}

	response.Success(c, gin.H{
		"errors":         errs,
		"warnings":       warns,
		"estimated_fees": status.EstimatedFees.String(),
		"amount":         status.Amount.String(),
		"total_spent":    status.TotalSpent.String(),
	})
}

// Broadcast godoc
// @Summary Submit a signed transaction
// @Param currency path string true "currency id"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/transactions/broadcast [post]
func (h *BridgeHandler) Broadcast(c *gin.Context) {
	_, b, ok := h.resolve(c)
	if !ok {
		return
	}

	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	hash, err := b.Broadcast(c.Request.Context(), req.SignedHex)
	if err != nil {
		// broadcast failures must reach the client as explicit errors
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"hash": hash})
}

// Operations godoc
// @Summary Sync an account and return its operations
// @Param currency path string true "currency id"
// @Param address path string true "account address"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/accounts/{address}/operations [get]
func (h *BridgeHandler) Operations(c *gin.Context) {
	currency, b, ok := h.resolve(c)
	if !ok {
		return
	}

	if !address.Valid(c.Param("address")) {
		response.Error(c, errno.ErrInvalidRecipient)
		return
	}

	account := accountFromRequest(currency, accountRequest{Address: c.Param("address")})
	account, ops, err := b.Sync(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveOperations(c.Request.Context(), ops); err != nil {
			response.Error(c, errno.ErrDatabase)
			return
		}
	}

	response.Success(c, gin.H{
		"account": gin.H{
			"id":               account.ID,
			"balance":          account.Balance.String(),
			"block_height":     account.BlockHeight,
			"operations_count": account.OperationsCount,
		},
		"operations": ops,
	})
}

// ScanAccount godoc
// @Summary Discover the account behind an address
// @Param currency path string true "currency id"
// @Param address path string true "account address"
// @Success 200 {object} response.Response
// @Router /api/v1/{currency}/accounts/{address} [get]
func (h *BridgeHandler) ScanAccount(c *gin.Context) {
	_, b, ok := h.resolve(c)
	if !ok {
		return
	}

	if !address.Valid(c.Param("address")) {
		response.Error(c, errno.ErrInvalidRecipient)
		return
	}

	account, err := b.ScanAccounts(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, errno.ErrAccountNotFound)
		return
	}

	response.Success(c, gin.H{
		"id":               account.ID,
		"address":          account.FreshAddress,
		"balance":          account.Balance.String(),
		"block_height":     account.BlockHeight,
		"operations_count": account.OperationsCount,
	})
}
