package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"evm-bridge/internal/model"
)

// Record is one explorer transaction row, in the etherscan txlist shape.
// All numeric fields arrive as decimal strings.
type Record struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	GasUsed     string `json:"gasUsed"`
	GasPrice    string `json:"gasPrice"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
}

type listResponse struct {
	Result []Record `json:"result"`
}

// Provider fetches transaction lists from an explorer REST API.
type Provider interface {
	ListTransactions(ctx context.Context, address string, page int, fromBlock uint64) ([]Record, error)
}

// HTTPProvider talks to the currency's configured explorer endpoint.
type HTTPProvider struct {
	base   string
	client *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

func NewHTTPProvider(currency model.Currency) *HTTPProvider {
	return &HTTPProvider{
		base:   currency.ScanAPI,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *HTTPProvider) ListTransactions(ctx context.Context, address string, page int, fromBlock uint64) ([]Record, error) {
	query := url.Values{}
	query.Set("module", "account")
	query.Set("action", "txlist")
	query.Set("address", address)
	query.Set("tag", "latest")
	query.Set("page", strconv.Itoa(page))
	if fromBlock > 0 {
		query.Set("startBlock", strconv.FormatUint(fromBlock, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/api?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build history request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request failed: status %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	return body.Result, nil
}
