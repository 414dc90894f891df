// Package explorer implements the BscScan-family HTTP API client used to
// fetch transfer records, transaction lists, and receipts.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"listingScope/internal/model"
)

const (
	// DefaultBaseURL is the public BscScan endpoint.
	DefaultBaseURL = "https://api.bscscan.com/api"
	// DefaultRequestDelay keeps the client under the explorer's 5 req/s cap.
	DefaultRequestDelay = 250 * time.Millisecond
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// recordPageSize is the explorer's free-tier cap per list request.
	recordPageSize = "10000"
)

// ClientConfig configures the explorer client.
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	RequestDelay time.Duration
	Timeout      time.Duration
}

// Client is a rate-limited explorer API client. All requests share one
// limiter, so the inter-request delay holds as an aggregate cap even if
// callers overlap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a client, applying defaults for unset config fields.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestDelay <= 0 {
		cfg.RequestDelay = DefaultRequestDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		logger:     logger,
	}
}

// FetchTokenTransfers returns all NFT transfer records touching the address,
// in ascending time order. Zero records is not an error.
func (c *Client) FetchTokenTransfers(ctx context.Context, contractAddress string) ([]model.RawTransferRecord, error) {
	params := url.Values{
		"module":     {"account"},
		"action":     {"tokennfttx"},
		"address":    {contractAddress},
		"page":       {"1"},
		"offset":     {recordPageSize},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"sort":       {"asc"},
	}
	raw, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var records []model.RawTransferRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode token transfers: %w", err)
	}
	return records, nil
}

// FetchTransactions returns all normal transactions to or from the address,
// in ascending time order.
func (c *Client) FetchTransactions(ctx context.Context, address string) ([]model.RawTransactionRecord, error) {
	params := url.Values{
		"module":     {"account"},
		"action":     {"txlist"},
		"address":    {address},
		"page":       {"1"},
		"offset":     {recordPageSize},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"sort":       {"asc"},
	}
	raw, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var records []model.RawTransactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return records, nil
}

// FetchReceipt returns the execution receipt for one transaction, or nil when
// the explorer does not know the hash. Absence is not an error; downstream
// interpretation degrades to "no fee annotation, no sale upgrade".
func (c *Client) FetchReceipt(ctx context.Context, txHash string) (*model.TransactionReceipt, error) {
	params := url.Values{
		"module": {"proxy"},
		"action": {"eth_getTransactionReceipt"},
		"txhash": {txHash},
	}
	raw, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}
	if raw == nil || string(raw) == "null" {
		return nil, nil
	}
	var receipt model.TransactionReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt %s: %w", txHash, err)
	}
	return &receipt, nil
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// call performs one rate-limited request and unwraps the explorer envelope.
// A nil result with a nil error means the API reported no matching records.
func (c *Client) call(ctx context.Context, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request (%s): %w", params.Encode(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer api: status %d %s (%s)", resp.StatusCode, resp.Status, params.Encode())
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response (%s): %w", params.Encode(), err)
	}

	if envelope.Status == "0" {
		message := strings.ToLower(envelope.Message)
		if strings.Contains(message, "no transactions found") || strings.Contains(message, "no records found") {
			return nil, nil
		}
		if len(envelope.Result) > 0 && envelope.Result[0] == '"' {
			var detail string
			_ = json.Unmarshal(envelope.Result, &detail)
			return nil, fmt.Errorf("explorer api: %s - %s (%s)", envelope.Message, detail, params.Encode())
		}
		c.logger.Warn("explorer api warning",
			zap.String("message", envelope.Message),
			zap.String("params", params.Encode()),
		)
	}

	if string(envelope.Result) == "null" {
		return nil, nil
	}
	return envelope.Result, nil
}
