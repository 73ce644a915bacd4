package yfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL = "http://localhost:8000"
	quotePath      = "/api/v1/quote"
	quoteBatchPath = "/api/v1/quote/batch"
)

// Client fetches underlying quotes from the yfinance based market data service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client for a service that is not on localhost.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type quoteResponse struct {
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Time     string `json:"time"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type quoteBatchRequest struct {
	Symbols []string `json:"symbols"`
}

type quoteBatchResponse struct {
	Results []quoteResponse   `json:"results"`
	Errors  []quoteBatchError `json:"errors"`
}

type quoteBatchError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

func (r quoteResponse) toQuote() (*marketdata.Quote, error) {
	if r.Price == "" {
		return nil, fmt.Errorf("quote request returned no price data for symbol: %s", r.Symbol)
	}
	price, err := domain.NewDecimalFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	return &marketdata.Quote{
		Symbol:   r.Symbol,
		Price:    price,
		Currency: r.Currency,
		Time:     r.Time,
	}, nil
}

func closeBody(body io.Closer, reqURL string) {
	if err := body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err, "url", reqURL)
	}
}

// GetQuote retrieves the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	reqURL := fmt.Sprintf("%s%s/%s", c.baseURL, quotePath, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer closeBody(resp.Body, reqURL)

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no quote found for symbol: %s", symbol)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("API error: %s", errResp.Detail)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var quoteResp quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if quoteResp.Symbol == "" {
		quoteResp.Symbol = symbol
	}
	return quoteResp.toQuote()
}

func failAll(symbols []string, err error) []marketdata.QuoteBatchResult {
	results := make([]marketdata.QuoteBatchResult, 0, len(symbols))
	for _, symbol := range symbols {
		results = append(results, marketdata.QuoteBatchResult{Symbol: symbol, Error: err})
	}
	return results
}

// GetQuoteBatch retrieves quotes for several symbols in one request. A failed
// request yields one error result per symbol.
func (c *Client) GetQuoteBatch(ctx context.Context, symbols []string) []marketdata.QuoteBatchResult {
	if len(symbols) == 0 {
		return []marketdata.QuoteBatchResult{}
	}

	jsonBody, err := json.Marshal(quoteBatchRequest{Symbols: symbols})
	if err != nil {
		return failAll(symbols, fmt.Errorf("failed to marshal request: %w", err))
	}

	reqURL := c.baseURL + quoteBatchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonBody))
	if err != nil {
		return failAll(symbols, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failAll(symbols, fmt.Errorf("failed to execute request: %w", err))
	}
	defer closeBody(resp.Body, reqURL)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return failAll(symbols, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var batchResp quoteBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return failAll(symbols, fmt.Errorf("failed to decode response: %w", err))
	}

	results := make([]marketdata.QuoteBatchResult, 0, len(symbols))
	for _, qr := range batchResp.Results {
		quote, err := qr.toQuote()
		results = append(results, marketdata.QuoteBatchResult{Symbol: qr.Symbol, Quote: quote, Error: err})
	}
	for _, e := range batchResp.Errors {
		results = append(results, marketdata.QuoteBatchResult{
			Symbol: e.Symbol,
			Error:  fmt.Errorf("%s", e.Error),
		})
	}
	return results
}

var _ marketdata.BatchQuoteProvider = (*Client)(nil)
