package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/stockpick/pkg/config"
	"github.com/wonny/stockpick/pkg/httputil"
	"github.com/wonny/stockpick/pkg/logger"
)

// DefaultBaseURL is the Alpha Vantage query endpoint
const DefaultBaseURL = "https://www.alphavantage.co/query"

var (
	// ErrAPI is an "Error Message" payload, usually an unknown symbol
	ErrAPI = errors.New("alpha vantage error")

	// ErrThrottled is a "Note" or "Information" payload: quota exhausted or premium endpoint
	ErrThrottled = errors.New("alpha vantage throttled")

	// ErrNotFound is an empty payload for a symbol
	ErrNotFound = errors.New("alpha vantage: no data")
)

// Client handles communication with the Alpha Vantage API
// ⭐ SSOT: Alpha Vantage calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
}

// NewClient creates a new Alpha Vantage client
func NewClient(httpClient *httputil.Client, cfg config.AlphaVantageConfig, log *logger.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		apiKey:     cfg.APIKey,
		baseURL:    base,
	}
}

// buildURL assembles function, symbol and key into a query URL
func (c *Client) buildURL(function, symbol string, extra url.Values) string {
	params := url.Values{}
	params.Set("function", function)
	if symbol != "" {
		params.Set("symbol", symbol)
	}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	params.Set("apikey", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}

// fetch performs one GET and returns the body of a 200 response
func (c *Client) fetch(ctx context.Context, function, symbol string, extra url.Values) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, c.buildURL(function, symbol, extra))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// apiMessage is the envelope Alpha Vantage uses for errors and throttling
type apiMessage struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// checkMessage turns an error envelope into a typed error; nil when body is data
func checkMessage(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var msg apiMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case msg.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrAPI, msg.ErrorMessage)
	case msg.Note != "":
		return fmt.Errorf("%w: %s", ErrThrottled, msg.Note)
	case msg.Information != "":
		return fmt.Errorf("%w: %s", ErrThrottled, msg.Information)
	case trimmed == "{}":
		return ErrNotFound
	}
	return nil
}
