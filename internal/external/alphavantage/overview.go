package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Overview is the subset of the OVERVIEW payload the game stores
type Overview struct {
	Symbol      string `json:"Symbol"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Exchange    string `json:"Exchange"`
	Sector      string `json:"Sector"`
	Industry    string `json:"Industry"`
}

// Overview returns the company profile of symbol
func (c *Client) Overview(ctx context.Context, symbol string) (*Overview, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	body, err := c.fetch(ctx, "OVERVIEW", symbol, nil)
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if err := checkMessage(body); err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}

	var o Overview
	if err := json.Unmarshal(body, &o); err != nil {
		return nil, fmt.Errorf("overview %s: failed to decode: %w", symbol, err)
	}
	if o.Symbol == "" || o.Name == "" {
		return nil, fmt.Errorf("overview %s: %w", symbol, ErrNotFound)
	}
	return &o, nil
}
