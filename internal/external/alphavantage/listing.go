package alphavantage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Listing is one row of LISTING_STATUS
type Listing struct {
	Symbol    string
	Name      string
	Exchange  string
	AssetType string
	Status    string
}

// Listings returns every active listing. The endpoint answers in CSV.
func (c *Client) Listings(ctx context.Context) ([]Listing, error) {
	body, err := c.fetch(ctx, "LISTING_STATUS", "", nil)
	if err != nil {
		return nil, fmt.Errorf("listing status: %w", err)
	}
	if err := checkMessage(body); err != nil {
		return nil, fmt.Errorf("listing status: %w", err)
	}

	listings, err := parseListings(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("listing status: %w", err)
	}

	c.logger.WithField("listings", len(listings)).Info("Listing status fetched")
	return listings, nil
}

// parseListings reads the LISTING_STATUS CSV; rows without symbol or name are skipped
func parseListings(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	symbolIdx, okSymbol := col["symbol"]
	nameIdx, okName := col["name"]
	if !okSymbol || !okName {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []Listing
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if symbolIdx >= len(rec) || nameIdx >= len(rec) {
			continue
		}

		l := Listing{
			Symbol:    strings.TrimSpace(rec[symbolIdx]),
			Name:      strings.TrimSpace(rec[nameIdx]),
			Exchange:  field(rec, "exchange"),
			AssetType: field(rec, "assettype"),
			Status:    field(rec, "status"),
		}
		if l.Symbol == "" || l.Name == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
