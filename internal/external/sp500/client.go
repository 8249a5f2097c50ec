package sp500

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/stockpick/pkg/httputil"
	"github.com/wonny/stockpick/pkg/logger"
)

// DefaultURL is the Wikipedia page listing the index constituents
const DefaultURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// Constituent is one row of the constituents table
type Constituent struct {
	Symbol   string
	Security string
	Sector   string
	Industry string
}

// Description builds a company description from sector and industry
func (c Constituent) Description() string {
	switch {
	case c.Sector != "" && c.Industry != "":
		return fmt.Sprintf("%s / %s", c.Sector, c.Industry)
	case c.Sector != "":
		return c.Sector
	default:
		return ""
	}
}

// Client scrapes the S&P 500 constituents table
// ⭐ SSOT: index membership scraping lives here
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewClient creates a new scraper; an empty url uses DefaultURL
func NewClient(httpClient *httputil.Client, url string, log *logger.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{httpClient: httpClient, logger: log, url: url}
}

// Constituents downloads and parses the current member list
func (c *Client) Constituents(ctx context.Context) ([]Constituent, error) {
	resp, err := c.httpClient.Get(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	out, err := ParseConstituents(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(out)).Info("Fetched S&P 500 constituents")
	return out, nil
}

// ParseConstituents reads table#constituents. Columns are located by header
// text so reordering on the page does not break parsing.
func ParseConstituents(r io.Reader) ([]Constituent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		return nil, fmt.Errorf("constituents table not found")
	}

	col := map[string]int{}
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		col[strings.ToLower(strings.TrimSpace(th.Text()))] = i
	})

	symbolIdx, ok := col["symbol"]
	if !ok {
		return nil, fmt.Errorf("symbol column not found")
	}
	securityIdx, ok := col["security"]
	if !ok {
		return nil, fmt.Errorf("security column not found")
	}
	sectorIdx, hasSector := col["gics sector"]
	industryIdx, hasIndustry := col["gics sub-industry"]

	var out []Constituent
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= securityIdx || cells.Length() <= symbolIdx {
			return
		}

		c := Constituent{
			Symbol:   strings.TrimSpace(cells.Eq(symbolIdx).Text()),
			Security: strings.TrimSpace(cells.Eq(securityIdx).Text()),
		}
		if hasSector && sectorIdx < cells.Length() {
			c.Sector = strings.TrimSpace(cells.Eq(sectorIdx).Text())
		}
		if hasIndustry && industryIdx < cells.Length() {
			c.Industry = strings.TrimSpace(cells.Eq(industryIdx).Text())
		}
		if c.Symbol == "" || c.Security == "" {
			return
		}
		out = append(out, c)
	})

	return out, nil
}
