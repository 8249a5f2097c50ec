package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/loader"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load companies and prices into storage",
	Long: `Fill the companies and stock_rate tables.

Subcommands:
  companies listing        - every active listing from Alpha Vantage
  companies sp500          - S&P 500 constituents
  companies csv FILE       - symbol,name[,description] rows
  companies overview SYM.. - one company each, described by its overview
  prices api               - monthly adjusted history from Alpha Vantage
  prices csv FILE          - daily rows (Date, Close/Last, Volume, Open, High, Low, Company)

Example:
  go run ./cmd/stockpick load companies sp500
  go run ./cmd/stockpick load prices api --symbols AAPL,MSFT`,
}

var loadCompaniesCmd = &cobra.Command{
	Use:       "companies [listing|sp500|csv|overview] [args]",
	Short:     "Load companies",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"listing", "sp500", "csv", "overview"},
	RunE:      runLoadCompanies,
}

var loadPricesCmd = &cobra.Command{
	Use:       "prices [api|csv] [args]",
	Short:     "Load prices",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"api", "csv"},
	RunE:      runLoadPrices,
}

var (
	loadSymbols []string
	loadIDs     []int64
	loadNames   []string
)

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.AddCommand(loadCompaniesCmd)
	loadCmd.AddCommand(loadPricesCmd)

	loadPricesCmd.Flags().StringSliceVar(&loadSymbols, "symbols", nil, "only these symbols (api source)")
	loadPricesCmd.Flags().Int64SliceVar(&loadIDs, "ids", nil, "only these company ids (api source)")
	loadPricesCmd.Flags().StringSliceVar(&loadNames, "names", nil, "only these company names (api source)")
}

func runLoadCompanies(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	l := d.loader()
	var rep loader.Report

	switch args[0] {
	case "listing":
		rep, err = l.CompaniesFromListing(ctx)
	case "sp500":
		rep, err = l.CompaniesFromSP500(ctx)
	case "csv":
		if len(args) != 2 {
			return fmt.Errorf("usage: load companies csv FILE")
		}
		rep, err = withFile(args[1], func(f *os.File) (loader.Report, error) {
			return l.CompaniesFromCSV(ctx, f)
		})
	case "overview":
		if len(args) < 2 {
			return fmt.Errorf("usage: load companies overview SYMBOL...")
		}
		for _, symbol := range args[1:] {
			rep.Processed++
			c, err := l.CompanyFromOverview(ctx, symbol)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", symbol, err)
				rep.Failed = appendFailure(rep.Failed, symbol, err)
				continue
			}
			fmt.Printf("✅ %s\n", c)
			rep.Added++
		}
	default:
		return fmt.Errorf("unknown source: %s (valid: listing, sp500, csv, overview)", args[0])
	}
	if err != nil {
		return err
	}

	printReport("companies", rep)
	return nil
}

func runLoadPrices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	l := d.loader()
	var rep loader.Report

	switch args[0] {
	case "api":
		criteria := contracts.CompanyCriteria{IDs: loadIDs, Names: loadNames, Symbols: loadSymbols}
		rep, err = l.PriceHistory(ctx, criteria)
	case "csv":
		if len(args) != 2 {
			return fmt.Errorf("usage: load prices csv FILE")
		}
		rep, err = withFile(args[1], func(f *os.File) (loader.Report, error) {
			return l.PricesFromCSV(ctx, f)
		})
	default:
		return fmt.Errorf("unknown source: %s (valid: api, csv)", args[0])
	}
	if err != nil {
		return err
	}

	printReport("prices", rep)
	return nil
}

func withFile(path string, fn func(f *os.File) (loader.Report, error)) (loader.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return loader.Report{}, err
	}
	defer f.Close()
	return fn(f)
}

func appendFailure(failed map[string]error, symbol string, err error) map[string]error {
	if failed == nil {
		failed = make(map[string]error)
	}
	failed[symbol] = err
	return failed
}

func printReport(what string, rep loader.Report) {
	fmt.Printf("\n📊 Loaded %s: %s\n", what, rep)
	if len(rep.Failed) > 0 {
		fmt.Printf("   Failed: %s\n", strings.Join(rep.FailedSymbols(), ", "))
	}
}
