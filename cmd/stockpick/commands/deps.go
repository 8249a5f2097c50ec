package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/data"
	"github.com/wonny/stockpick/internal/external/alphavantage"
	"github.com/wonny/stockpick/internal/external/sp500"
	"github.com/wonny/stockpick/internal/loader"
	"github.com/wonny/stockpick/pkg/config"
	"github.com/wonny/stockpick/pkg/database"
	"github.com/wonny/stockpick/pkg/httputil"
	"github.com/wonny/stockpick/pkg/logger"
	"github.com/wonny/stockpick/pkg/redis"
)

const keyPrefix = "stockpick"

// deps holds the shared infrastructure of one command run
type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	redis     *redis.Client
	companies *data.CompanyRepository
	prices    *data.PriceRepository
}

// setup loads config and connects to PostgreSQL and, when enabled, Redis
func setup(ctx context.Context) (*deps, error) {
	applyGlobalFlags()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &deps{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     rdb,
		companies: data.NewCompanyRepository(db.Pool),
		prices:    data.NewPriceRepository(db.Pool),
	}, nil
}

// applyGlobalFlags lets --env and --verbose override the environment
func applyGlobalFlags() {
	if env != "" {
		os.Setenv("ENV", env)
	}
	if verbose {
		os.Setenv("LOG_LEVEL", "debug")
	}
}

// Close releases the connections
func (d *deps) Close() {
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close redis")
	}
	d.db.Close()
}

// priceCache returns the shared price cache
func (d *deps) priceCache() *redis.Cache {
	return redis.NewCache(d.redis, keyPrefix)
}

// priceProvider returns the stored prices, cached in Redis when enabled
func (d *deps) priceProvider() contracts.PriceSeriesProvider {
	if !d.redis.Enabled() {
		return d.prices
	}
	return data.NewCachedPrices(d.prices, d.priceCache(), d.cfg.Redis.PriceCacheTTL, d.log)
}

// httpClient returns an outbound client throttled to the Alpha Vantage quota
func (d *deps) httpClient() *httputil.Client {
	av := d.cfg.AlphaVantage
	limiter := redis.NewRateLimiter(d.redis, keyPrefix)
	return httputil.New(d.log, av.Timeout).
		WithLocalLimit(av.RequestsPerMinute).
		WithRateLimiter(limiter, redis.AlphaVantageRateLimit(av.RequestsPerMinute))
}

// loader wires the market-data clients to the repositories
func (d *deps) loader() *loader.Loader {
	httpClient := d.httpClient()
	market := alphavantage.NewClient(httpClient, d.cfg.AlphaVantage, d.log)
	index := sp500.NewClient(httputil.New(d.log, d.cfg.AlphaVantage.Timeout), sp500.DefaultURL, d.log)
	return loader.New(d.companies, d.prices, market, index, d.log)
}
