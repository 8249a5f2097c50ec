package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/loader"
	"github.com/wonny/stockpick/pkg/logger"
	"github.com/wonny/stockpick/pkg/redis"
)

// DefaultPriceSchedule runs at 06:00 on the first day of each month
const DefaultPriceSchedule = "0 0 6 1 * *"

// PriceLoader refreshes stored price history
type PriceLoader interface {
	PriceHistory(ctx context.Context, criteria contracts.CompanyCriteria) (loader.Report, error)
}

// CacheFlusher drops cached entries by key prefix
type CacheFlusher interface {
	DeletePrefix(ctx context.Context, keyPrefix string) (int, error)
}

// PriceRefreshJob reloads the monthly history of every stored company
// ⭐ SSOT: 가격 갱신 스케줄은 이 Job에서만
type PriceRefreshJob struct {
	loader   PriceLoader
	cache    CacheFlusher
	schedule string
	logger   *logger.Logger
}

// NewPriceRefreshJob creates the job; cache may be nil and an empty schedule
// falls back to DefaultPriceSchedule
func NewPriceRefreshJob(l PriceLoader, cache CacheFlusher, schedule string, log *logger.Logger) *PriceRefreshJob {
	if schedule == "" {
		schedule = DefaultPriceSchedule
	}
	return &PriceRefreshJob{
		loader:   l,
		cache:    cache,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Schedule returns the cron schedule
func (j *PriceRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes prices and then drops cached price series.
// It fails only when every company failed.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled price refresh")

	rep, err := j.loader.PriceHistory(ctx, contracts.CompanyCriteria{})
	if err != nil {
		return fmt.Errorf("price refresh: %w", err)
	}

	log := j.logger.WithFields(map[string]interface{}{
		"processed": rep.Processed,
		"failed":    len(rep.Failed),
	})
	if len(rep.Failed) > 0 {
		log.WithField("symbols", rep.FailedSymbols()).Warn("Some companies were not refreshed")
	}
	if rep.Processed > 0 && len(rep.Failed) == rep.Processed {
		return fmt.Errorf("price refresh: all %d companies failed", rep.Processed)
	}

	if j.cache != nil && rep.Processed > len(rep.Failed) {
		removed, err := j.cache.DeletePrefix(ctx, redis.PriceSeriesPrefix)
		if err != nil {
			log.WithError(err).Warn("Failed to flush cached price series")
		} else {
			log = log.WithField("cache_removed", removed)
		}
	}

	log.Info("Scheduled price refresh completed")
	return nil
}
