package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockpick/internal/loader"
	"github.com/wonny/stockpick/pkg/logger"
)

// DefaultListingSchedule runs at 05:00 every Monday
const DefaultListingSchedule = "0 0 5 * * 1"

// ListingLoader adds newly listed companies
type ListingLoader interface {
	CompaniesFromListing(ctx context.Context) (loader.Report, error)
}

// ListingRefreshJob picks up companies added to the exchange listing
type ListingRefreshJob struct {
	loader   ListingLoader
	schedule string
	logger   *logger.Logger
}

// NewListingRefreshJob creates the job; an empty schedule falls back to DefaultListingSchedule
func NewListingRefreshJob(l ListingLoader, schedule string, log *logger.Logger) *ListingRefreshJob {
	if schedule == "" {
		schedule = DefaultListingSchedule
	}
	return &ListingRefreshJob{loader: l, schedule: schedule, logger: log}
}

// Name returns the job name
func (j *ListingRefreshJob) Name() string {
	return "listing_refresh"
}

// Schedule returns the cron schedule
func (j *ListingRefreshJob) Schedule() string {
	return j.schedule
}

// Run loads the listing
func (j *ListingRefreshJob) Run(ctx context.Context) error {
	rep, err := j.loader.CompaniesFromListing(ctx)
	if err != nil {
		return fmt.Errorf("listing refresh: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"processed": rep.Processed,
		"added":     rep.Added,
		"failed":    len(rep.Failed),
	}).Info("Scheduled listing refresh completed")
	return nil
}
