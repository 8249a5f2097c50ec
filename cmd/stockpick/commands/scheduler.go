package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpick/internal/scheduler"
	"github.com/wonny/stockpick/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduled data refresh",
	Long: `Keep the stored companies and prices current.

Jobs:
  price_refresh   - monthly adjusted history of every company (1st of the month, 06:00)
  listing_refresh - newly listed companies (Mondays, 05:00)

Subcommands:
  start - run the scheduler until Ctrl+C
  list  - registered jobs
  run   - run one job now

Example:
  go run ./cmd/stockpick scheduler start
  go run ./cmd/stockpick scheduler run price_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var (
	schedulerPriceSchedule   string
	schedulerListingSchedule string
	schedulerJobTimeout      time.Duration
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&schedulerPriceSchedule, "price-schedule", jobs.DefaultPriceSchedule, "cron expression (with seconds) for price_refresh")
	schedulerCmd.PersistentFlags().StringVar(&schedulerListingSchedule, "listing-schedule", jobs.DefaultListingSchedule, "cron expression (with seconds) for listing_refresh")
	schedulerCmd.PersistentFlags().DurationVar(&schedulerJobTimeout, "job-timeout", 6*time.Hour, "upper bound for one job run")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := initScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()
	fmt.Println("✅ Scheduler started")
	for _, stat := range sched.GetJobStats() {
		fmt.Printf("  - %s (%s)\n", stat.JobName, stat.Schedule)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := initScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	sched, err := initScheduler(d)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", args[0])
	res, err := sched.RunNow(ctx, args[0])
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("job %s failed after %v: %s", res.JobName, res.Duration, res.Error)
	}
	fmt.Printf("✅ Job %s completed in %v\n", res.JobName, res.Duration.Round(time.Millisecond))
	return nil
}

func initScheduler(d *deps) (*scheduler.Scheduler, error) {
	l := d.loader()
	sched := scheduler.New(d.log, schedulerJobTimeout)

	var flusher jobs.CacheFlusher
	if d.redis.Enabled() {
		flusher = d.priceCache()
	}

	if err := sched.AddJob(jobs.NewPriceRefreshJob(l, flusher, schedulerPriceSchedule, d.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewListingRefreshJob(l, schedulerListingSchedule, d.log)); err != nil {
		return nil, err
	}
	return sched, nil
}
