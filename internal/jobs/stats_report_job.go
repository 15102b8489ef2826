package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/worker"
)

// StatsSource computes the current order statistics.
type StatsSource interface {
	Snapshot(ctx context.Context) (model.DerivedStats, error)
}

// DeliveryCounters exposes fan-out counters.
type DeliveryCounters interface {
	Stats() worker.DispatcherStats
}

// StatsReportJob periodically logs order statistics and fan-out counters.
type StatsReportJob struct {
	source   StatsSource
	counters DeliveryCounters
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStatsReportJob creates the job. An empty schedule disables it.
func NewStatsReportJob(source StatsSource, counters DeliveryCounters, schedule string, logger *slog.Logger) *StatsReportJob {
	return &StatsReportJob{
		source:   source,
		counters: counters,
		schedule: schedule,
		timeout:  10 * time.Second,
		cron:     cron.New(),
		logger:   logger.With("component", "stats_report_job"),
	}
}

// Start registers the report on the configured schedule.
func (j *StatsReportJob) Start() error {
	if j.schedule == "" {
		j.logger.Info("stats report disabled")
		return nil
	}

	if _, err := j.cron.AddFunc(j.schedule, j.report); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("stats report started", "schedule", j.schedule)
	return nil
}

// Stop halts the schedule and waits for a running report to finish.
func (j *StatsReportJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("stats report stopped")
}

// Run produces one report.
func (j *StatsReportJob) Run(ctx context.Context) error {
	stats, err := j.source.Snapshot(ctx)
	if err != nil {
		return err
	}

	attrs := []any{
		slog.Int("total_orders", stats.TotalOrders),
	}
	for _, c := range stats.OrdersByStage {
		attrs = append(attrs, slog.Int(c.Stage.String(), c.Count))
	}
	if stats.AvgDeliveryTime != nil {
		attrs = append(attrs, slog.Duration("avg_delivery_time", *stats.AvgDeliveryTime))
	}
	if j.counters != nil {
		counters := j.counters.Stats()
		attrs = append(attrs,
			slog.Int64("events_published", counters.Published),
			slog.Int64("events_dropped", counters.Dropped),
		)
	}

	j.logger.InfoContext(ctx, "order stats", attrs...)
	return nil
}

func (j *StatsReportJob) report() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		j.logger.ErrorContext(ctx, "stats report failed", "error", err)
	}
}
