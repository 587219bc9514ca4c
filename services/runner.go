package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
	"vaccine-slot-scraper/sources"
	"vaccine-slot-scraper/utils"

	"github.com/google/uuid"
)

// RunRecorder receives the figures of a finished run.
type RunRecorder interface {
	Record(outcomes []models.Outcome, stats Stats, elapsed time.Duration)
	Flush(ctx context.Context) error
}

type RunnerConfig struct {
	PoolSize         int
	BlockedThreshold int
	Location         *time.Location
}

// Runner drives one full scrape: venues → worker pool → aggregate → export.
type Runner struct {
	cfg      RunnerConfig
	registry *scraper.Registry
	sources  []sources.Source
	regions  Regions
	exporter *Exporter
	recorder RunRecorder
	logger   *slog.Logger
	runID    uuid.UUID
	now      func() time.Time
}

func NewRunner(
	cfg RunnerConfig,
	registry *scraper.Registry,
	srcs []sources.Source,
	regions Regions,
	exporter *Exporter,
	recorder RunRecorder,
	logger *slog.Logger,
	runID uuid.UUID,
) *Runner {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Runner{
		cfg:      cfg,
		registry: registry,
		sources:  srcs,
		regions:  regions,
		exporter: exporter,
		recorder: recorder,
		logger:   logger.With("run_id", runID.String()),
		runID:    runID,
		now:      time.Now,
	}
}

// StartDate is the day slot searches begin, in the configured time zone.
func (r *Runner) StartDate() string {
	return r.now().In(r.cfg.Location).Format(time.DateOnly)
}

// Run scrapes every venue once and publishes the snapshots. The returned
// code is the run verdict, or ExitPublishFailed alongside err when
// publishing failed.
func (r *Runner) Run(ctx context.Context) (ExitCode, error) {
	started := r.now()
	startDate := r.StartDate()
	utils.Info("Run %s: searching slots from %s with %d workers", r.runID, startDate, r.cfg.PoolSize)

	worker := scraper.NewWorker(r.registry, startDate, r.logger)
	pool := scraper.NewWorkerPool(worker, r.cfg.PoolSize)
	outcomes := pool.Run(ctx, sources.Iterate(ctx, r.logger, r.sources...))

	report := Aggregate(outcomes, r.regions, r.now().In(r.cfg.Location))
	if err := r.exporter.Export(ctx, report); err != nil {
		return ExitPublishFailed, err
	}

	stats := report.Stats
	utils.Info("%d centres had availability out of %d scanned (%d dropped)", stats.Available, stats.Total, stats.Dropped)

	if r.recorder != nil {
		r.recorder.Record(outcomes, stats, r.now().Sub(started))
		if err := r.recorder.Flush(ctx); err != nil {
			utils.Warn("Could not push run metrics: %v", err)
		}
	}

	code := Verdict(stats, r.cfg.BlockedThreshold)
	switch code {
	case ExitBlocked:
		utils.Error("Blocked by the platform CDN %d times (limit %d), data is not trustworthy", stats.Blocked, r.cfg.BlockedThreshold)
	case ExitNoAvailability:
		utils.Error("No availability found in any centre, this is most likely a scraping error")
	}
	return code, nil
}

// Debug resolves and fetches each URL, logging what was found. Nothing is
// published.
func (r *Runner) Debug(ctx context.Context, urls []string) []models.ScrapeResult {
	startDate := r.StartDate()
	results := make([]models.ScrapeResult, 0, len(urls))
	for _, raw := range urls {
		res, err := r.registry.FetchSlots(ctx, raw, startDate)
		if err != nil {
			r.logger.Error("debug fetch failed", "url", res.Request.URL, "platform", res.Platform,
				"status", scraper.Classify(err).String(), "error", err.Error())
		} else {
			next := ""
			if res.NextSlot != nil {
				next = res.NextSlot.Format(time.RFC3339)
			}
			r.logger.Info("debug fetch", "url", res.Request.URL, "platform", res.Platform, "next_slot", next,
				"appointments", res.Count, "vaccines", strings.Join(res.VaccineTypes, ","))
		}
		results = append(results, res)
	}
	return results
}
