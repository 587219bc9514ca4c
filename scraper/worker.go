package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vaccine-slot-scraper/models"

	"github.com/cockroachdb/errors"
)

// Worker turns one venue record into one outcome. It never returns an error:
// every failure, including a panic inside a fetcher, ends up on the outcome.
type Worker struct {
	registry  *Registry
	startDate string
	logger    *slog.Logger
}

func NewWorker(registry *Registry, startDate string, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{registry: registry, startDate: startDate, logger: logger}
}

func (w *Worker) Process(ctx context.Context, venue models.VenueRecord) (out models.Outcome) {
	center := models.NewCenterInfo(venue)
	if center.Type == "" {
		center.Type = models.VaccinationCenter
	}

	normalized := NormalizeURL(venue.BookingURL())
	center.URL = strings.ToLower(normalized)
	center.Platform = w.registry.PlatformName(normalized)

	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf("panic while fetching slots: %v", r)
			w.logger.Error("unexpected failure while processing venue",
				"gid", center.GID, "error", fmt.Sprintf("%+v", err))
			out = models.Outcome{Center: center, Status: models.StatusFailed, Err: err}
		}
		w.logOutcome(out)
	}()

	result, err := w.registry.FetchSlots(ctx, normalized, w.startDate)
	if err != nil {
		if IsScrapeFailure(err) {
			w.logger.Error("scrape failed", "gid", center.GID, "platform", center.Platform, "error", err.Error())
		} else {
			w.logger.Error("unexpected failure while processing venue",
				"gid", center.GID, "platform", center.Platform, "error", fmt.Sprintf("%+v", err))
		}
		return models.Outcome{Center: center, Status: Classify(err), Err: err}
	}

	center.NextSlot = result.NextSlot
	center.AppointmentCount = result.Count
	center.AppointmentSchedules = result.Schedules
	center.VaccineType = result.VaccineTypes
	status := models.StatusUnavailable
	if center.NextSlot != nil {
		status = models.StatusAvailable
	}
	return models.Outcome{Center: center, Status: status}
}

func (w *Worker) logOutcome(out models.Outcome) {
	next := ""
	switch {
	case out.Err != nil:
		next = "error"
	case out.Center.NextSlot != nil:
		next = out.Center.NextSlot.Format(time.RFC3339)
	}
	w.logger.Info("venue scanned",
		"gid", out.Center.GID,
		"platform", out.Center.Platform,
		"next_slot", next,
		"region", out.Center.RegionCode,
	)
}
