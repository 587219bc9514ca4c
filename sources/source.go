// Package sources enumerates candidate venues from the public feeds.
package sources

import (
	"context"
	"iter"
	"log/slog"

	"vaccine-slot-scraper/models"
)

// Source streams venue records to yield until it runs dry or yield
// returns false. An error ends the source, records already yielded stand.
type Source interface {
	Name() string
	Each(ctx context.Context, yield func(models.VenueRecord) bool) error
}

// Iterate chains srcs into one lazy sequence. A failing source is logged as
// a warning and the sequence moves on to the next one.
func Iterate(ctx context.Context, logger *slog.Logger, srcs ...Source) iter.Seq[models.VenueRecord] {
	return func(yield func(models.VenueRecord) bool) {
		for _, src := range srcs {
			stopped := false
			count := 0
			err := src.Each(ctx, func(v models.VenueRecord) bool {
				count++
				if !yield(v) {
					stopped = true
					return false
				}
				return true
			})
			if err != nil {
				logger.Warn("venue source failed", "source", src.Name(), "venues", count, "error", err)
			} else {
				logger.Info("venue source done", "source", src.Name(), "venues", count)
			}
			if stopped {
				return
			}
		}
	}
}
