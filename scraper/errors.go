package scraper

import (
	"vaccine-slot-scraper/models"

	"github.com/cockroachdb/errors"
)

var (
	// ErrScrapeFailure marks a recoverable failure scoped to one venue.
	ErrScrapeFailure = errors.New("scrape failure")
	// ErrPlatformBlocked marks a platform edge rejecting our requests.
	// Errors carrying it also carry ErrScrapeFailure.
	ErrPlatformBlocked = errors.New("blocked by platform")
)

func ScrapeFailure(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrScrapeFailure)
}

func BlockedFailure(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(ScrapeFailure(err), ErrPlatformBlocked)
}

// Scrapef builds a new ScrapeFailure.
func Scrapef(format string, args ...interface{}) error {
	return ScrapeFailure(errors.Newf(format, args...))
}

// Blockedf builds a new blocked failure.
func Blockedf(format string, args ...interface{}) error {
	return BlockedFailure(errors.Newf(format, args...))
}

func IsScrapeFailure(err error) bool { return errors.Is(err, ErrScrapeFailure) }
func IsBlocked(err error) bool       { return errors.Is(err, ErrPlatformBlocked) }

// Classify maps a fetch error onto an outcome status.
func Classify(err error) models.Status {
	switch {
	case err == nil:
		return models.StatusUnavailable
	case IsBlocked(err):
		return models.StatusBlocked
	default:
		return models.StatusFailed
	}
}
