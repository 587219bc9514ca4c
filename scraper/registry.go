package scraper

import (
	"context"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
)

const (
	PlatformDoctolib = "Doctolib"
	PlatformKeldoc   = "Keldoc"
	PlatformMaiia    = "Maiia"
	PlatformOrdoclic = "Ordoclic"
)

//go:generate mockgen -source=registry.go -destination=mocks/mock_fetcher.go -package=mocks

// SlotFetcher returns the next available slot for one booking URL, nil when none.
// Failures should carry ErrScrapeFailure or ErrPlatformBlocked.
type SlotFetcher interface {
	FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error)
}

// SlotInfoFetcher is implemented by fetchers that can also count slots.
// The registry prefers it over SlotFetcher when both are available.
type SlotInfoFetcher interface {
	FetchSlotInfo(ctx context.Context, req models.ScrapeRequest) (models.SlotInfo, error)
}

type FetcherFunc func(ctx context.Context, req models.ScrapeRequest) (*time.Time, error)

func (f FetcherFunc) FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error) {
	return f(ctx, req)
}

type Platform struct {
	Name     string
	Prefixes []string
	Fetcher  SlotFetcher
}

// Registry resolves booking URLs to platforms. Order matters: when several
// entries match, the last one wins.
type Registry struct {
	platforms []Platform
}

func NewRegistry(platforms ...Platform) *Registry {
	return &Registry{platforms: append([]Platform(nil), platforms...)}
}

// Fetchers groups the per-platform implementations handed to DefaultPlatforms.
type Fetchers struct {
	Doctolib SlotFetcher
	Keldoc   SlotFetcher
	Maiia    SlotFetcher
	Ordoclic SlotFetcher
}

func DefaultPlatforms(f Fetchers) []Platform {
	return []Platform{
		{Name: PlatformDoctolib, Prefixes: []string{"https://partners.doctolib.fr", "https://www.doctolib.fr"}, Fetcher: f.Doctolib},
		{Name: PlatformKeldoc, Prefixes: []string{"https://vaccination-covid.keldoc.com", "https://keldoc.com"}, Fetcher: f.Keldoc},
		{Name: PlatformMaiia, Prefixes: []string{"https://www.maiia.com"}, Fetcher: f.Maiia},
		{Name: PlatformOrdoclic, Prefixes: []string{"https://app.ordoclic.fr/"}, Fetcher: f.Ordoclic},
	}
}

// Resolve does raw string-prefix matching over the registry.
func (r *Registry) Resolve(normalizedURL string) (Platform, bool) {
	var (
		match Platform
		found bool
	)
	for _, p := range r.platforms {
		if hasAnyPrefix(normalizedURL, p.Prefixes) {
			match = p
			found = true
		}
	}
	return match, found
}

func (r *Registry) PlatformName(normalizedURL string) string {
	if p, ok := r.Resolve(normalizedURL); ok {
		return p.Name
	}
	return models.PlatformOther
}

// FetchSlots normalizes rawURL, resolves its platform and asks that platform
// for the next slot. Unknown platforms yield PlatformOther and no error.
func (r *Registry) FetchSlots(ctx context.Context, rawURL, startDate string) (models.ScrapeResult, error) {
	req := models.ScrapeRequest{URL: NormalizeURL(rawURL), StartDate: startDate}

	p, ok := r.Resolve(req.URL)
	if !ok {
		return models.ScrapeResult{Request: req, Platform: models.PlatformOther}, nil
	}

	result := models.ScrapeResult{Request: req, Platform: p.Name}
	if p.Fetcher == nil || strings.TrimSpace(req.URL) == "" {
		return result, nil
	}

	if f, ok := p.Fetcher.(SlotInfoFetcher); ok {
		info, err := f.FetchSlotInfo(ctx, req)
		if err != nil {
			return result, err
		}
		result.SlotInfo = info
		return result, nil
	}

	next, err := p.Fetcher.FetchSlots(ctx, req)
	if err != nil {
		return result, err
	}
	result.NextSlot = next
	return result, nil
}
