package sources

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/utils"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
)

// RemoteSnapshot downloads a JSON array of venues published by a previous
// platform crawl, keeps a local copy and replays it. The local copy is used
// when the download fails.
type RemoteSnapshot struct {
	Label     string
	URL       string
	CachePath string
	Client    *http.Client
	Retries   int
}

func NewRemoteSnapshot(label, url, cachePath string, client *http.Client) *RemoteSnapshot {
	return &RemoteSnapshot{Label: label, URL: url, CachePath: cachePath, Client: client, Retries: 3}
}

func (s *RemoteSnapshot) Name() string { return s.Label }

func (s *RemoteSnapshot) Each(ctx context.Context, yield func(models.VenueRecord) bool) error {
	raw, err := s.download(ctx)
	if err != nil {
		cached, cacheErr := os.ReadFile(s.CachePath)
		if cacheErr != nil {
			return errors.CombineErrors(err, errors.Wrap(cacheErr, "read snapshot cache"))
		}
		utils.Warn("%s: download failed, replaying %s: %v", s.Label, s.CachePath, err)
		raw = cached
	} else if err := writeCache(s.CachePath, raw); err != nil {
		utils.Warn("%s: could not cache snapshot: %v", s.Label, err)
	}

	var venues []models.VenueRecord
	if err := json.Unmarshal(raw, &venues); err != nil {
		return errors.Wrapf(err, "decode %s snapshot", s.Label)
	}
	for _, v := range venues {
		if v == nil {
			continue
		}
		fillRegion(v)
		if !yield(v) {
			return nil
		}
	}
	return nil
}

func (s *RemoteSnapshot) download(ctx context.Context) ([]byte, error) {
	if s.URL == "" {
		return nil, errors.New("no snapshot url configured")
	}
	var raw []byte
	err := utils.Retry(ctx, s.Retries, time.Second, func() error {
		resp, err := open(ctx, s.Client, s.URL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		raw, err = io.ReadAll(resp.Body)
		return errors.Wrap(err, "read snapshot body")
	})
	return raw, err
}

func writeCache(path string, raw []byte) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write snapshot cache")
}
