package sources

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/utils"

	"github.com/cockroachdb/errors"
)

// CSVFeed streams the semicolon separated public centres file.
type CSVFeed struct {
	URL     string
	Client  *http.Client
	Retries int
}

func NewCSVFeed(url string, client *http.Client) *CSVFeed {
	return &CSVFeed{URL: url, Client: client, Retries: 3}
}

func (f *CSVFeed) Name() string { return "centres-csv" }

func (f *CSVFeed) Each(ctx context.Context, yield func(models.VenueRecord) bool) error {
	var resp *http.Response
	err := utils.Retry(ctx, f.Retries, time.Second, func() error {
		r, err := open(ctx, f.Client, f.URL)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return readCSV(resp.Body, yield)
}

func readCSV(r io.Reader, yield func(models.VenueRecord) bool) error {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return errors.Wrap(err, "read csv header")
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read csv row")
		}
		v := make(models.VenueRecord, len(keys))
		for i, key := range keys {
			if i < len(row) {
				v[key] = row[i]
			}
		}
		fillRegion(v)
		if !yield(v) {
			return nil
		}
	}
}

// open issues a GET and checks the status; the caller closes the body.
func open(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Newf("GET %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}
