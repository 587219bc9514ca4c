package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
)

// StatusError reports a non-2xx answer from a platform API.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %d", e.URL, e.Code)
	}
	return fmt.Sprintf("%s returned %d: %s", e.URL, e.Code, e.Body)
}

// GetJSON issues a GET and decodes the JSON answer into out.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ScrapeFailure(errors.Wrap(err, "build request"))
	}
	return DoJSON(client, req, out)
}

// PostJSON sends body as JSON and decodes the JSON answer into out.
func PostJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return ScrapeFailure(errors.Wrap(err, "build request"))
	}
	req.Header.Set("Content-Type", "application/json")
	return DoJSON(client, req, out)
}

// DoJSON runs req and decodes the body. Transport errors, non-2xx statuses
// (as *StatusError) and undecodable bodies come back as scrape failures.
func DoJSON(client *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return ScrapeFailure(errors.Wrapf(err, "%s %s", req.Method, req.URL.Redacted()))
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ScrapeFailure(&StatusError{
			Code: resp.StatusCode,
			URL:  req.URL.Redacted(),
			Body: strings.TrimSpace(string(b)),
		})
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return ScrapeFailure(errors.Wrapf(err, "decode %s", req.URL.Redacted()))
	}
	return nil
}

// StatusCode extracts the HTTP status carried by err, 0 when there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
