// Package doctolib looks up the next vaccination slot of a Doctolib centre.
package doctolib

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
)

const availabilityLimit = 7

// Getter fetches a URL and hands back the raw answer.
type Getter interface {
	Get(ctx context.Context, target string) (status int, body []byte, err error)
}

type Fetcher struct {
	baseURL string
	getter  Getter
}

func NewFetcher(baseURL string, getter Getter) *Fetcher {
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), getter: getter}
}

type bookingResponse struct {
	Data struct {
		VisitMotives []visitMotive `json:"visit_motives"`
		Agendas      []agenda      `json:"agendas"`
	} `json:"data"`
}

type visitMotive struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type agenda struct {
	ID              int64   `json:"id"`
	PracticeID      int64   `json:"practice_id"`
	BookingDisabled bool    `json:"booking_disabled"`
	VisitMotiveIDs  []int64 `json:"visit_motive_ids"`
}

type availabilitiesResponse struct {
	Availabilities []struct {
		Date  string `json:"date"`
		Slots []any  `json:"slots"`
	} `json:"availabilities"`
	NextSlot string `json:"next_slot"`
}

func (f *Fetcher) FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, scraper.ScrapeFailure(errors.Wrap(err, "parse doctolib url"))
	}
	slug := path.Base(strings.TrimRight(u.Path, "/"))
	if slug == "" || slug == "." || slug == "/" {
		return nil, scraper.Scrapef("no centre slug in %s", req.URL)
	}

	var booking bookingResponse
	if err := f.getJSON(ctx, f.baseURL+"/booking/"+url.PathEscape(slug)+".json", &booking); err != nil {
		return nil, err
	}

	motives := firstDoseMotives(booking.Data.VisitMotives)
	agendas := openAgendas(booking.Data.Agendas, practiceID(u.Query().Get("pid")), motives)
	if len(motives) == 0 || len(agendas) == 0 {
		return nil, nil
	}

	first, next, err := f.availabilities(ctx, req.StartDate, motives, agendas)
	if err != nil || first != nil || next == "" {
		return first, err
	}

	// nothing in the first window: look once more from the announced next day
	first, _, err = f.availabilities(ctx, next, motives, agendas)
	return first, err
}

func (f *Fetcher) availabilities(ctx context.Context, startDate string, motives, agendas []int64) (*time.Time, string, error) {
	q := url.Values{}
	q.Set("start_date", startDate)
	q.Set("visit_motive_ids", joinIDs(motives))
	q.Set("agenda_ids", joinIDs(agendas))
	q.Set("insurance_sector", "public")
	q.Set("destroy_temporary", "true")
	q.Set("limit", strconv.Itoa(availabilityLimit))

	var resp availabilitiesResponse
	if err := f.getJSON(ctx, f.baseURL+"/availabilities.json?"+q.Encode(), &resp); err != nil {
		return nil, "", err
	}

	var first *time.Time
	for _, day := range resp.Availabilities {
		for _, raw := range day.Slots {
			t, ok := slotTime(raw)
			if !ok {
				continue
			}
			if first == nil || t.Before(*first) {
				first = &t
			}
		}
	}
	return first, resp.NextSlot, nil
}

func (f *Fetcher) getJSON(ctx context.Context, target string, out any) error {
	status, body, err := f.getter.Get(ctx, target)
	if err != nil {
		return scraper.ScrapeFailure(errors.Wrapf(err, "get %s", target))
	}
	switch {
	case status == http.StatusForbidden:
		return scraper.Blockedf("doctolib returned %d for %s", status, target)
	case status/100 != 2:
		return scraper.ScrapeFailure(&scraper.StatusError{Code: status, URL: target})
	}
	if err := json.Unmarshal(body, out); err != nil {
		return scraper.ScrapeFailure(errors.Wrapf(err, "decode %s", target))
	}
	return nil
}

func firstDoseMotives(motives []visitMotive) []int64 {
	var ids []int64
	for _, m := range motives {
		name := strings.ToLower(m.Name)
		if !strings.Contains(name, "injection") && !strings.Contains(name, "dose") {
			continue
		}
		if strings.Contains(name, "1re") || strings.Contains(name, "1ère") ||
			strings.Contains(name, "première") || strings.Contains(name, "premiere") {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func openAgendas(agendas []agenda, practice int64, motives []int64) []int64 {
	wanted := make(map[int64]bool, len(motives))
	for _, id := range motives {
		wanted[id] = true
	}

	var ids []int64
	for _, a := range agendas {
		if a.BookingDisabled {
			continue
		}
		if practice != 0 && a.PracticeID != practice {
			continue
		}
		for _, id := range a.VisitMotiveIDs {
			if wanted[id] {
				ids = append(ids, a.ID)
				break
			}
		}
	}
	return ids
}

// practiceID turns "practice-1234" into 1234.
func practiceID(pid string) int64 {
	id, err := strconv.ParseInt(strings.TrimPrefix(pid, "practice-"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

// slotTime accepts both the plain string and the object slot shapes.
func slotTime(raw any) (time.Time, bool) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case map[string]any:
		s, _ = v["start_date"].(string)
	}
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
