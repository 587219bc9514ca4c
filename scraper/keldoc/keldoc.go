// Package keldoc queries the Keldoc patient booking API.
package keldoc

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
)

// timetableDays is the width of the window asked to the timetable endpoint.
const timetableDays = 7

type Fetcher struct {
	baseURL string
	client  *http.Client
}

func NewFetcher(baseURL string, client *http.Client) *Fetcher {
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type resource struct {
	ID       int64 `json:"id"`
	Cabinets []struct {
		ID        int64   `json:"id"`
		AgendaIDs []int64 `json:"agenda_ids"`
	} `json:"cabinets"`
}

type timetable struct {
	Date           string `json:"date"`
	Availabilities map[string][]struct {
		StartTime string `json:"start_time"`
	} `json:"availabilities"`
}

// FetchSlots expects booking URLs shaped like
// https://vaccination-covid.keldoc.com/{type}/{location}/{slug}?cabinet=ID
func (f *Fetcher) FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, scraper.Scrapef("parse keldoc url %q: %v", req.URL, err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 3 {
		return nil, scraper.Scrapef("unexpected keldoc path %q", u.Path)
	}

	q := url.Values{
		"type":     {segments[0]},
		"location": {segments[1]},
		"slug":     {segments[2]},
	}
	var res resource
	if err := scraper.GetJSON(ctx, f.client, f.baseURL+"/api/patients/v2/searches/resource?"+q.Encode(), &res); err != nil {
		return nil, err
	}

	cabinet, _ := strconv.ParseInt(u.Query().Get("cabinet"), 10, 64)
	agendas := agendaIDs(res, cabinet)
	if len(agendas) == 0 {
		return nil, nil
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, scraper.Scrapef("bad start date %q", req.StartDate)
	}

	tq := url.Values{
		"from": {start.Format("2006-01-02")},
		"to":   {start.AddDate(0, 0, timetableDays).Format("2006-01-02")},
	}
	parts := make([]string, len(agendas))
	for i, id := range agendas {
		s := strconv.FormatInt(id, 10)
		parts[i] = s
		tq.Add("agenda_ids[]", s)
	}

	var tt timetable
	if err := scraper.GetJSON(ctx, f.client, f.baseURL+"/api/patients/v2/timetables/"+strings.Join(parts, ",")+"?"+tq.Encode(), &tt); err != nil {
		return nil, err
	}
	return earliest(tt), nil
}

func agendaIDs(res resource, cabinet int64) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, c := range res.Cabinets {
		if cabinet != 0 && c.ID != cabinet {
			continue
		}
		for _, id := range c.AgendaIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// earliest prefers a concrete slot; "date" only announces the next open day.
func earliest(tt timetable) *time.Time {
	var first *time.Time
	for _, slots := range tt.Availabilities {
		for _, s := range slots {
			t, err := time.Parse(time.RFC3339, s.StartTime)
			if err != nil {
				continue
			}
			if first == nil || t.Before(*first) {
				first = &t
			}
		}
	}
	if first != nil || tt.Date == "" {
		return first
	}
	if t, err := time.Parse(time.RFC3339, tt.Date); err == nil {
		return &t
	}
	return nil
}
