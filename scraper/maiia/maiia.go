// Package maiia queries the public Maiia availability API.
package maiia

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
)

const (
	// DayLimit bounds how far ahead a slot still counts.
	DayLimit  = 50
	pageLimit = 50
	// maxPages stops runaway pagination on inconsistent totals.
	maxPages = 100

	queryTimeLayout = "2006-01-02T15:04:05"
)

type Fetcher struct {
	baseURL string
	client  *http.Client
}

func NewFetcher(baseURL string, client *http.Client) *Fetcher {
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type reason struct {
	Name          string `json:"name"`
	InjectionType string `json:"injectionType"`
}

type slot struct {
	StartDateTime string `json:"startDateTime"`
}

type closest struct {
	FirstPhysicalStartDateTime string `json:"firstPhysicalStartDateTime"`
}

func (f *Fetcher) FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error) {
	info, err := f.FetchSlotInfo(ctx, req)
	return info.NextSlot, err
}

// FetchSlotInfo collects the first-injection slots of every consultation
// reason of the centre. Count and Schedules only cover reasons that have
// at least one slot, and nothing is reported when no reason has any.
func (f *Fetcher) FetchSlotInfo(ctx context.Context, req models.ScrapeRequest) (models.SlotInfo, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return models.SlotInfo{}, scraper.Scrapef("parse maiia url %q: %v", req.URL, err)
	}
	centerID := u.Query().Get("centerid")
	if centerID == "" {
		return models.SlotInfo{}, nil
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return models.SlotInfo{}, scraper.Scrapef("bad start date %q", req.StartDate)
	}
	end := start.AddDate(0, 0, DayLimit)

	reasons, err := getPaged[reason](ctx, f, "/api/pat-public/consultation-reason-hcd", url.Values{"rootCenterId": {centerID}})
	if err != nil {
		return models.SlotInfo{}, err
	}

	info := models.SlotInfo{Schedules: make(map[string]int, len(models.IntervalSplitDays))}
	for _, n := range models.IntervalSplitDays {
		info.Schedules[models.ScheduleName(n)] = 0
	}

	for _, r := range reasons {
		if r.InjectionType != "FIRST" {
			continue
		}
		slots, err := f.slots(ctx, centerID, r.Name, start, end)
		if err != nil {
			return models.SlotInfo{}, err
		}
		t := earliest(slots)
		if t == nil {
			continue
		}
		for _, n := range models.IntervalSplitDays {
			if n > DayLimit {
				continue
			}
			info.Schedules[models.ScheduleName(n)] += countSlots(slots, start, start.AddDate(0, 0, n))
		}
		info.Count += len(slots)
		if info.NextSlot == nil || t.Before(*info.NextSlot) {
			info.NextSlot = t
		}
	}
	if info.NextSlot == nil {
		return models.SlotInfo{}, nil
	}

	for _, r := range reasons {
		info.AddVaccineType(models.VaccineName(r.Name))
	}
	return info, nil
}

// slots lists availabilities in [start, end]. When that window is empty it
// asks for the closest slot and retries from there if it is within DayLimit.
func (f *Fetcher) slots(ctx context.Context, centerID, reasonName string, start, end time.Time) ([]slot, error) {
	query := func(from time.Time) url.Values {
		return url.Values{
			"centerId":               {centerID},
			"consultationReasonName": {reasonName},
			"from":                   {from.Format(queryTimeLayout)},
			"to":                     {end.Format(queryTimeLayout)},
		}
	}

	items, err := getPaged[slot](ctx, f, "/api/pat-public/availabilities", query(start))
	if err != nil || len(items) > 0 {
		return items, err
	}

	var next closest
	q := url.Values{
		"centerId":               {centerID},
		"consultationReasonName": {reasonName},
		"from":                   {start.Format(queryTimeLayout)},
	}
	if err := scraper.GetJSON(ctx, f.client, f.baseURL+"/api/pat-public/availability-closests?"+q.Encode(), &next); err != nil {
		// a missing closest slot is not a failure of the venue
		if scraper.StatusCode(err) != 0 {
			return nil, nil
		}
		return nil, err
	}
	if next.FirstPhysicalStartDateTime == "" {
		return nil, nil
	}
	nextDate, err := time.Parse(time.RFC3339, next.FirstPhysicalStartDateTime)
	if err != nil {
		return nil, scraper.Scrapef("bad firstPhysicalStartDateTime %q", next.FirstPhysicalStartDateTime)
	}
	if nextDate.Sub(start) > DayLimit*24*time.Hour {
		return nil, nil
	}

	return getPaged[slot](ctx, f, "/api/pat-public/availabilities", query(nextDate))
}

func getPaged[T any](ctx context.Context, f *Fetcher, path string, q url.Values) ([]T, error) {
	var all []T
	for pageNum := 0; pageNum < maxPages; pageNum++ {
		q.Set("limit", strconv.Itoa(pageLimit))
		q.Set("page", strconv.Itoa(pageNum))

		var p page[T]
		if err := scraper.GetJSON(ctx, f.client, f.baseURL+path+"?"+q.Encode(), &p); err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || len(all) >= p.Total {
			break
		}
	}
	return all, nil
}

// countSlots counts the slots strictly between from and to.
func countSlots(slots []slot, from, to time.Time) int {
	n := 0
	for _, s := range slots {
		t, err := time.Parse(time.RFC3339, s.StartDateTime)
		if err != nil {
			continue
		}
		if t.After(from) && t.Before(to) {
			n++
		}
	}
	return n
}

func earliest(slots []slot) *time.Time {
	var first *time.Time
	for _, s := range slots {
		t, err := time.Parse(time.RFC3339, s.StartDateTime)
		if err != nil {
			continue
		}
		if first == nil || t.Before(*first) {
			first = &t
		}
	}
	return first
}
