// Package ordoclic talks to the Ordoclic public API: slot lookup for a
// pharmacy page and the search listing used as a venue source.
package ordoclic

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
)

// searchDays bounds the window sent to the slot endpoint.
const searchDays = 7

type Fetcher struct {
	baseURL string
	client  *http.Client
}

func NewFetcher(baseURL string, client *http.Client) *Fetcher {
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type profile struct {
	EntityID        string `json:"entityId"`
	AttributeValues []struct {
		Label string `json:"label"`
		Value string `json:"value"`
	} `json:"attributeValues"`
	PublicProfessionals []struct {
		ID string `json:"id"`
	} `json:"publicProfessionals"`
}

func (p profile) bookable() bool {
	for _, a := range p.AttributeValues {
		if a.Label == "booking_ordoclic" {
			return a.Value == "true"
		}
	}
	return false
}

type reason struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CanBookOnline bool   `json:"canBookOnline"`
}

type slotsQuery struct {
	EntityID       string `json:"entityId"`
	MedicalStaffID string `json:"medicalStaffId"`
	ReasonID       string `json:"reasonId"`
	DateStart      string `json:"dateStart"`
	DateEnd        string `json:"dateEnd"`
}

type slotsAnswer struct {
	Slots []struct {
		TimeStart string `json:"timeStart"`
	} `json:"slots"`
	NextAvailableSlotDate string `json:"nextAvailableSlotDate"`
}

func (f *Fetcher) FetchSlots(ctx context.Context, req models.ScrapeRequest) (*time.Time, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, scraper.Scrapef("parse ordoclic url %q: %v", req.URL, err)
	}
	slug := path.Base(strings.TrimRight(u.Path, "/"))
	if slug == "" || slug == "." || slug == "/" {
		return nil, scraper.Scrapef("no ordoclic slug in %q", req.URL)
	}

	var p profile
	if err := scraper.GetJSON(ctx, f.client, f.baseURL+"/v1/public/entities/profile/"+url.PathEscape(slug), &p); err != nil {
		return nil, err
	}
	if !p.bookable() || p.EntityID == "" {
		return nil, nil
	}

	var reasons struct {
		Reasons []reason `json:"reasons"`
	}
	if err := scraper.GetJSON(ctx, f.client, f.baseURL+"/v1/solar/entities/"+url.PathEscape(p.EntityID)+"/reasons", &reasons); err != nil {
		return nil, err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, scraper.Scrapef("bad start date %q", req.StartDate)
	}

	var first *time.Time
	for _, r := range reasons.Reasons {
		if !r.CanBookOnline || !isVaccination(r.Name) {
			continue
		}
		for _, staff := range p.PublicProfessionals {
			q := slotsQuery{
				EntityID:       p.EntityID,
				MedicalStaffID: staff.ID,
				ReasonID:       r.ID,
				DateStart:      start.Format(time.RFC3339),
				DateEnd:        start.AddDate(0, 0, searchDays).Format(time.RFC3339),
			}
			var ans slotsAnswer
			if err := scraper.PostJSON(ctx, f.client, f.baseURL+"/v1/solar/slots/availableSlotsForPublicAppointmentType", q, &ans); err != nil {
				return nil, err
			}
			if t := ans.earliest(); t != nil && (first == nil || t.Before(*first)) {
				first = t
			}
		}
	}
	return first, nil
}

func isVaccination(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "vaccin") || strings.Contains(n, "covid")
}

func (a slotsAnswer) earliest() *time.Time {
	var first *time.Time
	for _, s := range a.Slots {
		t, err := time.Parse(time.RFC3339, s.TimeStart)
		if err != nil {
			continue
		}
		if first == nil || t.Before(*first) {
			first = &t
		}
	}
	if first != nil || a.NextAvailableSlotDate == "" {
		return first
	}
	if t, err := time.Parse(time.RFC3339, a.NextAvailableSlotDate); err == nil {
		return &t
	}
	return nil
}
