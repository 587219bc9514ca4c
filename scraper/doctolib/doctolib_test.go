package doctolib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
	"vaccine-slot-scraper/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	answers map[string]fakeAnswer
	calls   []string
}

type fakeAnswer struct {
	status int
	body   string
}

func (g *fakeGetter) Get(_ context.Context, target string) (int, []byte, error) {
	g.calls = append(g.calls, target)
	u, _ := url.Parse(target)
	key := u.Path
	if d := u.Query().Get("start_date"); d != "" {
		key += "@" + d
	}
	a, ok := g.answers[key]
	if !ok {
		return http.StatusNotFound, nil, nil
	}
	return a.status, []byte(a.body), nil
}

const bookingJSON = `{"data": {
	"visit_motives": [
		{"id": 1, "name": "1re injection vaccin COVID-19 (Pfizer-BioNTech)"},
		{"id": 2, "name": "2nde injection vaccin COVID-19 (Pfizer-BioNTech)"},
		{"id": 3, "name": "Consultation"}
	],
	"agendas": [
		{"id": 10, "practice_id": 100, "booking_disabled": false, "visit_motive_ids": [1, 2]},
		{"id": 11, "practice_id": 200, "booking_disabled": false, "visit_motive_ids": [1]},
		{"id": 12, "practice_id": 100, "booking_disabled": true, "visit_motive_ids": [1]}
	]
}}`

func TestFetcher_FetchSlots_EarliestSlot(t *testing.T) {
	g := &fakeGetter{answers: map[string]fakeAnswer{
		"/booking/centre-x.json": {200, bookingJSON},
		"/availabilities.json@2024-01-01": {200, `{"availabilities": [
			{"date": "2024-01-01", "slots": []},
			{"date": "2024-01-02", "slots": ["2024-01-02T14:00:00.000+01:00", {"start_date": "2024-01-02T09:30:00.000+01:00"}]}
		]}`},
	}}

	f := NewFetcher("https://partners.doctolib.fr/", g)
	got, err := f.FetchSlots(context.Background(), models.ScrapeRequest{
		URL:       "https://partners.doctolib.fr/centre-de-sante/paris/centre-x?pid=practice-100",
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)))

	require.Len(t, g.calls, 2)
	q, _ := url.Parse(g.calls[1])
	assert.Equal(t, "10", q.Query().Get("agenda_ids"), "only the open agenda of the selected practice")
	assert.Equal(t, "1", q.Query().Get("visit_motive_ids"))
}

func TestFetcher_FetchSlots_FollowsNextSlot(t *testing.T) {
	g := &fakeGetter{answers: map[string]fakeAnswer{
		"/booking/centre-x.json":          {200, bookingJSON},
		"/availabilities.json@2024-01-01": {200, `{"availabilities": [], "next_slot": "2024-02-10"}`},
		"/availabilities.json@2024-02-10": {200, `{"availabilities": [{"date": "2024-02-10", "slots": ["2024-02-10T08:00:00+01:00"]}]}`},
	}}

	got, err := NewFetcher("https://partners.doctolib.fr", g).FetchSlots(context.Background(), models.ScrapeRequest{
		URL:       "https://www.doctolib.fr/centre-de-sante/paris/centre-x",
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-02-10T08:00:00+01:00", got.Format(time.RFC3339))
}

func TestFetcher_FetchSlots_NoMatchingMotive(t *testing.T) {
	g := &fakeGetter{answers: map[string]fakeAnswer{
		"/booking/centre-x.json": {200, `{"data": {"visit_motives": [{"id": 3, "name": "Consultation"}], "agendas": []}}`},
	}}

	got, err := NewFetcher("https://partners.doctolib.fr", g).FetchSlots(context.Background(), models.ScrapeRequest{
		URL: "https://www.doctolib.fr/centre-x", StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Len(t, g.calls, 1)
}

func TestFetcher_FetchSlots_Failures(t *testing.T) {
	tests := []struct {
		name        string
		answer      fakeAnswer
		wantBlocked bool
	}{
		{name: "forbidden means blocked", answer: fakeAnswer{403, "<html>cloudflare</html>"}, wantBlocked: true},
		{name: "server error", answer: fakeAnswer{502, ""}},
		{name: "unexpected schema", answer: fakeAnswer{200, "<html>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGetter{answers: map[string]fakeAnswer{"/booking/centre-x.json": tt.answer}}
			_, err := NewFetcher("https://partners.doctolib.fr", g).FetchSlots(context.Background(), models.ScrapeRequest{
				URL: "https://www.doctolib.fr/centre-x", StartDate: "2024-01-01",
			})
			require.Error(t, err)
			assert.True(t, scraper.IsScrapeFailure(err))
			assert.Equal(t, tt.wantBlocked, scraper.IsBlocked(err))
		})
	}
}

func TestHTTPGetter_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "Mozilla/5.0"))
		assert.Equal(t, utils.FrenchAcceptLanguage, r.Header.Get("Accept-Language"))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	}))
	defer srv.Close()

	status, body, err := HTTPGetter{Client: srv.Client()}.Get(context.Background(), srv.URL+"/booking/x.json")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "denied", string(body))
}
