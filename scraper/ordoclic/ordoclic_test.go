package ordoclic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, bookable string, slots string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/public/entities/profile/pharmacie-du-centre", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"entityId": "e-1",
			"attributeValues": [{"label": "booking_ordoclic", "value": %q}],
			"publicProfessionals": [{"id": "s-1"}]}`, bookable)
	})
	mux.HandleFunc("/v1/solar/entities/e-1/reasons", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"reasons": [
			{"id": "r-1", "name": "Vaccination Covid-19", "canBookOnline": true},
			{"id": "r-2", "name": "Test antigénique", "canBookOnline": true},
			{"id": "r-3", "name": "Vaccin grippe", "canBookOnline": false}
		]}`)
	})
	mux.HandleFunc("/v1/solar/slots/availableSlotsForPublicAppointmentType", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var q slotsQuery
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &q))
		assert.Equal(t, "r-1", q.ReasonID)
		assert.Equal(t, "s-1", q.MedicalStaffID)
		fmt.Fprint(w, slots)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_FetchSlots(t *testing.T) {
	tests := []struct {
		name     string
		bookable string
		slots    string
		want     string
	}{
		{
			name:     "earliest slot",
			bookable: "true",
			slots:    `{"slots": [{"timeStart": "2024-01-05T10:00:00Z"}, {"timeStart": "2024-01-03T09:00:00Z"}]}`,
			want:     "2024-01-03T09:00:00Z",
		},
		{
			name:     "next available date",
			bookable: "true",
			slots:    `{"slots": [], "nextAvailableSlotDate": "2024-01-20T08:00:00Z"}`,
			want:     "2024-01-20T08:00:00Z",
		},
		{
			name:     "online booking disabled",
			bookable: "false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.bookable, tt.slots)
			got, err := NewFetcher(srv.URL, srv.Client()).FetchSlots(context.Background(), models.ScrapeRequest{
				URL:       "https://app.ordoclic.fr/app/pharmacie/pharmacie-du-centre",
				StartDate: "2024-01-01",
			})
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.UTC().Format(time.RFC3339))
		})
	}
}

func TestFetcher_FetchSlots_UnknownPharmacy(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewFetcher(srv.URL, srv.Client()).FetchSlots(context.Background(), models.ScrapeRequest{
		URL: "https://app.ordoclic.fr/app/pharmacie/nowhere", StartDate: "2024-01-01",
	})
	require.Error(t, err)
	assert.True(t, scraper.IsScrapeFailure(err))
	assert.Equal(t, http.StatusNotFound, scraper.StatusCode(err))
}

func TestCenters_Each(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/public/search", r.URL.Path)
		fmt.Fprint(w, `{"items": [
			{"id": "p1", "slug": "pharmacie-du-port", "nom": "Pharmacie du Port", "phone": "0102030405",
			 "location": {"zip": "20000", "city": "Ajaccio", "address": "1 quai", "coordinates": {"latitude": 41.9, "longitude": 8.7}}},
			{"id": "p2", "slug": "", "nom": "No slug"},
			{"id": "p3", "slug": "pharmacie-lagon", "nom": "Pharmacie Lagon", "location": {"zip": "97400", "city": "Saint-Denis"}}
		]}`)
	}))
	defer srv.Close()

	var got []models.VenueRecord
	err := NewCenters(srv.URL, srv.Client()).Each(context.Background(), func(v models.VenueRecord) bool {
		got = append(got, v)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p1", got[0].GID())
	assert.Equal(t, "2A", got[0].RegionCode())
	assert.Equal(t, "https://app.ordoclic.fr/app/pharmacie/pharmacie-du-port", got[0].BookingURL())
	assert.Equal(t, "drugstore", got[0].Type())
	require.NotNil(t, got[0].Location())
	assert.InDelta(t, 41.9, got[0].Location().Latitude, 1e-9)

	assert.Equal(t, "974", got[1].RegionCode())
	assert.Nil(t, got[1].Location())
}

func TestCenters_EachStopsEarly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "a", "slug": "a"}, {"id": "b", "slug": "b"}]}`)
	}))
	defer srv.Close()

	n := 0
	err := NewCenters(srv.URL, srv.Client()).Each(context.Background(), func(models.VenueRecord) bool {
		n++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
