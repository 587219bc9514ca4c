package scraper

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(t *testing.T, fetcher SlotFetcher) *Worker {
	t.Helper()
	reg := NewRegistry(DefaultPlatforms(Fetchers{
		Doctolib: fetcher,
		Keldoc:   fetcher,
		Maiia:    fetcher,
		Ordoclic: fetcher,
	})...)
	return NewWorker(reg, "2024-01-01", discardLogger())
}

func TestWorker_Process(t *testing.T) {
	slot := time.Date(2024, 1, 5, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name       string
		venue      models.VenueRecord
		setup      func(m *mocks.MockSlotFetcher)
		wantStatus models.Status
		wantSlot   bool
		wantErr    bool
		wantURL    string
		wantPlat   string
	}{
		{
			name:  "slot found",
			venue: models.VenueRecord{"gid": 1.0, "nom": " Centre A ", "rdv_site_web": "https://www.doctolib.fr/Centre/X?highlight=foo&speciality_id=5", "departement": "75"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), models.ScrapeRequest{URL: "https://www.doctolib.fr/Centre/X", StartDate: "2024-01-01"}).Return(&slot, nil)
			},
			wantStatus: models.StatusAvailable,
			wantSlot:   true,
			wantURL:    "https://www.doctolib.fr/centre/x",
			wantPlat:   PlatformDoctolib,
		},
		{
			name:  "no slot",
			venue: models.VenueRecord{"gid": "2", "nom": "B", "rdv_site_web": "https://www.maiia.com/c?centerid=1", "departement": "13"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantStatus: models.StatusUnavailable,
			wantURL:    "https://www.maiia.com/c?centerid=1",
			wantPlat:   PlatformMaiia,
		},
		{
			name:  "scrape failure",
			venue: models.VenueRecord{"gid": "3", "nom": "C", "rdv_site_web": "https://www.maiia.com/c?centerid=2", "departement": "13"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), gomock.Any()).Return(nil, Scrapef("unexpected schema"))
			},
			wantStatus: models.StatusFailed,
			wantErr:    true,
			wantURL:    "https://www.maiia.com/c?centerid=2",
			wantPlat:   PlatformMaiia,
		},
		{
			name:  "blocked",
			venue: models.VenueRecord{"gid": "4", "nom": "D", "rdv_site_web": "https://partners.doctolib.fr/c", "departement": "69"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), gomock.Any()).Return(nil, Blockedf("doctolib returned 403"))
			},
			wantStatus: models.StatusBlocked,
			wantErr:    true,
			wantURL:    "https://partners.doctolib.fr/c",
			wantPlat:   PlatformDoctolib,
		},
		{
			name:  "unclassified error",
			venue: models.VenueRecord{"gid": "5", "nom": "E", "rdv_site_web": "https://app.ordoclic.fr/app/pharmacie/e", "departement": "01"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			wantStatus: models.StatusFailed,
			wantErr:    true,
			wantURL:    "https://app.ordoclic.fr/app/pharmacie/e",
			wantPlat:   PlatformOrdoclic,
		},
		{
			name:  "panic inside fetcher",
			venue: models.VenueRecord{"gid": "6", "nom": "F", "rdv_site_web": "https://vaccination-covid.keldoc.com/f", "departement": "33"},
			setup: func(m *mocks.MockSlotFetcher) {
				m.EXPECT().FetchSlots(gomock.Any(), gomock.Any()).DoAndReturn(
					func(context.Context, models.ScrapeRequest) (*time.Time, error) {
						panic("boom")
					})
			},
			wantStatus: models.StatusFailed,
			wantErr:    true,
			wantURL:    "https://vaccination-covid.keldoc.com/f",
			wantPlat:   PlatformKeldoc,
		},
		{
			name:       "unknown platform",
			venue:      models.VenueRecord{"gid": "7", "nom": "G", "rdv_site_web": "HTTPS://Mairie.example/RDV", "departement": "33", "type": "drugstore"},
			setup:      func(m *mocks.MockSlotFetcher) {},
			wantStatus: models.StatusUnavailable,
			wantURL:    "https://mairie.example/rdv",
			wantPlat:   models.PlatformOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockSlotFetcher(ctrl)
			tt.setup(fetcher)

			out := newTestWorker(t, fetcher).Process(context.Background(), tt.venue)

			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantErr, out.Err != nil)
			assert.Equal(t, tt.wantSlot, out.Center.NextSlot != nil)
			assert.Equal(t, tt.wantURL, out.Center.URL)
			assert.Equal(t, tt.wantPlat, out.Center.Platform)
			assert.Equal(t, tt.venue.RegionCode(), out.Center.RegionCode)
		})
	}
}

func TestWorker_Process_FillsCenterFields(t *testing.T) {
	w := newTestWorker(t, nil)

	out := w.Process(context.Background(), models.VenueRecord{
		"gid":          12345.0,
		"nom":          "  Centre de vaccination  ",
		"rdv_site_web": "https://mairie.example/rdv",
		"departement":  "75",
		"long_coor1":   "2.35",
		"lat_coor1":    "48.85",
		"com_nom":      "Paris",
		"com_cp":       "75001",
		"rdv_tel":      "01 02 03 04 05",
	})

	require.NotNil(t, out.Center.Location)
	assert.Equal(t, "12345", out.Center.GID)
	assert.Equal(t, "Centre de vaccination", out.Center.Name)
	assert.Equal(t, models.VaccinationCenter, out.Center.Type)
	assert.InDelta(t, 2.35, out.Center.Location.Longitude, 1e-9)
	assert.Equal(t, "Paris", out.Center.Location.City)
	require.NotNil(t, out.Center.Metadata)
	assert.Equal(t, "01 02 03 04 05", out.Center.Metadata.PhoneNumber)
	assert.Equal(t, "75001 Paris", out.Center.Metadata.Address)
}

func TestWorker_Process_CarriesSlotCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := countingFetcher{mocks.NewMockSlotFetcher(ctrl), mocks.NewMockSlotInfoFetcher(ctrl)}

	slot := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	fetcher.MockSlotInfoFetcher.EXPECT().FetchSlotInfo(gomock.Any(), gomock.Any()).Return(models.SlotInfo{
		NextSlot:     &slot,
		Count:        12,
		Schedules:    map[string]int{"1_days": 0, "2_days": 4},
		VaccineTypes: []string{models.VaccineModerna},
	}, nil)

	venue := models.VenueRecord{"gid": "8", "nom": "H", "rdv_site_web": "https://www.maiia.com/c?centerid=8", "departement": "59"}
	out := newTestWorker(t, fetcher).Process(context.Background(), venue)

	assert.Equal(t, models.StatusAvailable, out.Status)
	assert.Equal(t, 12, out.Center.AppointmentCount)
	assert.Equal(t, map[string]int{"1_days": 0, "2_days": 4}, out.Center.AppointmentSchedules)
	assert.Equal(t, []string{models.VaccineModerna}, out.Center.VaccineType)
}
