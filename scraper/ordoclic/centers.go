package ordoclic

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/scraper"
	"vaccine-slot-scraper/sources"
)

const (
	searchPageSize = 500
	maxSearchPages = 40
	bookingBaseURL = "https://app.ordoclic.fr/app/pharmacie/"
)

// Centers lists the pharmacies that publish Covid vaccination online.
type Centers struct {
	baseURL string
	client  *http.Client
}

var _ sources.Source = (*Centers)(nil)

func NewCenters(baseURL string, client *http.Client) *Centers {
	return &Centers{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *Centers) Name() string { return "ordoclic" }

type searchItem struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Nom      string `json:"nom"`
	Phone    string `json:"phone"`
	Location struct {
		Zip         string `json:"zip"`
		City        string `json:"city"`
		Address     string `json:"address"`
		Coordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"coordinates"`
	} `json:"location"`
}

type searchAnswer struct {
	Items []searchItem `json:"items"`
}

func (c *Centers) Each(ctx context.Context, yield func(models.VenueRecord) bool) error {
	for page := 1; page <= maxSearchPages; page++ {
		body := map[string]string{
			"page":                           strconv.Itoa(page),
			"per_page":                       strconv.Itoa(searchPageSize),
			"in.isPublicProfile":             "true",
			"in.isCovidVaccineSupported":     "true",
			"or.covidOnlineBookingAvailable": "true",
		}
		var ans searchAnswer
		if err := scraper.PostJSON(ctx, c.client, c.baseURL+"/v1/public/search", body, &ans); err != nil {
			return err
		}
		for _, item := range ans.Items {
			if item.Slug == "" {
				continue
			}
			if !yield(toVenue(item)) {
				return nil
			}
		}
		if len(ans.Items) < searchPageSize {
			return nil
		}
	}
	return nil
}

func toVenue(item searchItem) models.VenueRecord {
	v := models.VenueRecord{
		"gid":          item.ID,
		"nom":          item.Nom,
		"rdv_site_web": bookingBaseURL + item.Slug,
		"com_cp":       item.Location.Zip,
		"com_nom":      item.Location.City,
		"adr_voie":     item.Location.Address,
		"rdv_tel":      item.Phone,
		"type":         "drugstore",
	}
	if lat, lon := item.Location.Coordinates.Latitude, item.Location.Coordinates.Longitude; lat != 0 || lon != 0 {
		v["lat_coor1"] = lat
		v["long_coor1"] = lon
	}
	if d, err := sources.DepartementFromPostalCode(item.Location.Zip); err == nil {
		v["departement"] = d
	}
	return v
}
