package models

import (
	"fmt"
	"strconv"
	"strings"
)

// VenueRecord is one raw venue row as produced by a venue source.
// Keys follow the public centres feed (gid, nom, rdv_site_web, departement, ...).
type VenueRecord map[string]any

func (v VenueRecord) field(key string) string {
	raw, ok := v[key]
	if !ok || raw == nil {
		return ""
	}
	switch val := raw.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Field returns the trimmed string form of any field, "" when absent.
func (v VenueRecord) Field(key string) string { return v.field(key) }

func (v VenueRecord) GID() string        { return v.field("gid") }
func (v VenueRecord) Name() string       { return v.field("nom") }
func (v VenueRecord) BookingURL() string { return v.field("rdv_site_web") }
func (v VenueRecord) RegionCode() string { return v.field("departement") }
func (v VenueRecord) Type() string       { return v.field("type") }

// Location returns the coordinates block, nil when the record carries none.
func (v VenueRecord) Location() *Location {
	lon, errLon := strconv.ParseFloat(v.field("long_coor1"), 64)
	lat, errLat := strconv.ParseFloat(v.field("lat_coor1"), 64)
	if errLon != nil || errLat != nil {
		return nil
	}
	return &Location{
		Longitude: lon,
		Latitude:  lat,
		City:      v.field("com_nom"),
		CP:        v.field("com_cp"),
	}
}

// Metadata returns address, phone and opening hours when any of them is set.
func (v VenueRecord) Metadata() *Metadata {
	parts := make([]string, 0, 4)
	for _, key := range []string{"adr_num", "adr_voie", "com_cp", "com_nom"} {
		if s := v.field(key); s != "" {
			parts = append(parts, s)
		}
	}

	hours := make(map[string]string)
	for _, day := range []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"} {
		if s := v.field("rdv_" + day); s != "" {
			hours[day] = s
		}
	}

	meta := &Metadata{
		Address:     strings.Join(parts, " "),
		PhoneNumber: v.field("rdv_tel"),
	}
	if len(hours) > 0 {
		meta.BusinessHours = hours
	}
	if meta.Address == "" && meta.PhoneNumber == "" && meta.BusinessHours == nil {
		return nil
	}
	return meta
}
