package models

import "time"

// VaccinationCenter is the venue type used when a source does not provide one.
const VaccinationCenter = "vaccination-center"

type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	City      string  `json:"city,omitempty"`
	CP        string  `json:"cp,omitempty"`
}

type Metadata struct {
	Address       string            `json:"address,omitempty"`
	PhoneNumber   string            `json:"phone_number,omitempty"`
	BusinessHours map[string]string `json:"business_hours,omitzero"`
}

// CenterInfo is the published view of one venue.
type CenterInfo struct {
	GID                  string         `json:"gid,omitempty"`
	RegionCode           string         `json:"departement"`
	Name                 string         `json:"nom"`
	URL                  string         `json:"url"`
	Location             *Location      `json:"location"`
	Metadata             *Metadata      `json:"metadata,omitzero"`
	NextSlot             *time.Time     `json:"prochain_rdv"`
	Platform             string         `json:"plateforme"`
	Type                 string         `json:"type"`
	AppointmentCount     int            `json:"appointment_count"`
	AppointmentSchedules map[string]int `json:"appointment_schedules,omitzero"`
	VaccineType          []string       `json:"vaccine_type,omitzero"`
}

// NewCenterInfo copies the publishable fields of a venue record.
func NewCenterInfo(v VenueRecord) CenterInfo {
	return CenterInfo{
		GID:        v.GID(),
		RegionCode: v.RegionCode(),
		Name:       v.Name(),
		URL:        v.BookingURL(),
		Location:   v.Location(),
		Metadata:   v.Metadata(),
		Type:       v.Type(),
	}
}

// RegionSnapshot is the document published for one région code.
// It is rebuilt from scratch on every run.
type RegionSnapshot struct {
	Version     int          `json:"version"`
	LastUpdated time.Time    `json:"last_updated"`
	Available   []CenterInfo `json:"centres_disponibles"`
	Unavailable []CenterInfo `json:"centres_indisponibles"`
	Blocked     bool         `json:"'doctolib_bloqué',omitzero"`
}

const SnapshotVersion = 1
