package models

import (
	"slices"
	"strconv"
	"time"
)

// PlatformOther is reported when no registered platform claims a URL.
const PlatformOther = "Other"

type ScrapeRequest struct {
	URL       string
	StartDate string
}

type ScrapeResult struct {
	Request  ScrapeRequest
	Platform string
	SlotInfo
}

// IntervalSplitDays are the windows, in days after the start date, over which
// appointments are counted.
var IntervalSplitDays = []int{1, 2, 7, 28, 49}

// ScheduleName is the appointment_schedules key of an n-day window.
func ScheduleName(days int) string {
	return strconv.Itoa(days) + "_days"
}

// SlotInfo is what a platform knows about one booking URL. Only Next is
// mandatory; platforms that cannot count slots leave the rest zero.
type SlotInfo struct {
	NextSlot     *time.Time
	Count        int
	Schedules    map[string]int
	VaccineTypes []string
}

// AddVaccineType records name once. Empty names are ignored.
func (s *SlotInfo) AddVaccineType(name string) {
	if name == "" || slices.Contains(s.VaccineTypes, name) {
		return
	}
	s.VaccineTypes = append(s.VaccineTypes, name)
}

type Status int

const (
	StatusUnavailable Status = iota
	StatusAvailable
	StatusFailed
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusFailed:
		return "failed"
	case StatusBlocked:
		return "blocked"
	default:
		return "unavailable"
	}
}

// Outcome is what a fetch worker hands to the aggregator for one venue.
type Outcome struct {
	Center CenterInfo
	Status Status
	Err    error
}
