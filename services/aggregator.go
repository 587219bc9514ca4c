package services

import (
	"sort"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/utils"
)

// Stats are the run-level counters the verdict is taken from.
type Stats struct {
	Total     int // every outcome, recognized region or not
	Available int
	Blocked   int
	Dropped   int // outcomes whose region code is not in the table
}

// Report is the full set of region snapshots for one run.
type Report struct {
	Codes     []string
	Snapshots map[string]*models.RegionSnapshot
	Stats     Stats
}

// Aggregate partitions outcomes into one snapshot per known region. It is
// the only place snapshots are built; they are fresh on every call.
func Aggregate(outcomes []models.Outcome, regions Regions, now time.Time) Report {
	report := Report{
		Codes:     regions.Codes(),
		Snapshots: make(map[string]*models.RegionSnapshot, len(regions)),
	}
	for _, code := range report.Codes {
		report.Snapshots[code] = &models.RegionSnapshot{
			Version:     models.SnapshotVersion,
			LastUpdated: now,
			Available:   []models.CenterInfo{},
			Unavailable: []models.CenterInfo{},
		}
	}

	for _, out := range outcomes {
		report.Stats.Total++
		center := out.Center

		snap, ok := report.Snapshots[center.RegionCode]
		if !ok {
			report.Stats.Dropped++
			utils.Warn("Centre %q (%s) has no known département, dropped", center.Name, center.RegionCode)
			continue
		}

		if center.NextSlot != nil {
			report.Stats.Available++
			snap.Available = append(snap.Available, center)
			continue
		}

		snap.Unavailable = append(snap.Unavailable, center)
		if out.Status == models.StatusBlocked {
			snap.Blocked = true
			report.Stats.Blocked++
		}
	}

	for _, snap := range report.Snapshots {
		sortBySlot(snap.Available)
	}
	return report
}

// sortBySlot orders by next slot, missing slots first, keeping input order on ties.
func sortBySlot(centers []models.CenterInfo) {
	sort.SliceStable(centers, func(i, j int) bool {
		a, b := centers[i].NextSlot, centers[j].NextSlot
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
}
