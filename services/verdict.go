package services

// ExitCode is the process status a run ends with.
type ExitCode int

const (
	ExitOK             ExitCode = 0
	ExitNoAvailability ExitCode = 1
	ExitBlocked        ExitCode = 2
	// ExitPublishFailed means the snapshots could not be written; the
	// verdict of the scrape itself is unknown to the caller.
	ExitPublishFailed ExitCode = 3
)

// DefaultBlockedThreshold is the number of blocked venues a run tolerates.
const DefaultBlockedThreshold = 10

// Verdict checks blocking first: a blocked run usually also shows no
// availability, and must be reported as blocked.
func Verdict(stats Stats, blockedThreshold int) ExitCode {
	switch {
	case stats.Blocked > blockedThreshold:
		return ExitBlocked
	case stats.Available == 0:
		return ExitNoAvailability
	default:
		return ExitOK
	}
}

func (c ExitCode) String() string {
	switch c {
	case ExitBlocked:
		return "blocked"
	case ExitPublishFailed:
		return "publish-failed"
	case ExitNoAvailability:
		return "no-availability"
	default:
		return "ok"
	}
}
