package sources

import (
	"strconv"
	"strings"

	"vaccine-slot-scraper/models"

	"github.com/cockroachdb/errors"
)

// DepartementFromPostalCode maps a French postal code to its département.
// Corsica (20xxx) splits at 20200, overseas codes (97x) keep three digits.
func DepartementFromPostalCode(cp string) (string, error) {
	cp = strings.TrimSpace(cp)
	if len(cp) == 4 {
		cp = "0" + cp
	}
	if len(cp) != 5 {
		return "", errors.Newf("invalid postal code %q", cp)
	}
	n, err := strconv.Atoi(cp)
	if err != nil {
		return "", errors.Newf("invalid postal code %q", cp)
	}
	switch {
	case strings.HasPrefix(cp, "20"):
		if n < 20200 {
			return "2A", nil
		}
		return "2B", nil
	case strings.HasPrefix(cp, "97"):
		return cp[:3], nil
	default:
		return cp[:2], nil
	}
}

// DepartementFromINSEE maps an INSEE commune code to its département.
func DepartementFromINSEE(insee string) (string, error) {
	insee = strings.ToUpper(strings.TrimSpace(insee))
	if len(insee) == 4 {
		insee = "0" + insee
	}
	if len(insee) != 5 {
		return "", errors.Newf("invalid INSEE code %q", insee)
	}
	switch {
	case strings.HasPrefix(insee, "2A"), strings.HasPrefix(insee, "2B"):
		return insee[:2], nil
	case strings.HasPrefix(insee, "97"):
		return insee[:3], nil
	}
	if _, err := strconv.Atoi(insee); err != nil {
		return "", errors.Newf("invalid INSEE code %q", insee)
	}
	return insee[:2], nil
}

// fillRegion sets "departement" from com_insee, then com_cp, when the record
// lacks it. Records that cannot be placed keep an empty region and are
// dropped at aggregation.
func fillRegion(v models.VenueRecord) {
	if v.RegionCode() != "" {
		return
	}
	if d, err := DepartementFromINSEE(v.Field("com_insee")); err == nil {
		v["departement"] = d
		return
	}
	if d, err := DepartementFromPostalCode(v.Field("com_cp")); err == nil {
		v["departement"] = d
	}
}
