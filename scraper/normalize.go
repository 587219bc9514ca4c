package scraper

import (
	"net/url"
	"strings"
)

const (
	legacyKeldocPrefix = "https://www.keldoc.com/"
	keldocBookingHost  = "https://vaccination-covid.keldoc.com/"

	doctolibMarkerPrefix  = "highlight"
	doctolibConsentFlag   = "enable_cookies_consent"
	doctolibSpecialityKey = "speciality_id"
)

var doctolibPrefixes = []string{
	"https://partners.doctolib.fr",
	"https://www.doctolib.fr",
}

// NormalizeURL canonicalizes a booking URL before dispatch. It is pure and idempotent.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)

	if strings.HasPrefix(u, legacyKeldocPrefix) {
		u = keldocBookingHost + strings.TrimPrefix(u, legacyKeldocPrefix)
	}

	if hasAnyPrefix(u, doctolibPrefixes) {
		u = cleanDoctolibQuery(u)
	}

	return u
}

// cleanDoctolibQuery drops the tracking parameters and keeps every other
// pair verbatim and in order. Pairs whose key does not unescape are matched
// on the raw key.
func cleanDoctolibQuery(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	kept := make([]string, 0, strings.Count(parsed.RawQuery, "&")+1)
	for pair := range strings.SplitSeq(parsed.RawQuery, "&") {
		if pair == "" {
			continue
		}
		if isDoctolibTracking(queryKey(pair)) {
			continue
		}
		kept = append(kept, pair)
	}

	parsed.RawQuery = strings.Join(kept, "&")
	parsed.ForceQuery = false
	return parsed.String()
}

func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}

func isDoctolibTracking(key string) bool {
	return strings.HasPrefix(key, doctolibMarkerPrefix) ||
		key == doctolibConsentFlag ||
		key == doctolibSpecialityKey
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
