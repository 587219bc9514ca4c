package scraper

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "legacy keldoc host is rewritten",
			in:   "https://www.keldoc.com/cabinet-medical/paris-75001/centre-x?specialty=144&cabinet=12",
			want: "https://vaccination-covid.keldoc.com/cabinet-medical/paris-75001/centre-x?specialty=144&cabinet=12",
		},
		{
			name: "doctolib tracking and speciality parameters are dropped",
			in:   "https://www.doctolib.fr/x?highlight=foo&speciality_id=5",
			want: "https://www.doctolib.fr/x",
		},
		{
			name: "doctolib partners keeps other parameters including repeated ones",
			in:   "https://partners.doctolib.fr/centre/paris/c?pid=practice-1&highlight%5Bspeciality_ids%5D%5B%5D=5&enable_cookies_consent=1&speciality_id=5&motive=a&motive=b",
			want: "https://partners.doctolib.fr/centre/paris/c?pid=practice-1&motive=a&motive=b",
		},
		{
			name: "doctolib values with semicolons are kept",
			in:   "https://www.doctolib.fr/x?pid=practice-1;2&highlight=1",
			want: "https://www.doctolib.fr/x?pid=practice-1;2",
		},
		{
			name: "doctolib values with a dangling percent are kept",
			in:   "https://www.doctolib.fr/x?pid=100%&highlight=1",
			want: "https://www.doctolib.fr/x?pid=100%",
		},
		{
			name: "doctolib values with invalid escapes are kept",
			in:   "https://www.doctolib.fr/x?ref=a%zzb&speciality_id=5",
			want: "https://www.doctolib.fr/x?ref=a%zzb",
		},
		{
			name: "doctolib undecodable tracking key is still dropped",
			in:   "https://www.doctolib.fr/x?highlight%zz=1&pid=7",
			want: "https://www.doctolib.fr/x?pid=7",
		},
		{
			name: "doctolib empty pairs are skipped",
			in:   "https://www.doctolib.fr/x?&pid=7&&enable_cookies_consent=1&",
			want: "https://www.doctolib.fr/x?pid=7",
		},
		{
			name: "doctolib fragment survives",
			in:   "https://www.doctolib.fr/x?speciality_id=5&pid=7#agenda",
			want: "https://www.doctolib.fr/x?pid=7#agenda",
		},
		{
			name: "blank doctolib values survive",
			in:   "https://www.doctolib.fr/c?a=&highlightx=1",
			want: "https://www.doctolib.fr/c?a=",
		},
		{
			name: "other urls are only trimmed",
			in:   "  https://www.maiia.com/centre?centerid=ABC&highlight=1 ",
			want: "https://www.maiia.com/centre?centerid=ABC&highlight=1",
		},
		{
			name: "empty string",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeURL(got), "normalizing twice must not change the result")
		})
	}
}

func TestNormalizeURL_DoctolibRemovesExactlyTrackingParameters(t *testing.T) {
	in := "https://www.doctolib.fr/centre-de-sante/lyon/cs?pid=practice-9&highlight=1&highlight_foo=2&enable_cookies_consent=1&speciality_id=5&insurance_sector=public&agenda=1&agenda=2"

	got, err := url.Parse(NormalizeURL(in))
	require.NoError(t, err)

	assert.Equal(t, "/centre-de-sante/lyon/cs", got.Path)
	assert.Equal(t, url.Values{
		"pid":              {"practice-9"},
		"insurance_sector": {"public"},
		"agenda":           {"1", "2"},
	}, got.Query())
}

func TestNormalizeURL_LegacyKeldocIsIdempotent(t *testing.T) {
	paths := []string{"", "a", "a/b?c=d", "centre?specialty=1#frag"}
	for _, p := range paths {
		once := NormalizeURL(legacyKeldocPrefix + p)
		assert.Equal(t, keldocBookingHost+p, once)
		assert.Equal(t, once, NormalizeURL(once))
	}
}
