package services

import (
	_ "embed"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed departements.yaml
var departementsYAML []byte

type Region struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Regions is the static table of recognized region codes, in publication order.
type Regions []Region

func (r Regions) Codes() []string {
	codes := make([]string, len(r))
	for i, reg := range r {
		codes[i] = reg.Code
	}
	return codes
}

var loadRegions = sync.OnceValues(func() (Regions, error) {
	return ParseRegions(departementsYAML)
})

// DefaultRegions returns the embedded département table.
func DefaultRegions() (Regions, error) {
	return loadRegions()
}

func ParseRegions(raw []byte) (Regions, error) {
	var regions Regions
	if err := yaml.Unmarshal(raw, &regions); err != nil {
		return nil, errors.Wrap(err, "parse region table")
	}
	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if r.Code == "" {
			return nil, errors.New("region table has an entry without code")
		}
		if seen[r.Code] {
			return nil, errors.Newf("duplicate region code %q", r.Code)
		}
		seen[r.Code] = true
	}
	return regions, nil
}
