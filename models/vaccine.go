package models

import "strings"

const (
	VaccinePfizer      = "Pfizer-BioNTech"
	VaccineModerna     = "Moderna"
	VaccineARNm        = "ARNm"
	VaccineAstraZeneca = "AstraZeneca"
	VaccineJanssen     = "Janssen"
)

// vaccineKeywords is checked in order; the first keyword found in a
// consultation reason decides the vaccine.
var vaccineKeywords = []struct {
	vaccine  string
	keywords []string
}{
	{VaccinePfizer, []string{"pfizer", "biontech"}},
	{VaccineModerna, []string{"moderna"}},
	{VaccineARNm, []string{"arnm", "arn-m", "arn m"}},
	{VaccineAstraZeneca, []string{"astrazeneca", "astra-zeneca", "astra zeneca"}},
	{VaccineJanssen, []string{"janssen", "jansen", "johnson", "j&j"}},
}

// VaccineName guesses the vaccine from a free-text consultation reason.
// It returns "" when nothing matches.
func VaccineName(reason string) string {
	reason = strings.ToLower(strings.TrimSpace(reason))
	if reason == "" {
		return ""
	}
	for _, v := range vaccineKeywords {
		for _, kw := range v.keywords {
			if strings.Contains(reason, kw) {
				return v.vaccine
			}
		}
	}
	return ""
}
