// Package referencedata holds the dropdown lists served by the reference-data
// service (countries, states, provinces, gender, tobacco, occupation) and the
// cache in front of it. Validation consumes a Snapshot read-only.
package referencedata

import "strings"

const (
	// CountryUSA is the reference code for the United States.
	CountryUSA = "01"
	// CountryCanada is the reference code for Canada.
	CountryCanada = "02"
)

// Entry is one {code, description} item of a dropdown list.
type Entry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Snapshot is one consistent copy of every dropdown list.
type Snapshot struct {
	Countries  []Entry `json:"countries"`
	States     []Entry `json:"states"`
	Provinces  []Entry `json:"provinces"`
	Gender     []Entry `json:"gender"`
	Tobacco    []Entry `json:"tobacco"`
	Occupation []Entry `json:"occupation"`
}

// IsEmpty reports whether no list was loaded.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Countries) == 0 && len(s.States) == 0 && len(s.Provinces) == 0 &&
		len(s.Gender) == 0 && len(s.Tobacco) == 0 && len(s.Occupation) == 0)
}

// HasCountry reports whether code is a served country. An empty list accepts everything.
func (s *Snapshot) HasCountry(code string) bool { return contains(s.Countries, code) }

// HasGender reports whether code is a served gender code.
func (s *Snapshot) HasGender(code string) bool { return contains(s.Gender, code) }

// HasTobacco reports whether code is a served tobacco status.
func (s *Snapshot) HasTobacco(code string) bool { return contains(s.Tobacco, code) }

// HasOccupation reports whether code is a served occupation.
func (s *Snapshot) HasOccupation(code string) bool { return contains(s.Occupation, code) }

// HasRegion checks a state or province code against the list for country.
// Countries without a served region list accept any value.
func (s *Snapshot) HasRegion(country, code string) bool {
	switch country {
	case CountryUSA:
		return contains(s.States, code)
	case CountryCanada:
		return contains(s.Provinces, code)
	default:
		return true
	}
}

func contains(list []Entry, code string) bool {
	if len(list) == 0 {
		return true
	}
	code = strings.TrimSpace(code)
	for _, o := range list {
		if strings.EqualFold(o.Code, code) {
			return true
		}
	}
	return false
}
