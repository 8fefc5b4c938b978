package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"intake/internal/referencedata"
)

type checkEnv struct {
	country string
	now     time.Time
	refs    *referencedata.Snapshot
}

const (
	minAge = 0
	maxAge = 100
)

var (
	usZipPattern      = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	caPostalPattern   = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
	otherPostal       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,9}$`)
	nanpPhonePattern  = regexp.MustCompile(`^(\+?1[ .-]?)?\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4}$`)
	intlPhonePattern  = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)
	usSSNPattern      = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	caSINPattern      = regexp.MustCompile(`^\d{3}[ -]?\d{3}[ -]?\d{3}$`)
	usEINPattern      = regexp.MustCompile(`^\d{2}-?\d{7}$`)
	caBNPattern       = regexp.MustCompile(`^\d{9}([A-Za-z]{2}\d{4})?$`)
	genericTaxPattern = regexp.MustCompile(`^[A-Za-z0-9 -]{5,20}$`)
)

var birthDateLayouts = []string{"2006-01-02", "01/02/2006"}

func checkPostalCode(env checkEnv, value string) string {
	switch env.country {
	case referencedata.CountryUSA:
		if !usZipPattern.MatchString(value) {
			return "Zip code must be 5 digits or ZIP+4"
		}
	case referencedata.CountryCanada:
		if !caPostalPattern.MatchString(value) {
			return "Postal code must be in the format A1A 1A1"
		}
	default:
		if !otherPostal.MatchString(value) {
			return "Postal code is not valid"
		}
	}
	return ""
}

func checkPhone(env checkEnv, value string) string {
	switch env.country {
	case referencedata.CountryUSA, referencedata.CountryCanada:
		if !nanpPhonePattern.MatchString(value) {
			return "Phone number must have 10 digits"
		}
	default:
		if !intlPhonePattern.MatchString(value) {
			return "Phone number is not valid"
		}
	}
	return ""
}

func checkPersonalTaxID(env checkEnv, value string) string {
	return matchByCountry(env.country, value, usSSNPattern, caSINPattern,
		"SSN must be 9 digits", "SIN must be 9 digits", "Tax identification number is not valid")
}

func checkBusinessTaxID(env checkEnv, value string) string {
	return matchByCountry(env.country, value, usEINPattern, caBNPattern,
		"EIN must be 9 digits", "Business number must be 9 digits", "Business registration number is not valid")
}

func matchByCountry(country, value string, us, ca *regexp.Regexp, usMsg, caMsg, otherMsg string) string {
	switch country {
	case referencedata.CountryUSA:
		if !us.MatchString(value) {
			return usMsg
		}
	case referencedata.CountryCanada:
		if !ca.MatchString(value) {
			return caMsg
		}
	default:
		if !genericTaxPattern.MatchString(value) {
			return otherMsg
		}
	}
	return ""
}

// checkAge requires an age within [minAge, maxAge] at env.now.
func checkAge(env checkEnv, value string) string {
	dob, ok := parseBirthDate(value)
	if !ok {
		return "Date of birth must be YYYY-MM-DD or MM/DD/YYYY"
	}
	age := AgeAt(dob, env.now)
	if age < minAge || age > maxAge {
		return fmt.Sprintf("Age must be between %d and %d", minAge, maxAge)
	}
	return ""
}

func parseBirthDate(value string) (time.Time, bool) {
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeAt returns completed years between dob and now. It is negative for
// future dates.
func AgeAt(dob, now time.Time) int {
	if now.Before(dob) {
		return -1
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func checkAmount(_ checkEnv, value string) string {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || n < 0 {
		return "Amount must be a non-negative number"
	}
	return ""
}

func checkCountry(env checkEnv, value string) string {
	if env.refs != nil && !env.refs.HasCountry(value) {
		return "Country is not a recognized option"
	}
	return ""
}

func checkRegion(env checkEnv, value string) string {
	if env.refs != nil && !env.refs.HasRegion(env.country, value) {
		return "State or province is not valid for the selected country"
	}
	return ""
}

func checkGender(env checkEnv, value string) string {
	if env.refs != nil && !env.refs.HasGender(value) {
		return "Gender is not a recognized option"
	}
	return ""
}

func checkTobacco(env checkEnv, value string) string {
	if env.refs != nil && !env.refs.HasTobacco(value) {
		return "Tobacco status is not a recognized option"
	}
	return ""
}

func checkOccupation(env checkEnv, value string) string {
	if env.refs != nil && !env.refs.HasOccupation(value) {
		return "Occupation is not a recognized option"
	}
	return ""
}
