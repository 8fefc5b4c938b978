package validation

import (
	"fmt"
	"regexp"
	"strings"

	"intake/internal/party"
)

// RuleSet names one static rule table.
type RuleSet string

const (
	RuleSetIndividual RuleSet = "individual"
	RuleSetCorporate  RuleSet = "corporate"
	RuleSetOccupation RuleSet = "occupation"
	RuleSetContact    RuleSet = "contact"
	RuleSetAddress    RuleSet = "address"
)

// RuleSetFor resolves the rule table for a party kind and section. The
// details section is the only polymorphic one.
func RuleSetFor(kind party.Kind, section party.Section) RuleSet {
	switch section {
	case party.SectionDetails:
		if kind == party.KindCorporate {
			return RuleSetCorporate
		}
		return RuleSetIndividual
	case party.SectionOccupation:
		return RuleSetOccupation
	case party.SectionContact:
		return RuleSetContact
	default:
		return RuleSetAddress
	}
}

// ParseRuleSet accepts rule-set names and section names, including the
// ownerDetails alias, which resolves against kind.
func ParseRuleSet(name string, kind party.Kind) (RuleSet, bool) {
	switch rs := RuleSet(strings.TrimSpace(name)); rs {
	case RuleSetIndividual, RuleSetCorporate, RuleSetOccupation, RuleSetContact, RuleSetAddress:
		return rs, true
	}
	section, err := party.ParseSection(name)
	if err != nil {
		return "", false
	}
	return RuleSetFor(kind, section), true
}

// rule is one row of the table. Checks run in order: presence, min length,
// pattern, then the custom check.
type rule struct {
	label    string
	required bool
	minLen   int
	pattern  *regexp.Regexp
	custom   func(env checkEnv, value string) string
}

func (r rule) check(env checkEnv, raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		if r.required {
			return fmt.Sprintf("%s is required", r.label)
		}
		return ""
	}
	if r.minLen > 0 && len([]rune(value)) < r.minLen {
		return fmt.Sprintf("%s must be at least %d characters", r.label, r.minLen)
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		return fmt.Sprintf("%s is not valid", r.label)
	}
	if r.custom != nil {
		return r.custom(env, value)
	}
	return ""
}

var (
	namePattern  = regexp.MustCompile(`^[\p{L}][\p{L}' .-]*$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)
)

var ruleTable = map[RuleSet]map[string]rule{
	RuleSetIndividual: {
		party.FieldFirstName:          {label: "First name", required: true, minLen: 2, pattern: namePattern},
		party.FieldLastName:           {label: "Last name", required: true, minLen: 2, pattern: namePattern},
		party.FieldDateOfBirth:        {label: "Date of birth", required: true, custom: checkAge},
		party.FieldGender:             {label: "Gender", required: true, custom: checkGender},
		party.FieldTobaccoStatus:      {label: "Tobacco status", required: true, custom: checkTobacco},
		party.FieldCitizenshipCountry: {label: "Citizenship country", required: true, custom: checkCountry},
		party.FieldStateOrProvince:    {label: "State or province", required: true, custom: checkRegion},
		party.FieldSSN:                {label: "Tax identification number", required: true, custom: checkPersonalTaxID},
	},
	RuleSetOccupation: {
		party.FieldEmployer:     {label: "Employer", required: true, minLen: 2},
		party.FieldOccupation:   {label: "Occupation", required: true, custom: checkOccupation},
		party.FieldNetWorth:     {label: "Net worth", required: true, custom: checkAmount},
		party.FieldAnnualIncome: {label: "Annual income", required: true, custom: checkAmount},
	},
	RuleSetCorporate: {
		party.FieldCompanyName:                {label: "Company name", required: true, minLen: 2},
		party.FieldRegisteredCountry:          {label: "Registered country", required: true, custom: checkCountry},
		party.FieldRegisteredState:            {label: "Registered state", required: true, custom: checkRegion},
		party.FieldBusinessRegistrationNumber: {label: "Business registration number", required: true, custom: checkBusinessTaxID},
		party.FieldBusinessType:               {label: "Business type", required: true},
		party.FieldRelationshipToInsured:      {label: "Relationship to insured", required: true},
	},
	RuleSetContact: {
		party.FieldEmail:       {label: "Email", required: true, pattern: emailPattern},
		party.FieldPhoneNumber: {label: "Phone number", required: true, custom: checkPhone},
	},
	RuleSetAddress: {
		party.FieldAddressLine1:        {label: "Address line 1", required: true, minLen: 3},
		party.FieldAddressCity:         {label: "City", required: true, minLen: 2},
		party.FieldAddressCountry:      {label: "Country", required: true, custom: checkCountry},
		party.FieldAddressState:        {label: "State", required: true, custom: checkRegion},
		party.FieldAddressZipCode:      {label: "Zip code", required: true, custom: checkPostalCode},
		party.FieldMailingAddressLine1: {label: "Mailing address line 1", required: true, minLen: 3},
		party.FieldMailingCity:         {label: "Mailing city", required: true, minLen: 2},
		party.FieldMailingCountry:      {label: "Mailing country", required: true, custom: checkCountry},
		party.FieldMailingState:        {label: "Mailing state", required: true, custom: checkRegion},
		party.FieldMailingZipCode:      {label: "Mailing zip code", required: true, custom: checkPostalCode},
	},
}

// lookup finds the rule for a field. ownerType and sameAsMailingAddress have
// no rule and therefore never block progression.
func lookup(ruleSet RuleSet, field string) (rule, bool) {
	table, ok := ruleTable[ruleSet]
	if !ok {
		return rule{}, false
	}
	r, ok := table[field]
	return r, ok
}
