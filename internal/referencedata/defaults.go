package referencedata

// Default returns the built-in lists used by the local backend and by tests.
func Default() Snapshot {
	return Snapshot{
		Countries: []Entry{
			{Code: CountryUSA, Description: "United States"},
			{Code: CountryCanada, Description: "Canada"},
			{Code: "03", Description: "Mexico"},
			{Code: "04", Description: "United Kingdom"},
		},
		States: []Entry{
			{Code: "AL", Description: "Alabama"}, {Code: "AK", Description: "Alaska"},
			{Code: "AZ", Description: "Arizona"}, {Code: "CA", Description: "California"},
			{Code: "CO", Description: "Colorado"}, {Code: "FL", Description: "Florida"},
			{Code: "GA", Description: "Georgia"}, {Code: "IL", Description: "Illinois"},
			{Code: "MA", Description: "Massachusetts"}, {Code: "NY", Description: "New York"},
			{Code: "OH", Description: "Ohio"}, {Code: "PA", Description: "Pennsylvania"},
			{Code: "TX", Description: "Texas"}, {Code: "WA", Description: "Washington"},
		},
		Provinces: []Entry{
			{Code: "AB", Description: "Alberta"}, {Code: "BC", Description: "British Columbia"},
			{Code: "MB", Description: "Manitoba"}, {Code: "NB", Description: "New Brunswick"},
			{Code: "NL", Description: "Newfoundland and Labrador"}, {Code: "NS", Description: "Nova Scotia"},
			{Code: "ON", Description: "Ontario"}, {Code: "PE", Description: "Prince Edward Island"},
			{Code: "QC", Description: "Quebec"}, {Code: "SK", Description: "Saskatchewan"},
		},
		Gender: []Entry{
			{Code: "M", Description: "Male"},
			{Code: "F", Description: "Female"},
		},
		Tobacco: []Entry{
			{Code: "N", Description: "Non-tobacco"},
			{Code: "Y", Description: "Tobacco"},
		},
		Occupation: []Entry{
			{Code: "ACC", Description: "Accountant"}, {Code: "ENG", Description: "Engineer"},
			{Code: "MED", Description: "Physician"}, {Code: "TEA", Description: "Teacher"},
			{Code: "OWN", Description: "Business owner"}, {Code: "RET", Description: "Retired"},
			{Code: "OTH", Description: "Other"},
		},
	}
}
