// Package partytest builds fully valid parties for tests.
package partytest

import "intake/internal/party"

// ValidIndividual returns a US individual that passes every section.
func ValidIndividual(partyID int) party.Party {
	p := party.NewIndividual(partyID)
	*p.Individual = party.Individual{
		FirstName:          "Ada",
		LastName:           "Lovelace",
		DateOfBirth:        "1980-12-10",
		Gender:             "F",
		TobaccoStatus:      "N",
		CitizenshipCountry: "01",
		StateOrProvince:    "NY",
		SSN:                "123-45-6789",
		Employer:           "Analytical Engines",
		Occupation:         "ENG",
		NetWorth:           "250,000",
		AnnualIncome:       "120000",
	}
	p.Contact = party.Contact{Email: "ada@example.com", PhoneNumber: "(212) 555-0100"}
	p.Address.Line1 = "1 Main Street"
	p.Address.City = "New York"
	p.Address.Country = "01"
	p.Address.State = "NY"
	p.Address.ZipCode = "10001"
	return p
}

// ValidCorporate returns a US corporation that passes every section.
func ValidCorporate(partyID int) party.Party {
	p := party.NewCorporate(partyID)
	*p.Corporate = party.Corporate{
		CompanyName:                "Acme Holdings",
		RegisteredCountry:          "01",
		RegisteredState:            "TX",
		BusinessRegistrationNumber: "12-3456789",
		BusinessType:               "LLC",
		RelationshipToInsured:      "Employer",
	}
	p.Contact = party.Contact{Email: "office@acme.example", PhoneNumber: "512-555-0199"}
	p.Address.Line1 = "500 Congress Ave"
	p.Address.City = "Austin"
	p.Address.Country = "01"
	p.Address.State = "TX"
	p.Address.ZipCode = "78701"
	return p
}
