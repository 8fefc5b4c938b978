package party

import id "intake/pkg/domain"

// Address is the primary address plus an optional distinct mailing address.
// Mailing fields are only meaningful when SameAsMailingAddress is false.
type Address struct {
	Line1                string         `json:"addressLine1"`
	Line2                string         `json:"addressLine2"`
	City                 string         `json:"addressCity"`
	Country              string         `json:"addressCountry"`
	State                string         `json:"addressState"`
	ZipCode              string         `json:"addressZipCode"`
	SameAsMailingAddress bool           `json:"sameAsMailingAddress"`
	Mailing              MailingAddress `json:"mailing"`
	AddressGUID          id.AddressGUID `json:"addressGUID"`
}

// MailingAddress is the alternate address used for correspondence.
type MailingAddress struct {
	Line1       string         `json:"mailingAddressLine1"`
	Line2       string         `json:"mailingAddressLine2"`
	City        string         `json:"mailingCity"`
	Country     string         `json:"mailingCountry"`
	State       string         `json:"mailingState"`
	ZipCode     string         `json:"mailingZipCode"`
	AddressGUID id.AddressGUID `json:"addressGUID"`
}

// NewAddress returns an empty address whose mailing address defaults to the primary one.
func NewAddress() Address {
	return Address{SameAsMailingAddress: true}
}

// HasDistinctMailing reports whether the mailing address must be collected.
func (a Address) HasDistinctMailing() bool {
	return !a.SameAsMailingAddress
}
