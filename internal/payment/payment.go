// Package payment normalizes the selected payment method and builds the
// payment save document.
package payment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"intake/internal/referencedata"
	dErrors "intake/pkg/domain-errors"
)

// Method is the normalized payment method.
type Method string

const (
	MethodBank       Method = "bank"
	MethodCard       Method = "card"
	MethodDirectBill Method = "direct_bill"
)

// NormalizeMethod maps the codes clients send to a Method: EFT and PAC are
// bank debits, CC is a card.
func NormalizeMethod(raw string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "EFT", "PAC", "BANK":
		return MethodBank, nil
	case "CC", "CARD", "CREDIT_CARD":
		return MethodCard, nil
	case "DIRECT_BILL", "DIRECTBILL", "BILL":
		return MethodDirectBill, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown payment method: "+raw)
	}
}

// Frequency is the premium mode.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyAnnual     Frequency = "annual"
)

func parseFrequency(raw string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(raw))); f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual:
		return f, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown payment frequency: "+raw)
	}
}

// Bank is the debit account sub-document.
type Bank struct {
	AccountHolder string `json:"accountHolder"`
	RoutingNumber string `json:"routingNumber"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
}

// Card is the credit card sub-document.
type Card struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
}

// Details is the payment step's state. Bank and Card are both kept while
// the user switches methods; only the relevant one is sent.
type Details struct {
	Method    Method    `json:"method"`
	Frequency Frequency `json:"frequency"`
	Bank      Bank      `json:"bank"`
	Card      Card      `json:"card"`
}

// Wire field names of payment edits.
const (
	FieldMethod         = "paymentMethod"
	FieldFrequency      = "frequency"
	FieldAccountHolder  = "accountHolder"
	FieldRoutingNumber  = "routingNumber"
	FieldAccountNumber  = "accountNumber"
	FieldAccountType    = "accountType"
	FieldCardholderName = "cardholderName"
	FieldCardNumber     = "cardNumber"
	FieldExpiryMonth    = "expiryMonth"
	FieldExpiryYear     = "expiryYear"
)

// SetField applies one edit.
func (d *Details) SetField(field, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldMethod:
		m, err := NormalizeMethod(value)
		if err != nil {
			return err
		}
		d.Method = m
	case FieldFrequency:
		f, err := parseFrequency(value)
		if err != nil {
			return err
		}
		d.Frequency = f
	case FieldAccountHolder:
		d.Bank.AccountHolder = value
	case FieldRoutingNumber:
		d.Bank.RoutingNumber = value
	case FieldAccountNumber:
		d.Bank.AccountNumber = value
	case FieldAccountType:
		d.Bank.AccountType = value
	case FieldCardholderName:
		d.Card.CardholderName = value
	case FieldCardNumber:
		d.Card.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(value)
	case FieldExpiryMonth:
		d.Card.ExpiryMonth = value
	case FieldExpiryYear:
		d.Card.ExpiryYear = value
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unknown payment field: "+field)
	}
	return nil
}

var (
	usRoutingPattern = regexp.MustCompile(`^\d{9}$`)
	caTransitPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	accountPattern   = regexp.MustCompile(`^\d{4,17}$`)
	cardPattern      = regexp.MustCompile(`^\d{13,19}$`)
)

// Validate returns field errors for the selected method. country picks the
// routing number format.
func (d Details) Validate(country string, now time.Time) map[string]string {
	errs := map[string]string{}
	if d.Method == "" {
		errs[FieldMethod] = "Payment method is required"
	}
	if d.Frequency == "" {
		errs[FieldFrequency] = "Payment frequency is required"
	}
	switch d.Method {
	case MethodBank:
		if d.Bank.AccountHolder == "" {
			errs[FieldAccountHolder] = "Account holder is required"
		}
		routing := usRoutingPattern
		if country == referencedata.CountryCanada {
			routing = caTransitPattern
		}
		if !routing.MatchString(d.Bank.RoutingNumber) {
			errs[FieldRoutingNumber] = "Routing number is not valid"
		}
		if !accountPattern.MatchString(d.Bank.AccountNumber) {
			errs[FieldAccountNumber] = "Account number must be 4 to 17 digits"
		}
	case MethodCard:
		if d.Card.CardholderName == "" {
			errs[FieldCardholderName] = "Cardholder name is required"
		}
		if !cardPattern.MatchString(d.Card.CardNumber) || !luhn(d.Card.CardNumber) {
			errs[FieldCardNumber] = "Card number is not valid"
		}
		if msg := checkExpiry(d.Card.ExpiryMonth, d.Card.ExpiryYear, now); msg != "" {
			errs[FieldExpiryYear] = msg
		}
	}
	return errs
}

func checkExpiry(month, year string, now time.Time) string {
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errM != nil || errY != nil || m < 1 || m > 12 {
		return "Expiry date is not valid"
	}
	if y < 100 {
		y += 2000
	}
	// valid through the last day of the expiry month
	cutoff := time.Date(y, time.Month(m)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(cutoff) {
		return fmt.Sprintf("Card expired in %02d/%d", m, y)
	}
	return ""
}

func luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		n := int(number[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
