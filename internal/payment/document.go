package payment

import (
	"intake/internal/allocation"
	"intake/internal/party"
)

// SaveDocument is the body of the payment save call.
type SaveDocument struct {
	ApplicationFormNumber string            `json:"applicationFormNumber"`
	PaymentMethod         Method            `json:"paymentMethod"`
	Frequency             Frequency         `json:"frequency"`
	Payors                []PayorAllocation `json:"payors"`
	Bank                  *Bank             `json:"bank,omitempty"`
	Card                  *Card             `json:"card,omitempty"`
}

// PayorAllocation is one payor row. GUIDs are set only when the payor has
// been saved.
type PayorAllocation struct {
	PayorID    int     `json:"payorId"`
	ClientGUID string  `json:"clientGUID,omitempty"`
	RoleGUID   string  `json:"roleGUID,omitempty"`
	Allocation float64 `json:"allocation"`
}

// BuildSaveDocument assembles the payment save body. Unlinked payor rows are
// skipped; the sub-document matching the method is the only one included.
func BuildSaveDocument(applicationNumber string, d Details, payors []party.Party, rows []allocation.Row) SaveDocument {
	doc := SaveDocument{
		ApplicationFormNumber: applicationNumber,
		PaymentMethod:         d.Method,
		Frequency:             d.Frequency,
		Payors:                []PayorAllocation{},
	}
	for _, row := range rows {
		if !row.IsLinked() {
			continue
		}
		pa := PayorAllocation{PayorID: row.TargetID, Allocation: row.Percent}
		if i := party.Find(payors, row.TargetID); i >= 0 {
			if g := payors[i].ClientGUID; !g.IsNil() {
				pa.ClientGUID = g.String()
			}
			if g := payors[i].RoleGUID; !g.IsNil() {
				pa.RoleGUID = g.String()
			}
		}
		doc.Payors = append(doc.Payors, pa)
	}
	switch d.Method {
	case MethodBank:
		bank := d.Bank
		doc.Bank = &bank
	case MethodCard:
		card := d.Card
		doc.Card = &card
	}
	return doc
}
