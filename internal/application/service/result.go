package service

import (
	"fmt"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/party"
	"intake/internal/wizard/section"
	"intake/internal/wizard/step"
)

// Result is the outcome of one wizard operation. Refusals are values: the
// operation succeeded in recording them and the application was saved.
type Result struct {
	Application    *application.Application `json:"application"`
	SectionRefusal *section.Refusal         `json:"sectionRefusal,omitempty"`
	StepRefusal    *step.Refusal            `json:"stepRefusal,omitempty"`
	// Validity is the republished per-section validity after a party edit.
	Validity map[party.Section]bool `json:"validity,omitempty"`
	// Errors holds the visible field errors, keyed by field for a single
	// entity or by "<scope>.<field>" for a whole step.
	Errors   map[string]string `json:"errors,omitempty"`
	Party    *party.Party      `json:"party,omitempty"`
	Row      *allocation.Row   `json:"row,omitempty"`
	Omitted  int               `json:"omitted,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Refused reports whether the operation was refused by a gate.
func (r *Result) Refused() bool {
	return r != nil && (r.SectionRefusal != nil || r.StepRefusal != nil)
}

func (r *Result) addErrors(scope string, errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	if r.Errors == nil {
		r.Errors = map[string]string{}
	}
	for field, msg := range errs {
		if scope == "" {
			r.Errors[field] = msg
			continue
		}
		r.Errors[fmt.Sprintf("%s.%s", scope, field)] = msg
	}
}

func partyScope(role application.Role, partyID int) string {
	return fmt.Sprintf("%s.%d", role, partyID)
}
