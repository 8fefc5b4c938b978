package audit

import (
	"context"
	"time"

	id "intake/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing per category.
type EventCategory string

const (
	// CategoryCompliance covers events with underwriting significance: data
	// sent to the carrier and the wizard positions it unlocked.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging. These can be
	// sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory    `json:"category"`
	Timestamp     time.Time        `json:"timestamp"`
	ApplicationID id.ApplicationID `json:"application_id"`
	Action        string           `json:"action"`
	// Subject is the entity acted upon, e.g. "step:coverage" or "beneficiary:2".
	Subject   string `json:"subject,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Count     int    `json:"count,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventApplicationStarted AuditEvent = "application_started"

	// Navigation events
	EventStepAdvanced   AuditEvent = "step_advanced"
	EventStepRefused    AuditEvent = "step_refused"
	EventStepRevoked    AuditEvent = "step_revoked"
	EventSectionRefused AuditEvent = "section_refused"

	// External save events
	EventPartiesSaved       AuditEvent = "parties_saved"
	EventAllocationsSaved   AuditEvent = "allocations_saved"
	EventAllocationsOmitted AuditEvent = "allocations_omitted"
	EventPaymentSaved       AuditEvent = "payment_saved"
	EventPremiumCalculated  AuditEvent = "premium_calculated"
	EventExternalCallFailed AuditEvent = "external_call_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventApplicationStarted: CategoryCompliance,
	EventStepAdvanced:       CategoryCompliance,
	EventStepRevoked:        CategoryCompliance,
	EventPartiesSaved:       CategoryCompliance,
	EventAllocationsSaved:   CategoryCompliance,
	EventAllocationsOmitted: CategoryCompliance,
	EventPaymentSaved:       CategoryCompliance,

	EventStepRefused:        CategoryOperations,
	EventSectionRefused:     CategoryOperations,
	EventPremiumCalculated:  CategoryOperations,
	EventExternalCallFailed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]Event, error)
}

// Sink receives a copy of every persisted event, e.g. a message broker.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
