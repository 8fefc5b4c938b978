package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "intake/pkg/domain"
	audit "intake/pkg/platform/audit"
	txcontext "intake/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table. When the context
// carries a transaction (see pkg/platform/tx), the insert joins it so an
// event commits together with the session write that caused it.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, application_id, action,
			subject, decision, reason, count, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		string(category),
		event.Timestamp,
		uuid.UUID(event.ApplicationID),
		event.Action,
		event.Subject,
		event.Decision,
		event.Reason,
		event.Count,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByApplication returns events for one application, oldest first.
func (s *Store) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, application_id, action,
			   subject, decision, reason, count, request_id
		FROM audit_events
		WHERE application_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, uuid.UUID(applicationID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			category string
			appID    uuid.UUID
			event    audit.Event
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&appID,
			&event.Action,
			&event.Subject,
			&event.Decision,
			&event.Reason,
			&event.Count,
			&event.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.ApplicationID = id.ApplicationID(appID)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
