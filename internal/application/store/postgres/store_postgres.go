package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"intake/internal/application"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/sentinel"
	txcontext "intake/pkg/platform/tx"
)

const (
	defaultTxTimeout = 5 * time.Second
	uniqueViolation  = "23505"
)

// Store persists sessions as JSONB rows. Saves lock the row, check the
// version and update inside one transaction; the transaction travels in the
// context so writes that join it (audit events) commit with the session.
type Store struct {
	db      *sql.DB
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func WithTxTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, ttl: 24 * time.Hour, timeout: defaultTxTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(ctx context.Context, app *application.Application) error {
	state, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	query := `
		INSERT INTO applications (id, number, version, state, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(app.ID), app.Number, app.Version, state,
		app.CreatedAt, app.UpdatedAt, s.now().Add(s.ttl))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, appID id.ApplicationID) (*application.Application, error) {
	query := `SELECT state FROM applications WHERE id = $1 AND expires_at > $2`
	var state []byte
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(appID), s.now()).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	var app application.Application
	if err := json.Unmarshal(state, &app); err != nil {
		return nil, fmt.Errorf("%w: decode application: %v", sentinel.ErrInvalidState, err)
	}
	return &app, nil
}

// Save writes app when the stored version is exactly app.Version-1 and
// slides the expiry forward.
func (s *Store) Save(ctx context.Context, app *application.Application) error {
	state, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		tx := txcontext.Or(ctx, s.db)
		var stored int64
		err := tx.QueryRowContext(ctx,
			`SELECT version FROM applications WHERE id = $1 FOR UPDATE`,
			uuid.UUID(app.ID)).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock application: %w", err)
		}
		if stored != app.Version-1 {
			return sentinel.ErrConflict
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE applications
			SET version = $2, state = $3, updated_at = $4, expires_at = $5
			WHERE id = $1
		`, uuid.UUID(app.ID), app.Version, state, app.UpdatedAt, s.now().Add(s.ttl))
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		return nil
	})
}

// DeleteExpired removes sessions past their expiry.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired applications: %w", err)
	}
	return res.RowsAffected()
}

// RunInTx runs fn with a transaction stored in its context. The transaction
// is rolled back unless fn succeeds and the commit does.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
