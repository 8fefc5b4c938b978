package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/application/metrics"
	"intake/internal/application/models"
	"intake/internal/medical"
	"intake/internal/payment"
	"intake/internal/premium"
	"intake/internal/referencedata"
	"intake/internal/validation"
	"intake/internal/wizard/section"
	"intake/pkg/attrs"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// Store persists application sessions. Save must refuse a write whose
// Version is not exactly one above the stored version.
type Store interface {
	Create(ctx context.Context, app *application.Application) error
	Get(ctx context.Context, appID id.ApplicationID) (*application.Application, error)
	Save(ctx context.Context, app *application.Application) error
}

type PartySaver interface {
	SaveParties(ctx context.Context, req models.PartySaveRequest) (models.PartySaveResponse, error)
}

type AllocationSaver interface {
	SaveAllocations(ctx context.Context, req models.AllocationSaveRequest) error
}

type PremiumCalculator interface {
	CalculatePremium(ctx context.Context, doc *premium.RequestDocument) (map[string]any, error)
}

type PaymentSaver interface {
	SavePayment(ctx context.Context, doc payment.SaveDocument) error
}

// Backend is the carrier's set of save and calculation endpoints.
type Backend interface {
	PartySaver
	AllocationSaver
	PremiumCalculator
	PaymentSaver
}

type ReferenceData interface {
	Get(ctx context.Context) (referencedata.Snapshot, error)
	Refresh(ctx context.Context) (referencedata.Snapshot, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Names of the external calls, used for metrics, spans and notices.
const (
	callSaveParties     = "save_parties"
	callSaveAllocations = "save_allocations"
	callCalculate       = "calculate_premium"
	callSavePayment     = "save_payment"
	callRefreshRefs     = "refresh_reference_data"
)

// Service orchestrates one intake session per application: it loads the
// aggregate, applies an edit through the wizard core, calls the carrier on
// continue and saves the result.
type Service struct {
	store     Store
	backend   Backend
	refs      ReferenceData
	logger    *slog.Logger
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       func() time.Time
	validator *validation.Validator

	jurisdiction     string
	strategy         allocation.Strategy
	relock           section.RelockPolicy
	rejectUnresolved bool
	questions        []medical.Question

	locks [lockStripes]sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock injects the time source for timestamps, notices and age checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithJurisdiction sets the country code new applications start in.
func WithJurisdiction(country string) Option {
	return func(s *Service) {
		s.jurisdiction = country
	}
}

func WithRoundingStrategy(strategy allocation.Strategy) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

func WithRelockPolicy(p section.RelockPolicy) Option {
	return func(s *Service) {
		s.relock = p
	}
}

// WithRejectUnresolved refuses to continue past beneficiaries while a linked
// beneficiary has no role guid, instead of leaving its rows out of the save.
func WithRejectUnresolved(reject bool) Option {
	return func(s *Service) {
		s.rejectUnresolved = reject
	}
}

func WithQuestionnaire(questions []medical.Question) Option {
	return func(s *Service) {
		if len(questions) > 0 {
			s.questions = questions
		}
	}
}

// New constructs a Service. Reference data is optional; without it code
// lists are not enforced.
func New(store Store, backend Backend, refs ReferenceData, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("application store is required")
	}
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	s := &Service{
		store:        store,
		backend:      backend,
		refs:         refs,
		logger:       slog.Default(),
		now:          time.Now,
		jurisdiction: referencedata.CountryUSA,
		strategy:     allocation.StrategyEqual,
		relock:       section.RelockLenient,
		questions:    medical.DefaultQuestionnaire,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("intake/application")
	}
	s.validator = validation.New(validation.WithClock(s.now))
	return s, nil
}

// Questionnaire returns the medical questions in use.
func (s *Service) Questionnaire() []medical.Question {
	return append([]medical.Question(nil), s.questions...)
}

// Start creates a new application positioned on the owner step.
func (s *Service) Start(ctx context.Context) (*application.Application, error) {
	app := application.New(id.NewApplicationID(), s.jurisdiction, s.now(), s.strategy)
	if err := s.store.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}
	s.metrics.IncApplicationsStarted()
	s.logAudit(ctx, audit.EventApplicationStarted,
		"application_id", app.ID.String(),
		"application_number", app.Number)
	return app, nil
}

// Get loads an application.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*application.Application, error) {
	return s.load(ctx, appID)
}

// AuditTrail lists the audit events recorded for an application when the
// publisher can read them back.
func (s *Service) AuditTrail(ctx context.Context, appID id.ApplicationID) ([]audit.Event, error) {
	lister, ok := s.auditor.(interface {
		List(ctx context.Context, applicationID id.ApplicationID) ([]audit.Event, error)
	})
	if !ok {
		return []audit.Event{}, nil
	}
	events, err := lister.List(ctx, appID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

// keepState marks an operation error after which the mutated application must
// still be saved: external failures leave local edits and the failure notice
// in place.
type keepState struct {
	err error
}

func (k *keepState) Error() string { return k.err.Error() }
func (k *keepState) Unwrap() error { return k.err }

// mutate runs fn against a freshly loaded application under the
// application's lock and saves the result. A plain error discards every
// change fn made.
func (s *Service) mutate(ctx context.Context, appID id.ApplicationID, fn func(ctx context.Context, app *application.Application, res *Result) error) (*Result, error) {
	unlock := s.lock(appID)
	defer unlock()

	ctx = requestcontext.WithApplicationID(ctx, appID)
	app, err := s.load(ctx, appID)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	if err := fn(ctx, app, res); err != nil {
		var keep *keepState
		if !errors.As(err, &keep) {
			return nil, err
		}
		if saveErr := s.save(ctx, app); saveErr != nil {
			return nil, saveErr
		}
		return nil, keep.err
	}
	if err := s.save(ctx, app); err != nil {
		return nil, err
	}
	res.Application = app
	return res, nil
}

// lockStripes bounds the per-application mutexes. Two sessions may share a
// stripe; one session always maps to the same one.
const lockStripes = 256

func lockStripe(appID id.ApplicationID) int {
	h := fnv.New32a()
	_, _ = h.Write(appID[:])
	return int(h.Sum32() % lockStripes)
}

func (s *Service) lock(appID id.ApplicationID) func() {
	mu := &s.locks[lockStripe(appID)]
	mu.Lock()
	return mu.Unlock
}

func (s *Service) load(ctx context.Context, appID id.ApplicationID) (*application.Application, error) {
	app, err := s.store.Get(ctx, appID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load application")
	}
	return app, nil
}

func (s *Service) save(ctx context.Context, app *application.Application) error {
	app.Version++
	app.UpdatedAt = s.now()
	if err := s.store.Save(ctx, app); err != nil {
		app.Version--
		return translateStoreErr(err, "failed to save application")
	}
	return nil
}

func translateStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "application was modified concurrently, reload and retry")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

// validatorFor returns the validator enforcing the current reference data.
// Without reference data code lists are not enforced.
func (s *Service) validatorFor(ctx context.Context) *validation.Validator {
	if s.refs == nil {
		return s.validator
	}
	snap, err := s.refs.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "reference data unavailable, code lists not enforced", "error", err)
		return s.validator
	}
	return s.validator.WithSnapshot(snap)
}

func (s *Service) machine(v *validation.Validator) *section.Machine {
	return section.NewMachine(v, section.WithRelockPolicy(s.relock))
}

// callExternal runs one carrier call inside a span. A failure is surfaced
// once as an error notice on the application and returned as unavailable,
// wrapped so the caller's local edits are still saved.
func (s *Service) callExternal(ctx context.Context, app *application.Application, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "intake."+name,
		trace.WithAttributes(
			attribute.String("application.id", app.ID.String()),
			attribute.String("application.number", app.Number),
		))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveExternalCall(name, start, err)
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, name+" failed")

	s.logger.ErrorContext(ctx, "external call failed",
		"application_id", app.ID.String(),
		"call", name,
		"error", err)
	app.AddNotice(application.NoticeError, app.Steps.Active,
		fmt.Sprintf("We could not reach the carrier (%s). Your changes are kept; please try again.", name),
		s.now())
	s.logAudit(ctx, audit.EventExternalCallFailed,
		"application_id", app.ID.String(),
		"subject", name,
		"reason", err.Error())
	return &keepState{err: dErrors.Wrap(err, dErrors.CodeUnavailable, name+" failed")}
}

// logAudit logs an audit line and forwards it to the publisher. Known
// attribute keys are copied onto the event.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditor == nil {
		return
	}
	appID, err := id.ParseApplicationID(attrs.ExtractString(attributes, "application_id"))
	if err != nil {
		appID = requestcontext.ApplicationID(ctx)
	}
	ev := audit.Event{
		ApplicationID: appID,
		Action:        string(event),
		Subject:       attrs.ExtractString(attributes, "subject"),
		Decision:      attrs.ExtractString(attributes, "decision"),
		Reason:        attrs.ExtractString(attributes, "reason"),
		RequestID:     attrs.ExtractString(attributes, "request_id"),
	}
	if n, ok := attrs.ExtractInt(attributes, "count"); ok {
		ev.Count = n
	}
	if err := s.auditor.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}
