// Package publisher fans audit events out to a store and optional sinks.
//
// In sync mode Emit persists before returning. With WithAsyncBuffer, events
// are queued and persisted by a single background goroutine; Close drains the
// queue before returning.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "intake/pkg/domain"
	audit "intake/pkg/platform/audit"
)

// ErrBufferFull is returned by Emit when the async queue cannot accept the event.
var ErrBufferFull = errors.New("audit buffer full")

type Publisher struct {
	store   audit.Store
	sinks   []audit.Sink
	sampler *Sampler
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan audit.Event
	wg     sync.WaitGroup
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a queue of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan audit.Event, n)
		}
	}
}

// WithSink adds a sink that receives every persisted event.
func WithSink(sink audit.Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

// WithSampler samples operations-category events.
func WithSampler(s *Sampler) Option {
	return func(p *Publisher) { p.sampler = s }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event. A zero Timestamp is set to now and a missing
// Category is derived from Action.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Category == audit.CategoryOperations && p.sampler != nil && !p.sampler.ShouldSample(event.Action) {
		p.metrics.IncSampled()
		return nil
	}

	if p.queue == nil {
		return p.persist(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.persist(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.IncDropped()
		return ErrBufferFull
	}
}

// List returns the stored events for one application.
func (p *Publisher) List(ctx context.Context, applicationID id.ApplicationID) ([]audit.Event, error) {
	return p.store.ListByApplication(ctx, applicationID)
}

// Close stops accepting queued events and waits for the queue to drain.
// It is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed || p.queue == nil {
		p.closed = true
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.persist(context.Background(), event); err != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"application_id", event.ApplicationID.String(),
				"error", err,
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		return err
	}
	p.metrics.IncPublished(string(event.Category))
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			p.metrics.IncSinkFailures()
			p.logger.Warn("audit sink rejected event",
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}
