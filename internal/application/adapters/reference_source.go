package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"intake/internal/referencedata"
	"intake/pkg/platform/circuit"
	"intake/pkg/requestcontext"
)

const pathReferenceData = "/reference-data"

// ReferenceSource fetches the dropdown lists from the reference-data
// service. While its breaker is open it keeps calling the service but
// answers with the fallback snapshot until enough calls succeed again.
type ReferenceSource struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	breaker  *circuit.Breaker
	fallback referencedata.Snapshot
	logger   *slog.Logger
}

type ReferenceOption func(*ReferenceSource)

func WithReferenceClient(client *http.Client) ReferenceOption {
	return func(s *ReferenceSource) {
		if client != nil {
			s.client = client
		}
	}
}

func WithReferenceTimeout(timeout time.Duration) ReferenceOption {
	return func(s *ReferenceSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithBreaker(b *circuit.Breaker) ReferenceOption {
	return func(s *ReferenceSource) {
		if b != nil {
			s.breaker = b
		}
	}
}

// WithFallback replaces the built-in snapshot served while the breaker is open.
func WithFallback(snap referencedata.Snapshot) ReferenceOption {
	return func(s *ReferenceSource) {
		s.fallback = snap
	}
}

func WithReferenceLogger(logger *slog.Logger) ReferenceOption {
	return func(s *ReferenceSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewReferenceSource(baseURL string, opts ...ReferenceOption) (*ReferenceSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("reference data base url is required")
	}
	s := &ReferenceSource{
		url:      baseURL + pathReferenceData,
		client:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout:  5 * time.Second,
		breaker:  circuit.New("reference_data"),
		fallback: referencedata.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fetch implements referencedata.Source.
func (s *ReferenceSource) Fetch(ctx context.Context) (referencedata.Snapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "reference data circuit opened, serving fallback lists",
				"breaker", s.breaker.Name(), "error", err)
		}
		if useFallback {
			return s.fallback, nil
		}
		return referencedata.Snapshot{}, err
	}
	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "reference data circuit closed", "breaker", s.breaker.Name())
	}
	if !usePrimary {
		return s.fallback, nil
	}
	return snap, nil
}

func (s *ReferenceSource) fetch(ctx context.Context) (referencedata.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return referencedata.Snapshot{}, fmt.Errorf("build reference data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return referencedata.Snapshot{}, fmt.Errorf("reference data request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return referencedata.Snapshot{}, fmt.Errorf("reference data returned %s", resp.Status)
	}
	var snap referencedata.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return referencedata.Snapshot{}, fmt.Errorf("decode reference data: %w", err)
	}
	if snap.IsEmpty() {
		return referencedata.Snapshot{}, fmt.Errorf("reference data response is empty")
	}
	return snap, nil
}

var _ referencedata.Source = (*ReferenceSource)(nil)
