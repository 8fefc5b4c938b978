// Package adapters holds the clients for the carrier's save and calculation
// endpoints and for the reference-data service, plus an in-process backend
// used when no carrier is configured.
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"intake/internal/application/models"
	"intake/internal/application/service"
	"intake/internal/payment"
	"intake/internal/premium"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/requestcontext"
)

// Carrier endpoint paths, relative to the backend base URL.
const (
	pathParties     = "/parties"
	pathAllocations = "/beneficiary-allocations"
	pathPremium     = "/premium/calculate"
	pathPayment     = "/payments"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// HTTPBackend implements service.Backend over the carrier's JSON endpoints.
// Outbound requests are traced through otelhttp.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

type HTTPOption func(*HTTPBackend)

// WithHTTPClient replaces the default client. Its transport is used as is.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(b *HTTPBackend) {
		if client != nil {
			b.client = client
		}
	}
}

func WithTimeout(timeout time.Duration) HTTPOption {
	return func(b *HTTPBackend) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

func NewHTTPBackend(baseURL string, opts ...HTTPOption) (*HTTPBackend, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	b := &HTTPBackend{
		baseURL: baseURL,
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *HTTPBackend) SaveParties(ctx context.Context, req models.PartySaveRequest) (models.PartySaveResponse, error) {
	var resp models.PartySaveResponse
	if err := b.post(ctx, pathParties, req, &resp); err != nil {
		return models.PartySaveResponse{}, err
	}
	return resp, nil
}

func (b *HTTPBackend) SaveAllocations(ctx context.Context, req models.AllocationSaveRequest) error {
	return b.post(ctx, pathAllocations, req, nil)
}

// CalculatePremium returns the response body as an opaque map.
func (b *HTTPBackend) CalculatePremium(ctx context.Context, doc *premium.RequestDocument) (map[string]any, error) {
	resp := map[string]any{}
	if err := b.post(ctx, pathPremium, doc, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (b *HTTPBackend) SavePayment(ctx context.Context, doc payment.SaveDocument) error {
	return b.post(ctx, pathPayment, doc, nil)
}

func (b *HTTPBackend) post(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatus(path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// mapStatus turns a non-2xx answer into a domain error. Client errors mean
// the carrier rejected the data; anything else is treated as unavailable.
func mapStatus(path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := fmt.Sprintf("%s returned %s", path, resp.Status)
	if detail := strings.TrimSpace(string(raw)); detail != "" {
		msg += ": " + detail
	}
	switch {
	case resp.StatusCode == http.StatusConflict:
		return dErrors.New(dErrors.CodeConflict, msg)
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		return dErrors.New(dErrors.CodeValidation, msg)
	default:
		return dErrors.New(dErrors.CodeUnavailable, msg)
	}
}

var _ service.Backend = (*HTTPBackend)(nil)
