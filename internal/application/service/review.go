package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"intake/internal/application"
	"intake/internal/premium"
	id "intake/pkg/domain"
	"intake/pkg/platform/audit"
)

// Review prices the application and refreshes reference data in parallel.
// It reports allocation buckets that do not total 100 as warnings.
func (s *Service) Review(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepReview, func(ctx context.Context, app *application.Application, res *Result) error {
		return s.review(ctx, app, res)
	})
}

func (s *Service) continueReview(ctx context.Context, app *application.Application, res *Result) error {
	if err := s.review(ctx, app, res); err != nil || res.Refused() {
		return err
	}
	app.Steps.ReportCompletion(stepReview, true)
	s.advance(ctx, app, res)
	return nil
}

func (s *Service) review(ctx context.Context, app *application.Application, res *Result) error {
	doc := premium.BuildFromPortfolio(app.Coverage, app.Number)
	if doc == nil {
		s.refuseContinue(ctx, app, res, "coverage is not ready to be priced")
		return nil
	}

	var raw map[string]any
	var calcErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		calcErr = s.callExternal(gctx, app, callCalculate, func(ctx context.Context) error {
			var err error
			raw, err = s.backend.CalculatePremium(ctx, doc)
			return err
		})
		return nil
	})
	g.Go(func() error {
		if s.refs == nil {
			return nil
		}
		start := time.Now()
		_, err := s.refs.Refresh(gctx)
		s.metrics.ObserveExternalCall(callRefreshRefs, start, err)
		if err != nil {
			s.logger.WarnContext(gctx, "reference data refresh failed",
				"application_id", app.ID.String(),
				"call", callRefreshRefs,
				"error", err)
		}
		return nil
	})
	_ = g.Wait()
	if calcErr != nil {
		return calcErr
	}

	quote := premium.ExtractQuote(raw)
	app.Quote = &quote
	s.logAudit(ctx, audit.EventPremiumCalculated,
		"application_id", app.ID.String(),
		"count", len(quote.PerCoverage))

	for _, key := range app.Allocations.Imbalanced() {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%s allocations total %.2f%%", key, app.Allocations.TotalAllocated(key)))
	}
	return nil
}
