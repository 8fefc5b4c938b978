package service

import (
	"context"
	"fmt"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/payment"
	id "intake/pkg/domain"
	"intake/pkg/platform/audit"
)

// SetPaymentField applies one payment edit. Method codes are normalized.
func (s *Service) SetPaymentField(ctx context.Context, appID id.ApplicationID, field, value string) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, res *Result) error {
		if err := app.Payment.SetField(field, value); err != nil {
			return err
		}
		if msg, ok := app.Payment.Validate(app.Country, s.now())[field]; ok {
			res.addErrors("", map[string]string{field: msg})
		}
		return nil
	})
}

// ContinuePayment validates the payment details and payors, saves payors
// without a role guid, saves the payment and advances to review. When
// payors exist every payor row must be linked.
func (s *Service) ContinuePayment(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepPayment, s.continuePayment)
}

func (s *Service) continuePayment(ctx context.Context, app *application.Application, res *Result) error {
	res.addErrors("payment", app.Payment.Validate(app.Country, s.now()))
	res.addErrors("", s.attemptParties(app, application.RolePayor, s.validatorFor(ctx)))
	if len(app.Payors) > 0 && !app.Allocations.IsBucketComplete(allocation.PayorBucket()) {
		res.addErrors("allocations", map[string]string{allocation.PayorBucket().String(): "Select a payor for every payor row"})
	}
	if len(res.Errors) > 0 {
		s.refuseContinue(ctx, app, res, "some payment details are missing or invalid")
		return nil
	}

	if err := s.saveParties(ctx, app, application.RolePayor, true); err != nil {
		return err
	}
	doc := payment.BuildSaveDocument(app.Number, app.Payment, app.Payors, app.Allocations.Rows(allocation.PayorBucket()))
	err := s.callExternal(ctx, app, callSavePayment, func(ctx context.Context) error {
		return s.backend.SavePayment(ctx, doc)
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventPaymentSaved,
		"application_id", app.ID.String(),
		"subject", string(doc.PaymentMethod),
		"count", len(doc.Payors))
	if ids := unlinkedPayors(app); len(ids) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("payors %v have no payor allocation", ids))
	}

	app.Steps.ReportCompletion(stepPayment, true)
	s.advance(ctx, app, res)
	return nil
}
