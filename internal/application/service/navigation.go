package service

import (
	"context"
	"fmt"

	"intake/internal/application"
	"intake/internal/wizard/step"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
)

const (
	stepOwner       = step.Owner
	stepCoverage    = step.Coverage
	stepMedical     = step.Medical
	stepBeneficiary = step.Beneficiary
	stepPayment     = step.Payment
	stepReview      = step.Review
)

type stepFunc func(ctx context.Context, app *application.Application, res *Result) error

// Continue runs the continue action of whichever step is active.
func (s *Service) Continue(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		fn := s.continueFor(app.Steps.Active)
		return fn(ctx, app, res)
	})
}

func (s *Service) continueFor(active step.Step) stepFunc {
	switch active {
	case stepOwner:
		return s.continueOwners
	case stepCoverage:
		return s.continueCoverage
	case stepMedical:
		return s.continueMedical
	case stepBeneficiary:
		return s.continueBeneficiaries
	case stepPayment:
		return s.continuePayment
	case stepReview:
		return s.continueReview
	default:
		return func(ctx context.Context, app *application.Application, res *Result) error {
			s.advance(ctx, app, res)
			return nil
		}
	}
}

// continueStep runs fn only while want is the active step.
func (s *Service) continueStep(ctx context.Context, appID id.ApplicationID, want step.Step, fn stepFunc) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		if app.Steps.Active != want {
			return dErrors.New(dErrors.CodeStepLocked,
				fmt.Sprintf("the %s step is not active (active step: %s)", want, app.Steps.Active))
		}
		return fn(ctx, app, res)
	})
}

// GoBack moves to the previous step. Completion flags are kept.
func (s *Service) GoBack(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		app.Steps.GoBack()
		return nil
	})
}

// JumpTo moves to a step at or before the active one, or to the next step
// when the active one is complete.
func (s *Service) JumpTo(ctx context.Context, appID id.ApplicationID, target step.Step) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, res *Result) error {
		if !target.Valid() {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown step")
		}
		if refusal := app.Steps.JumpTo(target); refusal != nil {
			res.StepRefusal = refusal
			s.recordStepRefusal(ctx, app, refusal)
		}
		return nil
	})
}

// ForceRevoke clears a step's completion flag, for example after the
// carrier rejected data the step had already accepted.
func (s *Service) ForceRevoke(ctx context.Context, appID id.ApplicationID, target step.Step) (*Result, error) {
	return s.mutate(ctx, appID, func(ctx context.Context, app *application.Application, _ *Result) error {
		if !target.Valid() {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown step")
		}
		app.Steps.ForceRevoke(target)
		s.logAudit(ctx, audit.EventStepRevoked,
			"application_id", app.ID.String(),
			"subject", "step:"+target.String())
		return nil
	})
}

// DismissNotices removes the named notices, or all of them.
func (s *Service) DismissNotices(ctx context.Context, appID id.ApplicationID, noticeIDs ...int) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		app.DismissNotices(noticeIDs...)
		return nil
	})
}

// advance leaves the active step forward.
func (s *Service) advance(ctx context.Context, app *application.Application, res *Result) {
	from := app.Steps.Active
	if refusal := app.Steps.GoNext(); refusal != nil {
		res.StepRefusal = refusal
		s.recordStepRefusal(ctx, app, refusal)
		return
	}
	s.metrics.IncStepAdvance(from.String())
	s.logAudit(ctx, audit.EventStepAdvanced,
		"application_id", app.ID.String(),
		"subject", "step:"+from.String(),
		"decision", app.Steps.Active.String())
}

// refuseContinue records the active step's own negative verdict: the flag is
// lowered, the refusal is surfaced once as a notice and returned.
func (s *Service) refuseContinue(ctx context.Context, app *application.Application, res *Result, message string) {
	active := app.Steps.Active
	app.Steps.ReportCompletion(active, false)
	refusal := &step.Refusal{From: active, To: active + 1, Message: message}
	app.Steps.LastRefusal = refusal
	res.StepRefusal = refusal
	s.recordStepRefusal(ctx, app, refusal)
}

func (s *Service) recordStepRefusal(ctx context.Context, app *application.Application, refusal *step.Refusal) {
	app.AddNotice(application.NoticeWarning, refusal.From, refusal.Message, s.now())
	s.metrics.IncStepRefusal(refusal.From.String())
	s.logAudit(ctx, audit.EventStepRefused,
		"application_id", app.ID.String(),
		"subject", "step:"+refusal.To.String(),
		"reason", refusal.Message)
}
