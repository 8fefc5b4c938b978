package service

import (
	"context"
	"fmt"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/application/models"
	"intake/internal/coverage"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
)

// AddAllocationRow appends an unlinked row and redistributes the bucket.
func (s *Service) AddAllocationRow(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, res *Result) error {
		if err := checkBucket(app, key); err != nil {
			return err
		}
		row := app.Allocations.AddRow(key)
		res.Row = &row
		s.metrics.IncRowAdded(string(key.Kind))
		return nil
	})
}

// RemoveAllocationRow deletes a row and redistributes the rest. A primary
// bucket keeps at least one row.
func (s *Service) RemoveAllocationRow(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		if err := checkBucket(app, key); err != nil {
			return err
		}
		if err := app.Allocations.RemoveRow(key, rowID); err != nil {
			return err
		}
		s.metrics.IncRowRemoved(string(key.Kind))
		return nil
	})
}

// SetAllocation overrides one row's percent without touching its siblings.
func (s *Service) SetAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int, percent float64) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		if err := checkBucket(app, key); err != nil {
			return err
		}
		return app.Allocations.SetAllocation(key, rowID, percent)
	})
}

// LinkAllocation points a row at a beneficiary or payor of the application.
func (s *Service) LinkAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID, targetID int) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		if err := checkBucket(app, key); err != nil {
			return err
		}
		role := application.RoleBeneficiary
		if key.Kind == allocation.KindPayor {
			role = application.RolePayor
		}
		if _, err := app.Party(role, targetID); err != nil {
			return err
		}
		return app.Allocations.LinkRow(key, rowID, targetID)
	})
}

// DescribeAllocation sets a beneficiary row's relationship fields.
func (s *Service) DescribeAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int, relationship, relatedInsured string) (*Result, error) {
	return s.mutate(ctx, appID, func(_ context.Context, app *application.Application, _ *Result) error {
		if err := checkBucket(app, key); err != nil {
			return err
		}
		if !key.Kind.IsBeneficiary() {
			return dErrors.New(dErrors.CodeBadRequest, "only beneficiary rows carry a relationship")
		}
		return app.Allocations.DescribeRow(key, rowID, relationship, relatedInsured)
	})
}

func checkBucket(app *application.Application, key allocation.BucketKey) error {
	if key.Kind.IsBeneficiary() && !app.Coverage.HasCoverage(key.CoverageID) {
		return dErrors.New(dErrors.CodeNotFound, "coverage not found: "+key.CoverageID)
	}
	return nil
}

// requiredBeneficiaryBuckets lists the buckets that must be fully linked:
// the primary bucket of the base and of every additional coverage, plus any
// other beneficiary bucket that has been used.
func requiredBeneficiaryBuckets(app *application.Application) []allocation.BucketKey {
	seen := map[allocation.BucketKey]bool{}
	var keys []allocation.BucketKey
	add := func(k allocation.BucketKey) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(allocation.BucketKey{CoverageID: coverage.BaseID, Kind: allocation.KindPrimary})
	for _, a := range app.Coverage.Additional {
		add(allocation.BucketKey{CoverageID: a.CoverageID(), Kind: allocation.KindPrimary})
	}
	for _, k := range app.Allocations.Keys() {
		if k.Kind.IsBeneficiary() {
			add(k)
		}
	}
	return keys
}

// ContinueBeneficiaries validates the beneficiaries and their allocation
// rows, saves beneficiaries that have no role guid yet, saves the
// allocations and advances to payment.
//
// Rows whose beneficiary still has no role guid after the save are left out
// of the allocation save and counted, unless unresolved rows are configured
// to be rejected.
func (s *Service) ContinueBeneficiaries(ctx context.Context, appID id.ApplicationID) (*Result, error) {
	return s.continueStep(ctx, appID, stepBeneficiary, s.continueBeneficiaries)
}

func (s *Service) continueBeneficiaries(ctx context.Context, app *application.Application, res *Result) error {
	v := s.validatorFor(ctx)
	res.addErrors("", s.attemptParties(app, application.RoleBeneficiary, v))
	keys := requiredBeneficiaryBuckets(app)
	for _, key := range keys {
		if !app.Allocations.IsBucketComplete(key) {
			res.addErrors("allocations", map[string]string{key.String(): "Select a beneficiary for every allocation row"})
		}
	}
	if len(res.Errors) > 0 {
		s.refuseContinue(ctx, app, res, "some beneficiary details or allocations are missing")
		return nil
	}

	if err := s.saveParties(ctx, app, application.RoleBeneficiary, true); err != nil {
		return err
	}

	req, unresolved := models.NewAllocationSaveRequest(app.Number, app.Allocations, keys, app.Beneficiaries)
	if len(unresolved) > 0 && s.rejectUnresolved {
		first := unresolved[0]
		return &keepState{err: dErrors.New(dErrors.CodeReferential,
			fmt.Sprintf("allocation row %d in %s targets a beneficiary the carrier has not issued a role for", first.RowID, first.Key))}
	}
	err := s.callExternal(ctx, app, callSaveAllocations, func(ctx context.Context) error {
		return s.backend.SaveAllocations(ctx, req)
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventAllocationsSaved,
		"application_id", app.ID.String(),
		"count", len(req.BeneficiaryAllocations))
	if n := len(unresolved); n > 0 {
		res.Omitted = n
		s.metrics.AddOmitted(n)
		app.AddNotice(application.NoticeWarning, stepBeneficiary,
			fmt.Sprintf("%d allocation row(s) were not sent because their beneficiary has not been saved", n), s.now())
		s.logAudit(ctx, audit.EventAllocationsOmitted,
			"application_id", app.ID.String(),
			"count", n)
	}

	app.Steps.ReportCompletion(stepBeneficiary, true)
	s.advance(ctx, app, res)
	return nil
}

// unlinkedPayors lists payors no payor row references.
func unlinkedPayors(app *application.Application) []int {
	var out []int
	for _, p := range app.Payors {
		if len(app.Allocations.References(p.ID, allocation.KindPayor)) == 0 {
			out = append(out, p.ID)
		}
	}
	return out
}
