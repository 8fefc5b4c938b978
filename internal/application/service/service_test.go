package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,PartySaver,AllocationSaver,PremiumCalculator,PaymentSaver,Backend,ReferenceData,AuditPublisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/application/metrics"
	"intake/internal/application/models"
	"intake/internal/application/service/mocks"
	"intake/internal/application/store/memory"
	"intake/internal/coverage"
	"intake/internal/medical"
	"intake/internal/party"
	"intake/internal/party/partytest"
	"intake/internal/payment"
	"intake/internal/premium"
	"intake/internal/referencedata"
	"intake/internal/wizard/step"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
	"intake/pkg/platform/sentinel"
)

// =============================================================================
// Application Service Test Suite
// =============================================================================
// The service is exercised against the in-memory store so that every
// operation goes through a real load/mutate/save cycle. Carrier calls are
// mocked.

var basePrimary = allocation.BucketKey{CoverageID: coverage.BaseID, Kind: allocation.KindPrimary}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	store   *memory.InMemoryStore
	backend *mocks.MockBackend
	refs    *mocks.MockReferenceData
	auditor *mocks.MockAuditPublisher
	metrics *metrics.Metrics
	now     time.Time
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctrl = gomock.NewController(s.T())
	s.store = memory.NewInMemoryStore(memory.WithClock(s.clock))
	s.backend = mocks.NewMockBackend(s.ctrl)
	s.refs = mocks.NewMockReferenceData(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())

	s.refs.EXPECT().Get(gomock.Any()).Return(referencedata.Default(), nil).AnyTimes()
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.service = s.newService()
}

func (s *ServiceSuite) clock() time.Time { return s.now }

func (s *ServiceSuite) newService(opts ...Option) *Service {
	opts = append([]Option{
		WithClock(s.clock),
		WithAuditPublisher(s.auditor),
		WithMetrics(s.metrics),
	}, opts...)
	svc, err := New(s.store, s.backend, s.refs, opts...)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) start() *application.Application {
	app, err := s.service.Start(s.ctx)
	s.Require().NoError(err)
	return app
}

// seed edits the stored application directly, bumping its version like a save.
func (s *ServiceSuite) seed(appID id.ApplicationID, fn func(app *application.Application)) {
	app, err := s.store.Get(s.ctx, appID)
	s.Require().NoError(err)
	fn(app)
	app.Version++
	s.Require().NoError(s.store.Save(s.ctx, app))
}

func (s *ServiceSuite) load(appID id.ApplicationID) *application.Application {
	app, err := s.service.Get(s.ctx, appID)
	s.Require().NoError(err)
	return app
}

// moveTo positions the wizard on target with every earlier step completed.
func moveTo(app *application.Application, target step.Step) {
	for st := step.Owner; st < target; st++ {
		app.Steps.ReportCompletion(st, true)
	}
	app.Steps.Active = target
}

func savedResponse(partyIDs ...int) models.PartySaveResponse {
	resp := models.PartySaveResponse{}
	for _, partyID := range partyIDs {
		resp.Owners = append(resp.Owners, models.SavedParty{
			LocalID:    partyID,
			ClientGUID: uuid.NewString(),
			RoleGUID:   uuid.NewString(),
		})
	}
	return resp
}

func readyCoverage(app *application.Application) {
	insured := app.Coverage.Insureds.Add(partytest.ValidIndividual(0))
	app.Coverage.Product = coverage.Product{PlanCode: "TERM20", ProductCode: "T"}
	app.Coverage.Base.InsuredID = insured.ID
	app.Coverage.Base.FaceAmount = "250,000"
	app.Coverage.Base.UnderwritingClass = "Preferred"
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.backend, s.refs)
		s.Require().Error(err)
		s.Contains(err.Error(), "application store is required")
	})

	s.Run("nil backend returns error", func() {
		_, err := New(s.store, nil, s.refs)
		s.Require().Error(err)
		s.Contains(err.Error(), "backend is required")
	})

	s.Run("reference data is optional", func() {
		svc, err := New(s.store, s.backend, nil)
		s.Require().NoError(err)
		s.NotNil(svc)
		s.Len(svc.Questionnaire(), len(medical.DefaultQuestionnaire))
	})
}

// =============================================================================
// Session Tests
// =============================================================================

func (s *ServiceSuite) TestStartAndGet() {
	app := s.start()
	s.Equal(step.Owner, app.Steps.Active)
	s.Equal(referencedata.CountryUSA, app.Country)
	s.Equal(s.now, app.CreatedAt)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ApplicationsStarted))

	found := s.load(app.ID)
	s.Equal(app.Number, found.Number)

	_, err := s.service.Get(s.ctx, id.NewApplicationID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSaveConflictIsReported() {
	store := mocks.NewMockStore(s.ctrl)
	svc, err := New(store, s.backend, s.refs, WithClock(s.clock))
	s.Require().NoError(err)

	app := application.New(id.NewApplicationID(), referencedata.CountryUSA, s.now, allocation.StrategyEqual)
	store.EXPECT().Get(gomock.Any(), app.ID).Return(app, nil)
	store.EXPECT().Save(gomock.Any(), app).Return(sentinel.ErrConflict)

	_, err = svc.AddOwner(s.ctx, app.ID, party.KindIndividual)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(int64(0), app.Version)
}

func (s *ServiceSuite) TestConcurrentEditsAreSerialized() {
	app := s.start()

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.service.AddOwner(s.ctx, app.ID, party.KindIndividual)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	s.Len(s.load(app.ID).Owners, writers)
}

func (s *ServiceSuite) TestLockStripeIsStable() {
	appID := id.NewApplicationID()
	first := lockStripe(appID)
	s.Equal(first, lockStripe(appID))
	for range 100 {
		stripe := lockStripe(id.NewApplicationID())
		s.GreaterOrEqual(stripe, 0)
		s.Less(stripe, lockStripes)
	}
}

// =============================================================================
// Owner Step Tests
// =============================================================================

func (s *ServiceSuite) TestContinueOwners() {
	s.Run("no owners is refused with one notice", func() {
		app := s.start()

		res, err := s.service.ContinueOwners(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().NotNil(res.StepRefusal)
		s.Equal(step.Owner, res.StepRefusal.From)
		s.Equal(step.Owner, res.Application.Steps.Active)
		s.Len(res.Application.Notices, 1)
		s.Equal(application.NoticeWarning, res.Application.Notices[0].Level)
	})

	s.Run("invalid owner makes every error visible", func() {
		app := s.start()
		_, err := s.service.AddOwner(s.ctx, app.ID, party.KindIndividual)
		s.Require().NoError(err)

		res, err := s.service.ContinueOwners(s.ctx, app.ID)
		s.Require().NoError(err)
		s.True(res.Refused())
		s.Contains(res.Errors, "owner.1."+party.FieldFirstName)
		s.False(res.Application.Steps.IsComplete(step.Owner))
	})

	s.Run("valid owners are saved and seed the insureds", func() {
		app := s.start()
		s.seed(app.ID, func(app *application.Application) {
			app.Owners = append(app.Owners, partytest.ValidIndividual(1))
		})

		s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.PartySaveRequest) (models.PartySaveResponse, error) {
				s.Equal(app.Number, req.ApplicationFormNumber)
				s.Equal(string(application.RoleOwner), req.Role)
				s.Require().Len(req.Owners, 1)
				s.Equal(1, req.Owners[0].LocalID)
				return savedResponse(1), nil
			})

		res, err := s.service.ContinueOwners(s.ctx, app.ID)
		s.Require().NoError(err)
		s.False(res.Refused())
		s.Equal(step.Coverage, res.Application.Steps.Active)
		s.True(res.Application.Owners[0].IsSaved())
		s.Require().Len(res.Application.Coverage.Insureds.Entries, 1)
		s.Equal(res.Application.Owners[0].ClientGUID, res.Application.Coverage.Insureds.Entries[0].ClientGUID)
	})

	s.Run("wrong active step is locked", func() {
		app := s.start()
		_, err := s.service.ContinueCoverage(s.ctx, app.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeStepLocked))
	})
}

func (s *ServiceSuite) TestExternalFailureKeepsState() {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		app.Owners = append(app.Owners, partytest.ValidIndividual(1))
	})
	s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).
		Return(models.PartySaveResponse{}, errors.New("connection refused"))

	res, err := s.service.Continue(s.ctx, app.ID)
	s.Nil(res)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	stored := s.load(app.ID)
	s.Equal(step.Owner, stored.Steps.Active)
	s.Require().Len(stored.Notices, 1)
	s.Equal(application.NoticeError, stored.Notices[0].Level)
	s.Contains(stored.Notices[0].Message, callSaveParties)
	s.False(stored.Owners[0].IsSaved())
	s.Equal(app.Version+2, stored.Version)
}

func (s *ServiceSuite) TestSectionGating() {
	app := s.start()
	added, err := s.service.AddOwner(s.ctx, app.ID, party.KindIndividual)
	s.Require().NoError(err)
	ownerID := added.Party.ID

	s.Run("expanding past an invalid section is refused", func() {
		res, err := s.service.ExpandOwnerSection(s.ctx, app.ID, ownerID, party.SectionContact)
		s.Require().NoError(err)
		s.Require().NotNil(res.SectionRefusal)
		s.Equal(party.SectionDetails, res.SectionRefusal.BlockedBy)
		s.Contains(res.Errors, party.FieldFirstName)
		s.Len(res.Application.Notices, 1)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.SectionRefusals.WithLabelValues(string(party.SectionContact))))
	})

	s.Run("field edits republish validity", func() {
		res, err := s.service.EditOwnerField(s.ctx, app.ID, ownerID, party.SectionDetails, party.FieldFirstName, "Grace")
		s.Require().NoError(err)
		s.Equal("Grace", res.Party.Individual.FirstName)
		s.Contains(res.Validity, party.SectionDetails)
		s.False(res.Validity[party.SectionDetails])
	})

	s.Run("unknown party is not found", func() {
		_, err := s.service.ExpandOwnerSection(s.ctx, app.ID, 99, party.SectionContact)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestAddPayorFromOwner() {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		owner := partytest.ValidIndividual(1)
		owner.ClientGUID = id.ClientGUID(uuid.New())
		owner.RoleGUID = id.RoleGUID(uuid.New())
		app.Owners = append(app.Owners, owner)
	})

	res, err := s.service.AddPayorFromOwner(s.ctx, app.ID, 1)
	s.Require().NoError(err)
	s.Require().Len(res.Application.Payors, 1)
	payor := res.Application.Payors[0]
	s.Equal(res.Application.Owners[0].ClientGUID, payor.ClientGUID)
	s.False(payor.IsSaved())
	s.Contains(res.Application.PayorGates, payor.ID)
}

// =============================================================================
// Coverage and Medical Tests
// =============================================================================

func (s *ServiceSuite) TestCoverageEditsRaiseCompletion() {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		app.Coverage.Insureds.Add(partytest.ValidIndividual(0))
	})

	_, err := s.service.SetProduct(s.ctx, app.ID, coverage.Product{PlanCode: "TERM20"})
	s.Require().NoError(err)
	_, err = s.service.EditBaseCoverage(s.ctx, app.ID, coverage.FieldInsuredID, "1")
	s.Require().NoError(err)
	res, err := s.service.EditBaseCoverage(s.ctx, app.ID, coverage.FieldFaceAmount, "5")
	s.Require().NoError(err)
	s.Contains(res.Errors, coverage.FieldFaceAmount)
	s.False(res.Application.Steps.IsComplete(step.Coverage))

	_, err = s.service.EditBaseCoverage(s.ctx, app.ID, coverage.FieldFaceAmount, "$250,000")
	s.Require().NoError(err)
	res, err = s.service.EditBaseCoverage(s.ctx, app.ID, coverage.FieldUnderwritingClass, "Preferred")
	s.Require().NoError(err)
	s.Empty(res.Errors)
	s.True(res.Application.Steps.IsComplete(step.Coverage))
}

func (s *ServiceSuite) TestRemoveAdditionalCoverageDropsAllocations() {
	app := s.start()
	res, err := s.service.AddAdditionalCoverage(s.ctx, app.ID)
	s.Require().NoError(err)
	additional := res.Application.Coverage.Additional[0].CoverageID()
	key := allocation.BucketKey{CoverageID: additional, Kind: allocation.KindContingent}

	_, err = s.service.AddAllocationRow(s.ctx, app.ID, key)
	s.Require().NoError(err)
	s.Contains(s.load(app.ID).Allocations.Keys(), key)

	res, err = s.service.RemoveAdditionalCoverage(s.ctx, app.ID, 1)
	s.Require().NoError(err)
	s.NotContains(res.Application.Allocations.Keys(), key)

	_, err = s.service.AddAllocationRow(s.ctx, app.ID, key)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestMedical() {
	app := s.start()

	res, err := s.service.AnswerMedical(s.ctx, app.ID, "heart", "yes", "")
	s.Require().NoError(err)
	s.Contains(res.Errors, "heart")

	_, err = s.service.AnswerMedical(s.ctx, app.ID, "unknown", "no", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	for _, q := range medical.DefaultQuestionnaire {
		res, err = s.service.AnswerMedical(s.ctx, app.ID, q.ID, "no", "")
		s.Require().NoError(err)
	}
	s.True(res.Application.Steps.IsComplete(step.Medical))
}

// =============================================================================
// Beneficiary Step Tests
// =============================================================================

func (s *ServiceSuite) TestRemoveLinkedBeneficiaryIsRefused() {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		app.Beneficiaries = append(app.Beneficiaries, partytest.ValidIndividual(1))
	})
	_, err := s.service.LinkAllocation(s.ctx, app.ID, basePrimary, 1, 1)
	s.Require().NoError(err)

	_, err = s.service.RemoveBeneficiary(s.ctx, app.ID, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeReferential))
	s.Len(s.load(app.ID).Beneficiaries, 1)

	_, err = s.service.LinkAllocation(s.ctx, app.ID, basePrimary, 1, 7)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAllocationRows() {
	app := s.start()

	res, err := s.service.AddAllocationRow(s.ctx, app.ID, basePrimary)
	s.Require().NoError(err)
	s.Equal(2, res.Row.ID)
	s.Equal([]float64{50, 50}, percents(res.Application.Allocations.Rows(basePrimary)))

	_, err = s.service.SetAllocation(s.ctx, app.ID, basePrimary, 1, 70)
	s.Require().NoError(err)
	s.False(s.load(app.ID).Allocations.IsBalanced(basePrimary))

	res, err = s.service.RemoveAllocationRow(s.ctx, app.ID, basePrimary, 2)
	s.Require().NoError(err)
	s.Equal([]float64{100}, percents(res.Application.Allocations.Rows(basePrimary)))

	_, err = s.service.RemoveAllocationRow(s.ctx, app.ID, basePrimary, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = s.service.DescribeAllocation(s.ctx, app.ID, allocation.PayorBucket(), 1, "Spouse", "1")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func percents(rows []allocation.Row) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Percent)
	}
	return out
}

// beneficiaryStep seeds two valid beneficiaries splitting the base primary
// bucket and positions the wizard on the beneficiary step.
func (s *ServiceSuite) beneficiaryStep() *application.Application {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		app.Beneficiaries = append(app.Beneficiaries, partytest.ValidIndividual(1), partytest.ValidCorporate(2))
		app.Allocations.AddRow(basePrimary)
		s.Require().NoError(app.Allocations.LinkRow(basePrimary, 1, 1))
		s.Require().NoError(app.Allocations.LinkRow(basePrimary, 2, 2))
		moveTo(app, step.Beneficiary)
	})
	return app
}

func (s *ServiceSuite) TestContinueBeneficiaries() {
	s.Run("unlinked rows are refused", func() {
		app := s.start()
		s.seed(app.ID, func(app *application.Application) { moveTo(app, step.Beneficiary) })

		res, err := s.service.ContinueBeneficiaries(s.ctx, app.ID)
		s.Require().NoError(err)
		s.True(res.Refused())
		s.Contains(res.Errors, "allocations."+basePrimary.String())
	})

	s.Run("all rows resolved are saved", func() {
		app := s.beneficiaryStep()
		s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).Return(savedResponse(1, 2), nil)
		s.backend.EXPECT().SaveAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.AllocationSaveRequest) error {
				s.Require().Len(req.BeneficiaryAllocations, 2)
				s.Equal(coverage.BaseID, req.BeneficiaryAllocations[0].CoverageID)
				s.InDelta(50.0, req.BeneficiaryAllocations[0].Allocation, 0.001)
				return nil
			})

		res, err := s.service.ContinueBeneficiaries(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Zero(res.Omitted)
		s.Equal(step.Payment, res.Application.Steps.Active)
	})

	s.Run("rows of unsaved beneficiaries are omitted and counted", func() {
		app := s.beneficiaryStep()
		s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).Return(savedResponse(1), nil)
		s.backend.EXPECT().SaveAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.AllocationSaveRequest) error {
				s.Len(req.BeneficiaryAllocations, 1)
				return nil
			})

		res, err := s.service.ContinueBeneficiaries(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(1, res.Omitted)
		s.Equal(step.Payment, res.Application.Steps.Active)
		s.Require().Len(res.Application.Notices, 1)
		s.Contains(res.Application.Notices[0].Message, "1 allocation row(s)")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.OmittedAllocations))
	})
}

func (s *ServiceSuite) TestRejectUnresolvedAllocations() {
	s.service = s.newService(WithRejectUnresolved(true))
	app := s.beneficiaryStep()
	s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).Return(savedResponse(1), nil)
	s.backend.EXPECT().SaveAllocations(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.ContinueBeneficiaries(s.ctx, app.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeReferential))

	stored := s.load(app.ID)
	s.Equal(step.Beneficiary, stored.Steps.Active)
	s.True(stored.Beneficiaries[0].IsSaved())
	s.False(stored.Beneficiaries[1].IsSaved())
}

// =============================================================================
// Payment Step Tests
// =============================================================================

func (s *ServiceSuite) TestContinuePayment() {
	app := s.start()
	s.seed(app.ID, func(app *application.Application) {
		app.Payors = append(app.Payors, partytest.ValidCorporate(1), partytest.ValidIndividual(2))
		s.Require().NoError(app.Allocations.LinkRow(allocation.PayorBucket(), 1, 1))
		moveTo(app, step.Payment)
	})

	res, err := s.service.ContinuePayment(s.ctx, app.ID)
	s.Require().NoError(err)
	s.True(res.Refused())
	s.Contains(res.Errors, "payment."+payment.FieldMethod)

	for field, value := range map[string]string{
		payment.FieldMethod:        "EFT",
		payment.FieldFrequency:     "monthly",
		payment.FieldAccountHolder: "Acme Holdings",
		payment.FieldRoutingNumber: "021000021",
		payment.FieldAccountNumber: "123456789",
	} {
		_, err := s.service.SetPaymentField(s.ctx, app.ID, field, value)
		s.Require().NoError(err)
	}

	s.backend.EXPECT().SaveParties(gomock.Any(), gomock.Any()).Return(savedResponse(1, 2), nil)
	s.backend.EXPECT().SavePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc payment.SaveDocument) error {
			s.Equal(payment.MethodBank, doc.PaymentMethod)
			s.Require().Len(doc.Payors, 1)
			s.Equal(1, doc.Payors[0].PayorID)
			s.NotNil(doc.Bank)
			return nil
		})

	res, err = s.service.ContinuePayment(s.ctx, app.ID)
	s.Require().NoError(err)
	s.False(res.Refused())
	s.Equal(step.Review, res.Application.Steps.Active)
	s.Require().Len(res.Warnings, 1)
	s.Contains(res.Warnings[0], "[2]")
}

// =============================================================================
// Review Tests
// =============================================================================

func (s *ServiceSuite) TestReview() {
	s.Run("unpriceable coverage is refused", func() {
		app := s.start()
		s.seed(app.ID, func(app *application.Application) { moveTo(app, step.Review) })

		res, err := s.service.Review(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().NotNil(res.StepRefusal)
		s.Nil(res.Application.Quote)
	})

	s.Run("quote is extracted and imbalances are warned", func() {
		app := s.start()
		s.seed(app.ID, func(app *application.Application) {
			readyCoverage(app)
			s.Require().NoError(app.Allocations.SetAllocation(basePrimary, 1, 80))
			moveTo(app, step.Review)
		})
		s.backend.EXPECT().CalculatePremium(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc *premium.RequestDocument) (map[string]any, error) {
				s.Equal("TERM20", doc.PlanCode)
				return map[string]any{
					"totalAnnualPremium": 1200.0,
					"monthlyPremium":     "100.00",
					"ignored":            true,
				}, nil
			})
		s.refs.EXPECT().Refresh(gomock.Any()).Return(referencedata.Snapshot{}, errors.New("timeout"))

		res, err := s.service.Review(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().NotNil(res.Application.Quote)
		s.Equal(1200.0, res.Application.Quote.TotalAnnual)
		s.Equal(100.0, res.Application.Quote.Monthly)
		s.Require().Len(res.Warnings, 1)
		s.Contains(res.Warnings[0], "80.00%")
		s.Equal(step.Review, res.Application.Steps.Active)
	})

	s.Run("continue from review advances to submission", func() {
		app := s.start()
		s.seed(app.ID, func(app *application.Application) {
			readyCoverage(app)
			moveTo(app, step.Review)
		})
		s.backend.EXPECT().CalculatePremium(gomock.Any(), gomock.Any()).Return(map[string]any{}, nil)
		s.refs.EXPECT().Refresh(gomock.Any()).Return(referencedata.Default(), nil)

		res, err := s.service.Continue(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(step.Submission, res.Application.Steps.Active)
	})
}

// =============================================================================
// Navigation Tests
// =============================================================================

func (s *ServiceSuite) TestNavigation() {
	app := s.start()

	s.Run("skipping ahead is refused", func() {
		res, err := s.service.JumpTo(s.ctx, app.ID, step.Medical)
		s.Require().NoError(err)
		s.Require().NotNil(res.StepRefusal)
		s.Equal(step.Owner, res.Application.Steps.Active)
		s.Len(res.Application.Notices, 1)
	})

	s.Run("unknown step is invalid input", func() {
		_, err := s.service.JumpTo(s.ctx, app.ID, step.Step(42))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("notices can be dismissed", func() {
		res, err := s.service.DismissNotices(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Empty(res.Application.Notices)
	})

	s.Run("back keeps completion and revoke lowers it", func() {
		s.seed(app.ID, func(app *application.Application) { moveTo(app, step.Medical) })

		res, err := s.service.GoBack(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(step.Coverage, res.Application.Steps.Active)
		s.True(res.Application.Steps.IsComplete(step.Coverage))

		res, err = s.service.ForceRevoke(s.ctx, app.ID, step.Coverage)
		s.Require().NoError(err)
		s.False(res.Application.Steps.IsComplete(step.Coverage))

		res, err = s.service.JumpTo(s.ctx, app.ID, step.Medical)
		s.Require().NoError(err)
		s.NotNil(res.StepRefusal)
	})
}

func (s *ServiceSuite) TestAuditTrailWithoutLister() {
	events, err := s.service.AuditTrail(s.ctx, id.NewApplicationID())
	s.Require().NoError(err)
	s.Empty(events)
	s.Equal([]audit.Event{}, events)
}
