// Package handler exposes the intake wizard over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"intake/internal/allocation"
	"intake/internal/application"
	"intake/internal/application/service"
	"intake/internal/coverage"
	"intake/internal/medical"
	"intake/internal/party"
	"intake/internal/wizard/step"
	id "intake/pkg/domain"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/audit"
	"intake/pkg/platform/httputil"
	"intake/pkg/requestcontext"
)

// Service is the wizard surface the handler drives.
type Service interface {
	Questionnaire() []medical.Question
	Start(ctx context.Context) (*application.Application, error)
	Get(ctx context.Context, appID id.ApplicationID) (*application.Application, error)
	AuditTrail(ctx context.Context, appID id.ApplicationID) ([]audit.Event, error)

	AddParty(ctx context.Context, appID id.ApplicationID, role application.Role, kind party.Kind) (*service.Result, error)
	EditPartyField(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section, field, value string) (*service.Result, error)
	ExpandSection(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section) (*service.Result, error)
	CollapseSection(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int, sec party.Section) (*service.Result, error)
	RemoveParty(ctx context.Context, appID id.ApplicationID, role application.Role, partyID int) (*service.Result, error)
	AddPayorFromOwner(ctx context.Context, appID id.ApplicationID, ownerID int) (*service.Result, error)

	SetProduct(ctx context.Context, appID id.ApplicationID, product coverage.Product) (*service.Result, error)
	EditCoverageField(ctx context.Context, appID id.ApplicationID, coverageID, field, value string) (*service.Result, error)
	AddAdditionalCoverage(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	RemoveAdditionalCoverage(ctx context.Context, appID id.ApplicationID, additionalID int) (*service.Result, error)
	AddRider(ctx context.Context, appID id.ApplicationID, riderType string) (*service.Result, error)
	RemoveRider(ctx context.Context, appID id.ApplicationID, riderID int) (*service.Result, error)
	ImportInsureds(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	AddInsured(ctx context.Context, appID id.ApplicationID, kind party.Kind, fields map[string]string) (*service.Result, error)
	UpdateInsured(ctx context.Context, appID id.ApplicationID, insuredID int, patch map[string]string) (*service.Result, error)
	RemoveInsured(ctx context.Context, appID id.ApplicationID, insuredID int) (*service.Result, error)
	AnswerMedical(ctx context.Context, appID id.ApplicationID, questionID, value, details string) (*service.Result, error)

	AddAllocationRow(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey) (*service.Result, error)
	RemoveAllocationRow(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int) (*service.Result, error)
	SetAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int, percent float64) (*service.Result, error)
	LinkAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID, targetID int) (*service.Result, error)
	DescribeAllocation(ctx context.Context, appID id.ApplicationID, key allocation.BucketKey, rowID int, relationship, relatedInsured string) (*service.Result, error)

	SetPaymentField(ctx context.Context, appID id.ApplicationID, field, value string) (*service.Result, error)
	Review(ctx context.Context, appID id.ApplicationID) (*service.Result, error)

	Continue(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	ContinueOwners(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	ContinueCoverage(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	ContinueMedical(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	ContinueBeneficiaries(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	ContinuePayment(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	GoBack(ctx context.Context, appID id.ApplicationID) (*service.Result, error)
	JumpTo(ctx context.Context, appID id.ApplicationID, target step.Step) (*service.Result, error)
	ForceRevoke(ctx context.Context, appID id.ApplicationID, target step.Step) (*service.Result, error)
	DismissNotices(ctx context.Context, appID id.ApplicationID, noticeIDs ...int) (*service.Result, error)
}

// Handler serves the /applications routes.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: svc}
}

// Register mounts the wizard routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.handleStart)
		r.Get("/questionnaire", h.handleQuestionnaire)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Get("/audit", h.handleAudit)

			h.registerParties(r, "/owners", application.RoleOwner)
			h.registerParties(r, "/beneficiaries", application.RoleBeneficiary)
			h.registerParties(r, "/payors", application.RolePayor)
			r.Post("/payors/from-owner/{ownerID}", h.handleAddPayorFromOwner)

			r.Route("/coverage", func(r chi.Router) {
				r.Put("/product", h.handleSetProduct)
				r.Post("/additional", h.handleAddAdditional)
				r.Delete("/additional/{additionalID}", h.handleRemoveAdditional)
				r.Post("/riders", h.handleAddRider)
				r.Delete("/riders/{riderID}", h.handleRemoveRider)
				r.Post("/insureds", h.handleAddInsured)
				r.Post("/insureds/import", h.handleImportInsureds)
				r.Patch("/insureds/{insuredID}", h.handleUpdateInsured)
				r.Delete("/insureds/{insuredID}", h.handleRemoveInsured)
				r.Patch("/{coverageID}", h.handleEditCoverage)
			})

			r.Put("/medical/{questionID}", h.handleAnswerMedical)

			r.Route("/allocations/{kind}/rows", func(r chi.Router) {
				r.Post("/", h.handleAddRow)
				r.Patch("/{rowID}", h.handleUpdateRow)
				r.Delete("/{rowID}", h.handleRemoveRow)
			})

			r.Patch("/payment", h.handleSetPaymentField)
			r.Post("/review", h.handleReview)
			r.Post("/notices/dismiss", h.handleDismissNotices)

			r.Route("/steps", func(r chi.Router) {
				r.Post("/next", h.handleNext)
				r.Post("/back", h.handleBack)
				r.Post("/jump", h.handleJump)
				r.Post("/revoke", h.handleRevoke)
				r.Post("/{step}/continue", h.handleContinueStep)
			})
		})
	})
}

func (h *Handler) registerParties(r chi.Router, prefix string, role application.Role) {
	r.Route(prefix, func(r chi.Router) {
		r.Post("/", h.partyOp(role, h.addParty))
		r.Patch("/{partyID}", h.partyOp(role, h.editParty))
		r.Delete("/{partyID}", h.partyOp(role, h.removeParty))
		r.Post("/{partyID}/sections/{section}/expand", h.partyOp(role, h.expandSection))
		r.Post("/{partyID}/sections/{section}/collapse", h.partyOp(role, h.collapseSection))
	})
}

type partyFunc func(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role)

func (h *Handler) partyOp(role application.Role, fn partyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appID, ok := h.applicationID(w, r)
		if !ok {
			return
		}
		fn(w, r, appID, role)
	}
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := h.service.Start(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to start application", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, applicationResponse(app))
}

func (h *Handler) handleQuestionnaire(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"questions": h.service.Questionnaire()})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	app, err := h.service.Get(r.Context(), appID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load application", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, applicationResponse(app))
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	events, err := h.service.AuditTrail(r.Context(), appID)
	if err != nil {
		h.fail(r.Context(), w, "failed to list audit events", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) addParty(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role) {
	req, ok := decode[addPartyRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.AddParty(r.Context(), appID, role, req.kind)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) editParty(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role) {
	partyID, ok := h.intParam(w, r, "partyID")
	if !ok {
		return
	}
	req, ok := decode[editFieldRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.EditPartyField(r.Context(), appID, role, partyID, req.section, req.Field, req.Value)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) removeParty(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role) {
	partyID, ok := h.intParam(w, r, "partyID")
	if !ok {
		return
	}
	res, err := h.service.RemoveParty(r.Context(), appID, role, partyID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) expandSection(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role) {
	partyID, sec, ok := h.sectionParams(w, r)
	if !ok {
		return
	}
	res, err := h.service.ExpandSection(r.Context(), appID, role, partyID, sec)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) collapseSection(w http.ResponseWriter, r *http.Request, appID id.ApplicationID, role application.Role) {
	partyID, sec, ok := h.sectionParams(w, r)
	if !ok {
		return
	}
	res, err := h.service.CollapseSection(r.Context(), appID, role, partyID, sec)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAddPayorFromOwner(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	ownerID, ok := h.intParam(w, r, "ownerID")
	if !ok {
		return
	}
	res, err := h.service.AddPayorFromOwner(r.Context(), appID, ownerID)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) handleSetProduct(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[productRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.SetProduct(r.Context(), appID, req.product())
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleEditCoverage(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[fieldRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.EditCoverageField(r.Context(), appID, chi.URLParam(r, "coverageID"), req.Field, req.Value)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAddAdditional(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.AddAdditionalCoverage(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) handleRemoveAdditional(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	additionalID, ok := h.intParam(w, r, "additionalID")
	if !ok {
		return
	}
	res, err := h.service.RemoveAdditionalCoverage(r.Context(), appID, additionalID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAddRider(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[riderRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.AddRider(r.Context(), appID, req.RiderType)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) handleRemoveRider(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	riderID, ok := h.intParam(w, r, "riderID")
	if !ok {
		return
	}
	res, err := h.service.RemoveRider(r.Context(), appID, riderID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAddInsured(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[insuredRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.AddInsured(r.Context(), appID, req.kind, req.Fields)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) handleImportInsureds(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.ImportInsureds(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleUpdateInsured(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	insuredID, ok := h.intParam(w, r, "insuredID")
	if !ok {
		return
	}
	req, ok := decode[insuredPatchRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.UpdateInsured(r.Context(), appID, insuredID, req.Fields)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleRemoveInsured(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	insuredID, ok := h.intParam(w, r, "insuredID")
	if !ok {
		return
	}
	res, err := h.service.RemoveInsured(r.Context(), appID, insuredID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAnswerMedical(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[medicalAnswerRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.AnswerMedical(r.Context(), appID, chi.URLParam(r, "questionID"), req.Value, req.Details)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleAddRow(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[rowRequest](h, w, r)
	if !ok {
		return
	}
	key, err := bucketKey(chi.URLParam(r, "kind"), req.CoverageID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.AddAllocationRow(r.Context(), appID, key)
	h.respond(w, r, res, err, http.StatusCreated)
}

func (h *Handler) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	rowID, ok := h.intParam(w, r, "rowID")
	if !ok {
		return
	}
	req, ok := decode[rowPatchRequest](h, w, r)
	if !ok {
		return
	}
	key, err := bucketKey(chi.URLParam(r, "kind"), req.CoverageID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx := r.Context()
	var res *service.Result
	if req.TargetID != nil {
		if res, err = h.service.LinkAllocation(ctx, appID, key, rowID, *req.TargetID); err != nil {
			h.respond(w, r, nil, err, http.StatusOK)
			return
		}
	}
	if req.Relationship != nil || req.RelatedInsured != nil {
		if res, err = h.service.DescribeAllocation(ctx, appID, key, rowID, deref(req.Relationship), deref(req.RelatedInsured)); err != nil {
			h.respond(w, r, nil, err, http.StatusOK)
			return
		}
	}
	if req.Percent != nil {
		res, err = h.service.SetAllocation(ctx, appID, key, rowID, *req.Percent)
	}
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	rowID, ok := h.intParam(w, r, "rowID")
	if !ok {
		return
	}
	key, err := bucketKey(chi.URLParam(r, "kind"), r.URL.Query().Get("coverageId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.RemoveAllocationRow(r.Context(), appID, key, rowID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleSetPaymentField(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[fieldRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.SetPaymentField(r.Context(), appID, req.Field, req.Value)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.Review(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleDismissNotices(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[dismissRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.DismissNotices(r.Context(), appID, req.IDs...)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.Continue(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	res, err := h.service.GoBack(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[stepRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.JumpTo(r.Context(), appID, req.target)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	req, ok := decode[stepRequest](h, w, r)
	if !ok {
		return
	}
	res, err := h.service.ForceRevoke(r.Context(), appID, req.target)
	h.respond(w, r, res, err, http.StatusOK)
}

// handleContinueStep runs the named step's continue action. It is refused
// unless that step is active.
func (h *Handler) handleContinueStep(w http.ResponseWriter, r *http.Request) {
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	target, err := step.Parse(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var fn func(context.Context, id.ApplicationID) (*service.Result, error)
	switch target {
	case step.Owner:
		fn = h.service.ContinueOwners
	case step.Coverage:
		fn = h.service.ContinueCoverage
	case step.Medical:
		fn = h.service.ContinueMedical
	case step.Beneficiary:
		fn = h.service.ContinueBeneficiaries
	case step.Payment:
		fn = h.service.ContinuePayment
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "the "+target.String()+" step has no continue action"))
		return
	}
	res, err := fn(r.Context(), appID)
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ApplicationID{}, false
	}
	return appID, true
}

func (h *Handler) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+name))
		return 0, false
	}
	return n, true
}

func (h *Handler) sectionParams(w http.ResponseWriter, r *http.Request) (int, party.Section, bool) {
	partyID, ok := h.intParam(w, r, "partyID")
	if !ok {
		return 0, "", false
	}
	sec, err := party.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, "", false
	}
	return partyID, sec, true
}

// respond writes a wizard result. Refusals are conflicts carrying the
// refusal, the visible errors and the current notices.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, res *service.Result, err error, status int) {
	if err != nil {
		h.fail(r.Context(), w, "wizard operation failed", err)
		return
	}
	if res.Refused() {
		httputil.WriteJSON(w, http.StatusConflict, refusalResponse(res))
		return
	}
	httputil.WriteJSON(w, status, resultResponse(res))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg, attrs...)
	case dErrors.CodeUnavailable:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.InfoContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func decode[T any, PT interface {
	*T
	httputil.Validatable
}](h *Handler, w http.ResponseWriter, r *http.Request) (*T, bool) {
	ctx := r.Context()
	return httputil.DecodeAndPrepare[T, PT](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
