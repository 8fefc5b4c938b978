package adapters

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"intake/internal/allocation"
	"intake/internal/application/models"
	"intake/internal/application/service"
	"intake/internal/payment"
	"intake/internal/premium"
)

// Annual premium per thousand of face amount, by underwriting class.
var localRates = map[string]float64{
	"preferred plus": 0.9,
	"preferred":      1.1,
	"standard plus":  1.3,
	"standard":       1.6,
}

const (
	defaultLocalRate = 2.0
	riderRate        = 0.4
)

// LocalBackend stands in for the carrier in development: it issues fresh
// GUIDs for every saved party and prices coverages from a flat rate table.
// Saved allocations and payments are kept for inspection.
type LocalBackend struct {
	mu          sync.Mutex
	allocations []models.AllocationSaveRequest
	payments    []payment.SaveDocument
}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{}
}

// SaveParties keeps the client guid of parties that already have one.
func (b *LocalBackend) SaveParties(_ context.Context, req models.PartySaveRequest) (models.PartySaveResponse, error) {
	resp := models.PartySaveResponse{Owners: make([]models.SavedParty, 0, len(req.Owners))}
	for _, rec := range req.Owners {
		clientGUID := rec.ClientGUID
		if clientGUID == "" || clientGUID == uuid.Nil.String() {
			clientGUID = uuid.NewString()
		}
		saved := models.SavedParty{
			LocalID:    rec.LocalID,
			ClientGUID: clientGUID,
			RoleGUID:   uuid.NewString(),
		}
		for _, addr := range rec.Addresses {
			saved.Addresses = append(saved.Addresses, models.SavedAddress{Type: addr.Type, AddressGUID: uuid.NewString()})
		}
		resp.Owners = append(resp.Owners, saved)
	}
	return resp, nil
}

func (b *LocalBackend) SaveAllocations(_ context.Context, req models.AllocationSaveRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocations = append(b.allocations, req)
	return nil
}

func (b *LocalBackend) SavePayment(_ context.Context, doc payment.SaveDocument) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payments = append(b.payments, doc)
	return nil
}

// CalculatePremium answers in the carrier's response shape.
func (b *LocalBackend) CalculatePremium(_ context.Context, doc *premium.RequestDocument) (map[string]any, error) {
	perCoverage := map[string]any{}
	var total float64
	for _, c := range doc.Coverages {
		d := c.CoverageDetails
		rate, ok := localRates[strings.ToLower(strings.TrimSpace(d.UnderwritingClass))]
		if !ok {
			rate = defaultLocalRate
		}
		if d.TableRating > 0 {
			rate *= 1 + float64(d.TableRating)/100
		}
		thousands := float64(d.FaceAmount) / 1000
		amount := thousands*rate + thousands*d.FlatExtraAmount
		for _, r := range c.Riders {
			amount += float64(r.FaceAmount) / 1000 * riderRate
		}
		amount = allocation.Round2(amount)
		perCoverage[c.CoverageID] = amount
		total += amount
	}
	return map[string]any{
		"totalAnnualPremium": allocation.Round2(total),
		"semiAnnualPremium":  allocation.Round2(total * 0.51),
		"quarterlyPremium":   allocation.Round2(total * 0.26),
		"monthlyPremium":     allocation.Round2(total * 0.0875),
		"coveragePremiums":   perCoverage,
	}, nil
}

// Allocations returns the allocation saves received so far.
func (b *LocalBackend) Allocations() []models.AllocationSaveRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.AllocationSaveRequest(nil), b.allocations...)
}

// Payments returns the payment saves received so far.
func (b *LocalBackend) Payments() []payment.SaveDocument {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]payment.SaveDocument(nil), b.payments...)
}

var _ service.Backend = (*LocalBackend)(nil)
