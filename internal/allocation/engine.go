package allocation

import (
	"fmt"
	"math"
	"sort"

	dErrors "intake/pkg/domain-errors"
)

// Engine owns every bucket of one application.
//
// Buckets seed themselves on first use: primary and payor buckets start with
// one unlinked row at 100%, contingent buckets start empty. Reads never store
// a seeded bucket.
type Engine struct {
	Strategy Strategy `json:"strategy"`
	Buckets  []Bucket `json:"buckets"`
}

type Option func(*Engine)

func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.Strategy = s
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{Strategy: StrategyEqual, Buckets: []Bucket{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRow appends an unlinked row and redistributes the bucket evenly.
func (e *Engine) AddRow(key BucketKey) Row {
	b := e.ensure(key)
	row := Row{ID: b.nextRowID()}
	b.Rows = append(b.Rows, row)
	e.redistribute(b)
	return b.Rows[len(b.Rows)-1]
}

// RemoveRow deletes a row and redistributes the remaining rows evenly.
// Removal is refused when it would go below the kind's minimum row count.
func (e *Engine) RemoveRow(key BucketKey, rowID int) error {
	if view := e.view(key); view.find(rowID) >= 0 && len(view.Rows)-1 < MinRows(key.Kind) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s allocations need at least %d row", key.Kind, MinRows(key.Kind)))
	}
	b, i, err := e.locate(key, rowID)
	if err != nil {
		return err
	}
	b.Rows = append(b.Rows[:i], b.Rows[i+1:]...)
	e.redistribute(b)
	return nil
}

// SetAllocation overrides one row's percent. Sibling rows are not touched,
// so the bucket may no longer sum to 100.
func (e *Engine) SetAllocation(key BucketKey, rowID int, percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return dErrors.New(dErrors.CodeValidation, "allocation must be between 0 and 100")
	}
	b, i, err := e.locate(key, rowID)
	if err != nil {
		return err
	}
	b.Rows[i].Percent = Round2(percent)
	b.Overridden = true
	return nil
}

// LinkRow associates a row with a beneficiary or payor id. The percent is
// unchanged.
func (e *Engine) LinkRow(key BucketKey, rowID, targetID int) error {
	if targetID <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "target id must be positive")
	}
	b, i, err := e.locate(key, rowID)
	if err != nil {
		return err
	}
	b.Rows[i].TargetID = targetID
	return nil
}

// DescribeRow sets the beneficiary relationship fields of a row.
func (e *Engine) DescribeRow(key BucketKey, rowID int, relationship, relatedInsured string) error {
	b, i, err := e.locate(key, rowID)
	if err != nil {
		return err
	}
	b.Rows[i].Relationship = relationship
	b.Rows[i].RelatedInsured = relatedInsured
	return nil
}

// Rows returns a copy of the bucket's rows.
func (e *Engine) Rows(key BucketKey) []Row {
	b := e.view(key)
	return append([]Row(nil), b.Rows...)
}

// TotalAllocated returns the bucket sum rounded to two decimals.
func (e *Engine) TotalAllocated(key BucketKey) float64 {
	b := e.view(key)
	return b.total()
}

// IsBucketComplete reports whether every row is linked. Empty buckets are complete.
func (e *Engine) IsBucketComplete(key BucketKey) bool {
	for _, r := range e.view(key).Rows {
		if !r.IsLinked() {
			return false
		}
	}
	return true
}

// IsBalanced reports whether the bucket sums to 100 within the tolerance of
// count*0.01. Empty buckets are balanced.
func (e *Engine) IsBalanced(key BucketKey) bool {
	b := e.view(key)
	if len(b.Rows) == 0 {
		return true
	}
	tolerance := float64(len(b.Rows))*0.01 + 1e-9
	return math.Abs(b.total()-100) <= tolerance
}

// Imbalanced lists stored buckets that do not sum to 100.
func (e *Engine) Imbalanced() []BucketKey {
	var out []BucketKey
	for _, key := range e.Keys() {
		if !e.IsBalanced(key) {
			out = append(out, key)
		}
	}
	return out
}

// References lists the buckets holding a row linked to targetID. Kinds
// narrows the search; no kinds searches everything.
func (e *Engine) References(targetID int, kinds ...Kind) []BucketKey {
	var out []BucketKey
	for _, b := range e.Buckets {
		if len(kinds) > 0 && !containsKind(kinds, b.Key.Kind) {
			continue
		}
		for _, r := range b.Rows {
			if r.TargetID == targetID {
				out = append(out, b.Key)
				break
			}
		}
	}
	return out
}

// DropCoverage removes every bucket of a coverage.
func (e *Engine) DropCoverage(coverageID string) {
	kept := e.Buckets[:0]
	for _, b := range e.Buckets {
		if b.Key.CoverageID != coverageID || coverageID == "" {
			kept = append(kept, b)
		}
	}
	e.Buckets = kept
}

// Keys returns the stored bucket keys in a stable order.
func (e *Engine) Keys() []BucketKey {
	out := make([]BucketKey, 0, len(e.Buckets))
	for _, b := range e.Buckets {
		out = append(out, b.Key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Clone returns a deep copy.
func (e *Engine) Clone() *Engine {
	cp := &Engine{Strategy: e.Strategy, Buckets: make([]Bucket, len(e.Buckets))}
	for i, b := range e.Buckets {
		b.Rows = append([]Row{}, b.Rows...)
		cp.Buckets[i] = b
	}
	return cp
}

func (e *Engine) redistribute(b *Bucket) {
	shares := RounderFor(e.Strategy)(len(b.Rows))
	for i := range b.Rows {
		b.Rows[i].Percent = shares[i]
	}
	b.Overridden = false
}

func (e *Engine) ensure(key BucketKey) *Bucket {
	for i := range e.Buckets {
		if e.Buckets[i].Key == key {
			return &e.Buckets[i]
		}
	}
	e.Buckets = append(e.Buckets, seed(key))
	return &e.Buckets[len(e.Buckets)-1]
}

// locate resolves a row, storing its seeded bucket only when the row exists.
func (e *Engine) locate(key BucketKey, rowID int) (*Bucket, int, error) {
	view := e.view(key)
	if view.find(rowID) < 0 {
		return nil, -1, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("allocation row %d not found in %s", rowID, key))
	}
	b := e.ensure(key)
	return b, b.find(rowID), nil
}

func (e *Engine) view(key BucketKey) Bucket {
	for _, b := range e.Buckets {
		if b.Key == key {
			return b
		}
	}
	return seed(key)
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
