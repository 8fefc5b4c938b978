// Package allocation keeps percentage rows consistent inside named buckets:
// primary and contingent beneficiaries per coverage, and the application's
// payors.
package allocation

import (
	"fmt"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// Kind is the bucket type.
type Kind string

const (
	KindPrimary    Kind = "primary"
	KindContingent Kind = "contingent"
	KindPayor      Kind = "payor"
)

// ParseKind validates a bucket type.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPrimary, KindContingent, KindPayor:
		return k, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "allocation type must be primary, contingent or payor")
	}
}

// IsBeneficiary reports whether rows of this kind target beneficiaries.
func (k Kind) IsBeneficiary() bool {
	return k == KindPrimary || k == KindContingent
}

// MinRows is the smallest row count removal may leave behind.
func MinRows(k Kind) int {
	if k == KindPrimary {
		return 1
	}
	return 0
}

// BucketKey names one bucket. The payor bucket has no coverage.
type BucketKey struct {
	CoverageID string `json:"coverageId,omitempty"`
	Kind       Kind   `json:"type"`
}

// NewBucketKey validates a key.
func NewBucketKey(coverageID string, kind Kind) (BucketKey, error) {
	coverageID = strings.TrimSpace(coverageID)
	switch {
	case kind == KindPayor && coverageID != "":
		return BucketKey{}, dErrors.New(dErrors.CodeInvalidInput, "payor allocations are not per coverage")
	case kind.IsBeneficiary() && coverageID == "":
		return BucketKey{}, dErrors.New(dErrors.CodeInvalidInput, "beneficiary allocations need a coverage id")
	case !kind.IsBeneficiary() && kind != KindPayor:
		_, err := ParseKind(string(kind))
		return BucketKey{}, err
	}
	return BucketKey{CoverageID: coverageID, Kind: kind}, nil
}

// PayorBucket is the application's single payor bucket.
func PayorBucket() BucketKey {
	return BucketKey{Kind: KindPayor}
}

func (k BucketKey) String() string {
	if k.CoverageID == "" {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s/%s", k.CoverageID, k.Kind)
}

// Row is one percentage-bearing allocation. TargetID zero means the row is
// not linked to a beneficiary or payor yet.
type Row struct {
	ID             int     `json:"id"`
	TargetID       int     `json:"targetId"`
	Percent        float64 `json:"allocationPercent"`
	Relationship   string  `json:"relationship,omitempty"`
	RelatedInsured string  `json:"relatedInsured,omitempty"`
}

// IsLinked reports whether the row has a target identity.
func (r Row) IsLinked() bool { return r.TargetID > 0 }

// Bucket is an ordered row collection.
type Bucket struct {
	Key  BucketKey `json:"key"`
	Rows []Row     `json:"rows"`
	// Overridden is set by a manual percent edit and cleared by redistribution.
	Overridden bool `json:"overridden"`
}

func seed(key BucketKey) Bucket {
	b := Bucket{Key: key, Rows: []Row{}}
	if key.Kind == KindPrimary || key.Kind == KindPayor {
		b.Rows = append(b.Rows, Row{ID: 1, Percent: 100})
	}
	return b
}

func (b *Bucket) find(rowID int) int {
	for i := range b.Rows {
		if b.Rows[i].ID == rowID {
			return i
		}
	}
	return -1
}

func (b *Bucket) nextRowID() int {
	next := 1
	for _, r := range b.Rows {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

func (b *Bucket) total() float64 {
	var sum float64
	for _, r := range b.Rows {
		sum += r.Percent
	}
	return Round2(sum)
}
