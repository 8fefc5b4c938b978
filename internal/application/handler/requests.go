package handler

import (
	"math"
	"strings"

	"intake/internal/allocation"
	"intake/internal/coverage"
	"intake/internal/party"
	"intake/internal/wizard/step"
	dErrors "intake/pkg/domain-errors"
)

type addPartyRequest struct {
	OwnerType string `json:"ownerType"`

	kind party.Kind
}

func (r *addPartyRequest) Validate() error {
	if strings.TrimSpace(r.OwnerType) == "" {
		r.OwnerType = string(party.KindIndividual)
	}
	kind, err := party.ParseKind(r.OwnerType)
	if err != nil {
		return err
	}
	r.kind = kind
	return nil
}

type editFieldRequest struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   string `json:"value"`

	section party.Section
}

func (r *editFieldRequest) Validate() error {
	r.Field = strings.TrimSpace(r.Field)
	if r.Field == "" {
		return dErrors.New(dErrors.CodeValidation, "field is required")
	}
	sec, err := party.ParseSection(r.Section)
	if err != nil {
		return err
	}
	r.section = sec
	return nil
}

type stepRequest struct {
	Step string `json:"step"`

	target step.Step
}

func (r *stepRequest) Validate() error {
	target, err := step.Parse(r.Step)
	if err != nil {
		return err
	}
	r.target = target
	return nil
}

type productRequest struct {
	PlanCode    string `json:"planCode"`
	ProductCode string `json:"productCode"`
	Name        string `json:"name"`
}

func (r *productRequest) Validate() error {
	r.PlanCode = strings.TrimSpace(r.PlanCode)
	if r.PlanCode == "" {
		return dErrors.New(dErrors.CodeValidation, "planCode is required")
	}
	return nil
}

func (r *productRequest) product() coverage.Product {
	return coverage.Product{PlanCode: r.PlanCode, ProductCode: strings.TrimSpace(r.ProductCode), Name: r.Name}
}

// fieldRequest is a single field-change event outside a party section.
type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (r *fieldRequest) Validate() error {
	r.Field = strings.TrimSpace(r.Field)
	if r.Field == "" {
		return dErrors.New(dErrors.CodeValidation, "field is required")
	}
	return nil
}

type riderRequest struct {
	RiderType string `json:"riderType"`
}

func (r *riderRequest) Validate() error {
	_, err := coverage.ParseRiderType(r.RiderType)
	return err
}

type insuredRequest struct {
	OwnerType string            `json:"ownerType"`
	Fields    map[string]string `json:"fields"`

	kind party.Kind
}

func (r *insuredRequest) Validate() error {
	if strings.TrimSpace(r.OwnerType) == "" {
		r.OwnerType = string(party.KindIndividual)
	}
	kind, err := party.ParseKind(r.OwnerType)
	if err != nil {
		return err
	}
	r.kind = kind
	return nil
}

type insuredPatchRequest struct {
	Fields map[string]string `json:"fields"`
}

func (r *insuredPatchRequest) Validate() error {
	if len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "fields are required")
	}
	return nil
}

type medicalAnswerRequest struct {
	Value   string `json:"value"`
	Details string `json:"details"`
}

func (r *medicalAnswerRequest) Validate() error {
	if strings.TrimSpace(r.Value) == "" {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	return nil
}

type rowRequest struct {
	CoverageID string `json:"coverageId"`
}

func (r *rowRequest) Validate() error { return nil }

// rowPatchRequest carries any combination of row edits. They are applied
// as link, describe, then percent.
type rowPatchRequest struct {
	CoverageID     string   `json:"coverageId"`
	TargetID       *int     `json:"targetId"`
	Relationship   *string  `json:"relationshipToInsured"`
	RelatedInsured *string  `json:"relatedInsured"`
	Percent        *float64 `json:"allocation"`
}

func (r *rowPatchRequest) Validate() error {
	if r.TargetID == nil && r.Relationship == nil && r.RelatedInsured == nil && r.Percent == nil {
		return dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	if r.Percent != nil && (math.IsNaN(*r.Percent) || *r.Percent < 0 || *r.Percent > 100) {
		return dErrors.New(dErrors.CodeValidation, "allocation must be between 0 and 100")
	}
	return nil
}

type dismissRequest struct {
	IDs []int `json:"ids"`
}

func (r *dismissRequest) Validate() error { return nil }

func bucketKey(kind, coverageID string) (allocation.BucketKey, error) {
	k, err := allocation.ParseKind(kind)
	if err != nil {
		return allocation.BucketKey{}, err
	}
	return allocation.NewBucketKey(coverageID, k)
}
