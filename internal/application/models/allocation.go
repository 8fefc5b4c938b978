package models

import (
	"intake/internal/allocation"
	"intake/internal/party"
)

// AllocationSaveRequest is the body of the beneficiary allocation save call.
type AllocationSaveRequest struct {
	ApplicationFormNumber  string                  `json:"applicationFormNumber"`
	BeneficiaryAllocations []BeneficiaryAllocation `json:"beneficiaryAllocations"`
}

type BeneficiaryAllocation struct {
	RoleGUID              string  `json:"roleGUID"`
	CoverageID            string  `json:"coverageId"`
	Type                  string  `json:"type"`
	RelationshipToInsured string  `json:"relationshipToInsured"`
	RelatedInsured        string  `json:"relatedInsured"`
	Allocation            float64 `json:"allocation"`
}

// UnresolvedRow is a row left out of the save because its beneficiary has no
// server-issued role identifier yet.
type UnresolvedRow struct {
	Key   allocation.BucketKey `json:"key"`
	RowID int                  `json:"rowId"`
}

// NewAllocationSaveRequest renders the beneficiary rows of the given buckets.
// Unlinked rows are ignored. Rows whose beneficiary lacks a RoleGUID are not
// sent and are returned as unresolved.
func NewAllocationSaveRequest(
	applicationNumber string,
	engine *allocation.Engine,
	keys []allocation.BucketKey,
	beneficiaries []party.Party,
) (AllocationSaveRequest, []UnresolvedRow) {
	req := AllocationSaveRequest{
		ApplicationFormNumber:  applicationNumber,
		BeneficiaryAllocations: []BeneficiaryAllocation{},
	}
	var unresolved []UnresolvedRow
	for _, key := range keys {
		if !key.Kind.IsBeneficiary() {
			continue
		}
		for _, row := range engine.Rows(key) {
			if !row.IsLinked() {
				continue
			}
			i := party.Find(beneficiaries, row.TargetID)
			if i < 0 || beneficiaries[i].RoleGUID.IsNil() {
				unresolved = append(unresolved, UnresolvedRow{Key: key, RowID: row.ID})
				continue
			}
			req.BeneficiaryAllocations = append(req.BeneficiaryAllocations, BeneficiaryAllocation{
				RoleGUID:              beneficiaries[i].RoleGUID.String(),
				CoverageID:            key.CoverageID,
				Type:                  string(key.Kind),
				RelationshipToInsured: row.Relationship,
				RelatedInsured:        row.RelatedInsured,
				Allocation:            row.Percent,
			})
		}
	}
	return req, unresolved
}
