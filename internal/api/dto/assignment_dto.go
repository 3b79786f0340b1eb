package dto

import (
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/repository"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// AssignmentInsertRequest is the new record for POST /api/maintenance-case-staff.
type AssignmentInsertRequest struct {
	ID         string  `json:"id"`
	CaseID     string  `json:"caseId"`
	StaffID    string  `json:"staffId"`
	AssignedAt *string `json:"assignedAt"`
	AssignedBy *string `json:"assignedBy"`
	CreatedAt  *string `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

// ToDomain validates the request.
func (r AssignmentInsertRequest) ToDomain() (*domain.CaseStaffAssignment, error) {
	details := map[string]any{}
	if r.CaseID == "" {
		details["caseId"] = "required"
	}
	if r.StaffID == "" {
		details["staffId"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", details)
	}

	assignedAt, err := parseOptionalTimestamp("assignedAt", r.AssignedAt)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseOptionalTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseOptionalTimestamp("updatedAt", r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	assignment := &domain.CaseStaffAssignment{
		ID:      r.ID,
		CaseID:  r.CaseID,
		StaffID: r.StaffID,
	}
	if assignedAt != nil {
		assignment.AssignedAt = *assignedAt
	}
	if r.AssignedBy != nil {
		assignment.AssignedBy = *r.AssignedBy
	}
	if createdAt != nil {
		assignment.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		assignment.UpdatedAt = *updatedAt
	}
	return assignment, nil
}

// AssignmentUpdateRequest carries the id plus changed fields for
// PUT /api/maintenance-case-staff.
type AssignmentUpdateRequest struct {
	ID         string        `json:"id"`
	CaseID     Field[string] `json:"caseId"`
	StaffID    Field[string] `json:"staffId"`
	AssignedAt Field[string] `json:"assignedAt"`
	AssignedBy Field[string] `json:"assignedBy"`
}

// Columns maps the present fields onto column updates.
func (r AssignmentUpdateRequest) Columns() ([]repository.ColumnUpdate, error) {
	var cols []repository.ColumnUpdate

	add, err := columnAdder(&cols)
	add("case_id", "caseId", r.CaseID, false)
	add("staff_id", "staffId", r.StaffID, false)
	add("assigned_by", "assignedBy", r.AssignedBy, false)
	if addErr := err(); addErr != nil {
		return nil, addErr
	}

	if err := addTimestampColumn(&cols, "assigned_at", "assignedAt", r.AssignedAt, false); err != nil {
		return nil, err
	}
	return cols, nil
}

// DeleteRequest is the body for DELETE on every entity endpoint.
type DeleteRequest struct {
	ID string `json:"id"`
}

// TxResponse is the success body for every mutation endpoint.
type TxResponse struct {
	TxID int64 `json:"txid"`
}
