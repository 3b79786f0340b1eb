package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

func TestCaseInsertRequestToDomain(t *testing.T) {
	req := CaseInsertRequest{
		ID:             "c1",
		Name:           "HVAC quarterly inspection",
		PlannedStart:   "2025-01-15T08:00:00Z",
		PlannedEnd:     "2025-01-15T17:00:00Z",
		OfferCreatedAt: strField("2025-01-05T10:30:00Z"),
		StaffIDs:       []string{"s1", "s2"},
	}

	mc, staffIDs, err := req.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, "c1", mc.ID)
	assert.Equal(t, time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC), mc.PlannedStart)
	require.NotNil(t, mc.OfferCreatedAt)
	assert.Nil(t, mc.OfferAcceptedAt)
	assert.Equal(t, []string{"s1", "s2"}, staffIDs)
}

func TestCaseInsertRequestMissingFields(t *testing.T) {
	_, _, err := CaseInsertRequest{Name: "x"}.ToDomain()
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "plannedStart")
	assert.Contains(t, domainErr.Details, "plannedEnd")
}

func TestCaseUpdateRequestColumns(t *testing.T) {
	var req CaseUpdateRequest
	body := `{
		"id": "c1",
		"name": "Generator oil change",
		"estimatedHours": null,
		"offerAcceptedAt": "2025-01-21T15:45:00Z",
		"invoicePaidAt": null,
		"staffIds": ["s1"]
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	cols, err := req.Columns()
	require.NoError(t, err)

	byColumn := map[string]any{}
	for _, col := range cols {
		byColumn[col.Column] = col.Value
	}

	assert.Equal(t, "Generator oil change", byColumn["name"])
	assert.Nil(t, byColumn["estimated_hours"])
	assert.Equal(t, time.Date(2025, time.January, 21, 15, 45, 0, 0, time.UTC), byColumn["offer_accepted_at"])
	assert.Nil(t, byColumn["invoice_paid_at"])

	// Absent fields produce no column update at all.
	assert.NotContains(t, byColumn, "planned_start")
	assert.NotContains(t, byColumn, "estimated_costs")

	require.NotNil(t, req.StaffIDs)
	assert.Equal(t, []string{"s1"}, *req.StaffIDs)
}

func TestCaseUpdateRequestAbsentStaffIDs(t *testing.T) {
	var req CaseUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","name":"x"}`), &req))
	assert.Nil(t, req.StaffIDs)
}

func TestCaseUpdateRequestRejectsNullRequiredColumns(t *testing.T) {
	var req CaseUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","name":null}`), &req))

	_, err := req.Columns()
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "name")
}

func TestCaseUpdateRequestRejectsNullPlannedStart(t *testing.T) {
	var req CaseUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","plannedStart":null}`), &req))

	_, err := req.Columns()
	assert.Error(t, err)
}

func TestStaffUpdateRequestColumns(t *testing.T) {
	var req StaffUpdateRequest
	body := `{"id":"s1","firstName":"Julia","phone":null,"birthday":"1990-04-01","vacationDaysUsed":3}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	cols, err := req.Columns()
	require.NoError(t, err)

	byColumn := map[string]any{}
	for _, col := range cols {
		byColumn[col.Column] = col.Value
	}
	assert.Equal(t, "Julia", byColumn["first_name"])
	assert.Nil(t, byColumn["phone"])
	assert.Equal(t, 3, byColumn["vacation_days_used"])
	assert.Equal(t, time.Date(1990, time.April, 1, 0, 0, 0, 0, time.UTC), byColumn["birthday"])
}

func TestStaffInsertRequestDefaults(t *testing.T) {
	staff, err := StaffInsertRequest{
		FirstName: "Anna",
		LastName:  "Lenz",
		Email:     "anna.lenz@checkpad.dev",
	}.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 30, staff.VacationDaysTotal)
	assert.True(t, staff.IsActive)
	assert.Nil(t, staff.Birthday)
}

func TestAssignmentInsertRequestRequiresReferences(t *testing.T) {
	_, err := AssignmentInsertRequest{CaseID: "c1"}.ToDomain()
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "staffId")
}

func strField(value string) *string {
	return &value
}
