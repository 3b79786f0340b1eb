package dto

import (
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/repository"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// StaffInsertRequest is the full new record for POST /api/staff.
type StaffInsertRequest struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Email             string   `json:"email"`
	Phone             *string  `json:"phone"`
	Birthday          *string  `json:"birthday"`
	HourlyRate        *float64 `json:"hourlyRate"`
	VacationDaysTotal *int     `json:"vacationDaysTotal"`
	VacationDaysUsed  *int     `json:"vacationDaysUsed"`
	SickDaysUsed      *int     `json:"sickDaysUsed"`
	IsActive          *bool    `json:"isActive"`
	CreatedAt         *string  `json:"createdAt"`
	UpdatedAt         *string  `json:"updatedAt"`
}

// ToDomain validates the request and applies the schema defaults.
func (r StaffInsertRequest) ToDomain() (*domain.Staff, error) {
	details := map[string]any{}
	if r.FirstName == "" {
		details["firstName"] = "required"
	}
	if r.LastName == "" {
		details["lastName"] = "required"
	}
	if r.Email == "" {
		details["email"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", details)
	}

	birthday, err := parseOptionalTimestamp("birthday", r.Birthday)
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

	staff := &domain.Staff{
		ID:                r.ID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		Birthday:          birthday,
		HourlyRate:        r.HourlyRate,
		VacationDaysTotal: 30,
		IsActive:          true,
	}
	if r.VacationDaysTotal != nil {
		staff.VacationDaysTotal = *r.VacationDaysTotal
	}
	if r.VacationDaysUsed != nil {
		staff.VacationDaysUsed = *r.VacationDaysUsed
	}
	if r.SickDaysUsed != nil {
		staff.SickDaysUsed = *r.SickDaysUsed
	}
	if r.IsActive != nil {
		staff.IsActive = *r.IsActive
	}
	if createdAt != nil {
		staff.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		staff.UpdatedAt = *updatedAt
	}
	return staff, nil
}

// StaffUpdateRequest carries the id plus changed fields for PUT /api/staff.
type StaffUpdateRequest struct {
	ID                string         `json:"id"`
	FirstName         Field[string]  `json:"firstName"`
	LastName          Field[string]  `json:"lastName"`
	Email             Field[string]  `json:"email"`
	Phone             Field[string]  `json:"phone"`
	Birthday          Field[string]  `json:"birthday"`
	HourlyRate        Field[float64] `json:"hourlyRate"`
	VacationDaysTotal Field[int]     `json:"vacationDaysTotal"`
	VacationDaysUsed  Field[int]     `json:"vacationDaysUsed"`
	SickDaysUsed      Field[int]     `json:"sickDaysUsed"`
	IsActive          Field[bool]    `json:"isActive"`
}

// Columns maps the present fields onto column updates.
func (r StaffUpdateRequest) Columns() ([]repository.ColumnUpdate, error) {
	var cols []repository.ColumnUpdate

	add, err := columnAdder(&cols)

	add("first_name", "firstName", r.FirstName, false)
	add("last_name", "lastName", r.LastName, false)
	add("email", "email", r.Email, false)
	add("phone", "phone", r.Phone, true)
	add("hourly_rate", "hourlyRate", r.HourlyRate, true)
	add("vacation_days_total", "vacationDaysTotal", r.VacationDaysTotal, false)
	add("vacation_days_used", "vacationDaysUsed", r.VacationDaysUsed, false)
	add("sick_days_used", "sickDaysUsed", r.SickDaysUsed, false)
	add("is_active", "isActive", r.IsActive, false)

	if addErr := err(); addErr != nil {
		return nil, addErr
	}

	if err := addTimestampColumn(&cols, "birthday", "birthday", r.Birthday, true); err != nil {
		return nil, err
	}
	return cols, nil
}
