package dto

import (
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/repository"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// CaseInsertRequest is the full new record for POST /api/maintenance-cases.
// StaffIDs, when present, seeds the assignment join table in the same
// transaction.
type CaseInsertRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	EstimatedHours   *float64 `json:"estimatedHours"`
	EstimatedCosts   *float64 `json:"estimatedCosts"`
	PlannedStart     string   `json:"plannedStart"`
	PlannedEnd       string   `json:"plannedEnd"`
	OfferCreatedBy   *string  `json:"offerCreatedBy"`
	OfferCreatedAt   *string  `json:"offerCreatedAt"`
	OfferAcceptedAt  *string  `json:"offerAcceptedAt"`
	InvoiceCreatedBy *string  `json:"invoiceCreatedBy"`
	InvoiceCreatedAt *string  `json:"invoiceCreatedAt"`
	InvoicePaidAt    *string  `json:"invoicePaidAt"`
	CreatedAt        *string  `json:"createdAt"`
	UpdatedAt        *string  `json:"updatedAt"`
	StaffIDs         []string `json:"staffIds"`
}

// ToDomain validates the request and parses the timestamp strings.
func (r CaseInsertRequest) ToDomain() (*domain.MaintenanceCase, []string, error) {
	details := map[string]any{}
	if r.Name == "" {
		details["name"] = "required"
	}
	if r.PlannedStart == "" {
		details["plannedStart"] = "required"
	}
	if r.PlannedEnd == "" {
		details["plannedEnd"] = "required"
	}
	if len(details) > 0 {
		return nil, nil, apperrors.NewValidationError("missing required fields", details)
	}

	plannedStart, err := parseTimestamp("plannedStart", r.PlannedStart)
	if err != nil {
		return nil, nil, err
	}
	plannedEnd, err := parseTimestamp("plannedEnd", r.PlannedEnd)
	if err != nil {
		return nil, nil, err
	}
	offerCreatedAt, err := parseOptionalTimestamp("offerCreatedAt", r.OfferCreatedAt)
	if err != nil {
		return nil, nil, err
	}
	offerAcceptedAt, err := parseOptionalTimestamp("offerAcceptedAt", r.OfferAcceptedAt)
	if err != nil {
		return nil, nil, err
	}
	invoiceCreatedAt, err := parseOptionalTimestamp("invoiceCreatedAt", r.InvoiceCreatedAt)
	if err != nil {
		return nil, nil, err
	}
	invoicePaidAt, err := parseOptionalTimestamp("invoicePaidAt", r.InvoicePaidAt)
	if err != nil {
		return nil, nil, err
	}
	createdAt, err := parseOptionalTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	updatedAt, err := parseOptionalTimestamp("updatedAt", r.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	mc := &domain.MaintenanceCase{
		ID:               r.ID,
		Name:             r.Name,
		EstimatedHours:   r.EstimatedHours,
		EstimatedCosts:   r.EstimatedCosts,
		PlannedStart:     plannedStart,
		PlannedEnd:       plannedEnd,
		OfferCreatedBy:   r.OfferCreatedBy,
		OfferCreatedAt:   offerCreatedAt,
		OfferAcceptedAt:  offerAcceptedAt,
		InvoiceCreatedBy: r.InvoiceCreatedBy,
		InvoiceCreatedAt: invoiceCreatedAt,
		InvoicePaidAt:    invoicePaidAt,
	}
	if createdAt != nil {
		mc.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		mc.UpdatedAt = *updatedAt
	}
	return mc, r.StaffIDs, nil
}

// CaseUpdateRequest carries the id plus changed fields for
// PUT /api/maintenance-cases. A present StaffIDs list triggers assignment
// reconciliation; an absent one leaves assignments alone.
type CaseUpdateRequest struct {
	ID               string         `json:"id"`
	Name             Field[string]  `json:"name"`
	EstimatedHours   Field[float64] `json:"estimatedHours"`
	EstimatedCosts   Field[float64] `json:"estimatedCosts"`
	PlannedStart     Field[string]  `json:"plannedStart"`
	PlannedEnd       Field[string]  `json:"plannedEnd"`
	OfferCreatedBy   Field[string]  `json:"offerCreatedBy"`
	OfferCreatedAt   Field[string]  `json:"offerCreatedAt"`
	OfferAcceptedAt  Field[string]  `json:"offerAcceptedAt"`
	InvoiceCreatedBy Field[string]  `json:"invoiceCreatedBy"`
	InvoiceCreatedAt Field[string]  `json:"invoiceCreatedAt"`
	InvoicePaidAt    Field[string]  `json:"invoicePaidAt"`
	StaffIDs         *[]string      `json:"staffIds"`
}

// Columns maps the present fields onto column updates.
func (r CaseUpdateRequest) Columns() ([]repository.ColumnUpdate, error) {
	var cols []repository.ColumnUpdate

	add, err := columnAdder(&cols)
	add("name", "name", r.Name, false)
	add("estimated_hours", "estimatedHours", r.EstimatedHours, true)
	add("estimated_costs", "estimatedCosts", r.EstimatedCosts, true)
	add("offer_created_by", "offerCreatedBy", r.OfferCreatedBy, true)
	add("invoice_created_by", "invoiceCreatedBy", r.InvoiceCreatedBy, true)
	if addErr := err(); addErr != nil {
		return nil, addErr
	}

	timestamps := []struct {
		column   string
		field    string
		value    Field[string]
		nullable bool
	}{
		{"planned_start", "plannedStart", r.PlannedStart, false},
		{"planned_end", "plannedEnd", r.PlannedEnd, false},
		{"offer_created_at", "offerCreatedAt", r.OfferCreatedAt, true},
		{"offer_accepted_at", "offerAcceptedAt", r.OfferAcceptedAt, true},
		{"invoice_created_at", "invoiceCreatedAt", r.InvoiceCreatedAt, true},
		{"invoice_paid_at", "invoicePaidAt", r.InvoicePaidAt, true},
	}
	for _, ts := range timestamps {
		if err := addTimestampColumn(&cols, ts.column, ts.field, ts.value, ts.nullable); err != nil {
			return nil, err
		}
	}
	return cols, nil
}
