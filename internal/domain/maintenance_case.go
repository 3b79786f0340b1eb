package domain

import "time"

// CaseStatus is the display status derived from the workflow timestamps.
type CaseStatus string

const (
	CaseStatusDraft    CaseStatus = "Draft"
	CaseStatusOffered  CaseStatus = "Offered"
	CaseStatusAccepted CaseStatus = "Accepted"
	CaseStatusInvoiced CaseStatus = "Invoiced"
	CaseStatusPaid     CaseStatus = "Paid"
)

// ColorScheme returns the badge color used when rendering the status.
func (s CaseStatus) ColorScheme() string {
	switch s {
	case CaseStatusPaid:
		return "green"
	case CaseStatusInvoiced:
		return "orange"
	case CaseStatusAccepted:
		return "teal"
	case CaseStatusOffered:
		return "purple"
	default:
		return "gray"
	}
}

// MaintenanceCase is the aggregate for hangar maintenance work, including the
// offer/invoice workflow timestamps.
type MaintenanceCase struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	EstimatedHours   *float64   `json:"estimatedHours"`
	EstimatedCosts   *float64   `json:"estimatedCosts"`
	PlannedStart     time.Time  `json:"plannedStart"`
	PlannedEnd       time.Time  `json:"plannedEnd"`
	OfferCreatedBy   *string    `json:"offerCreatedBy"`
	OfferCreatedAt   *time.Time `json:"offerCreatedAt"`
	OfferAcceptedAt  *time.Time `json:"offerAcceptedAt"`
	InvoiceCreatedBy *string    `json:"invoiceCreatedBy"`
	InvoiceCreatedAt *time.Time `json:"invoiceCreatedAt"`
	InvoicePaidAt    *time.Time `json:"invoicePaidAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Status derives the display status from the workflow timestamps. The first
// timestamp present wins, scanning invoicePaidAt, invoiceCreatedAt,
// offerAcceptedAt, offerCreatedAt; no timestamps means Draft. Every null
// combination is valid input, including skipped stages.
func (c *MaintenanceCase) Status() CaseStatus {
	switch {
	case c.InvoicePaidAt != nil:
		return CaseStatusPaid
	case c.InvoiceCreatedAt != nil:
		return CaseStatusInvoiced
	case c.OfferAcceptedAt != nil:
		return CaseStatusAccepted
	case c.OfferCreatedAt != nil:
		return CaseStatusOffered
	default:
		return CaseStatusDraft
	}
}
