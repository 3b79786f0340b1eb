package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tsp(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestStatusPrecedence(t *testing.T) {
	set := tsp("2025-01-10T00:00:00Z")

	// All 16 presence combinations of the four workflow timestamps. The bits
	// are offerCreated, offerAccepted, invoiceCreated, invoicePaid.
	for mask := 0; mask < 16; mask++ {
		mc := MaintenanceCase{}
		if mask&1 != 0 {
			mc.OfferCreatedAt = set
		}
		if mask&2 != 0 {
			mc.OfferAcceptedAt = set
		}
		if mask&4 != 0 {
			mc.InvoiceCreatedAt = set
		}
		if mask&8 != 0 {
			mc.InvoicePaidAt = set
		}

		want := CaseStatusDraft
		switch {
		case mask&8 != 0:
			want = CaseStatusPaid
		case mask&4 != 0:
			want = CaseStatusInvoiced
		case mask&2 != 0:
			want = CaseStatusAccepted
		case mask&1 != 0:
			want = CaseStatusOffered
		}
		require.Equal(t, want, mc.Status(), "mask %04b", mask)
	}
}

func TestStatusSkippedStagesStillResolve(t *testing.T) {
	// Paid without ever being invoiced is "illogical" but valid input.
	mc := MaintenanceCase{
		OfferCreatedAt: tsp("2025-01-02T00:00:00Z"),
		InvoicePaidAt:  tsp("2025-01-20T00:00:00Z"),
	}
	assert.Equal(t, CaseStatusPaid, mc.Status())
}

func TestStatusOfferedScenario(t *testing.T) {
	mc := MaintenanceCase{OfferCreatedAt: tsp("2025-01-10T00:00:00Z")}
	assert.Equal(t, CaseStatusOffered, mc.Status())
}

func TestStatusColorScheme(t *testing.T) {
	assert.Equal(t, "green", CaseStatusPaid.ColorScheme())
	assert.Equal(t, "orange", CaseStatusInvoiced.ColorScheme())
	assert.Equal(t, "teal", CaseStatusAccepted.ColorScheme())
	assert.Equal(t, "purple", CaseStatusOffered.ColorScheme())
	assert.Equal(t, "gray", CaseStatusDraft.ColorScheme())
}
