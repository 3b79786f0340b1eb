package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/checkpad/internal/domain"
)

func TestBuildYearScheduleLayout(t *testing.T) {
	cases := []domain.MaintenanceCase{
		{
			ID:           "case-a",
			Name:         "Generator oil change",
			PlannedStart: date("2025-02-02"),
			PlannedEnd:   date("2025-02-04"),
		},
		{
			ID:           "case-b",
			Name:         "Last year's job",
			PlannedStart: date("2024-03-01"),
			PlannedEnd:   date("2024-03-10"),
		},
	}
	staff := []domain.Staff{
		{ID: "staff-1", FirstName: "Julia", LastName: "Hartmann"},
	}
	assignments := []domain.CaseStaffAssignment{
		{ID: "as-1", CaseID: "case-a", StaffID: "staff-1"},
		{ID: "as-2", CaseID: "case-a", StaffID: "missing"},
	}

	today := date("2025-02-03")
	schedule := BuildYearSchedule(2025, today, cases, assignments, staff)

	assert.Equal(t, 2025, schedule.Year)
	assert.Equal(t, 365, schedule.TotalDays)
	require.Len(t, schedule.Months, 12)
	require.Len(t, schedule.Rows, 2)

	first := schedule.Rows[0]
	require.NotNil(t, first.Range)
	assert.Equal(t, 32, first.Range.StartIndex)
	assert.Equal(t, 34, first.Range.EndIndex)
	assert.Equal(t, domain.CaseStatusDraft, first.Status)
	assert.Equal(t, ColorForID("case-a"), first.Color)
	assert.Equal(t, []string{"Julia Hartmann"}, first.AssignedStaff)

	// Out-of-year cases are listed but carry no range.
	assert.Nil(t, schedule.Rows[1].Range)

	require.NotNil(t, schedule.TodayIndex)
	assert.Equal(t, 33, *schedule.TodayIndex)
}

func TestBuildYearScheduleMalformedSpanExcluded(t *testing.T) {
	cases := []domain.MaintenanceCase{
		{
			ID:           "case-x",
			PlannedStart: date("2025-05-10"),
			PlannedEnd:   date("2025-05-01"),
		},
	}

	schedule := BuildYearSchedule(2025, date("2025-05-05"), cases, nil, nil)
	require.Len(t, schedule.Rows, 1)
	assert.Nil(t, schedule.Rows[0].Range)
}

func TestBuildYearScheduleTodayOnlyInCurrentYear(t *testing.T) {
	today := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	displayed := BuildYearSchedule(2024, today, nil, nil, nil)
	assert.Nil(t, displayed.TodayIndex)

	current := BuildYearSchedule(2025, today, nil, nil, nil)
	require.NotNil(t, current.TodayIndex)
	assert.Equal(t, DayIndexInYear(today, 2025), *current.TodayIndex)
}
