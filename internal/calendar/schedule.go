package calendar

import (
	"time"

	"github.com/spec-kit/checkpad/internal/domain"
)

// ScheduleRow is one horizontal case bar in the year grid. Range is nil when
// the case does not intersect the year or its span is malformed (planned start
// after planned end); such rows are listed but not rendered as bars.
type ScheduleRow struct {
	Case          domain.MaintenanceCase `json:"case"`
	Status        domain.CaseStatus      `json:"status"`
	Color         string                 `json:"color"`
	Range         *DayRange              `json:"range"`
	AssignedStaff []string               `json:"assignedStaff"`
}

// YearSchedule is the full layout for one calendar year.
type YearSchedule struct {
	Year       int           `json:"year"`
	TotalDays  int           `json:"totalDays"`
	TodayIndex *int          `json:"todayIndex"`
	Months     []Month       `json:"months"`
	Rows       []ScheduleRow `json:"rows"`
}

// BuildYearSchedule lays out the given cases for one year. TodayIndex is set
// only when the displayed year is today's real year.
func BuildYearSchedule(year int, today time.Time, cases []domain.MaintenanceCase, assignments []domain.CaseStaffAssignment, staff []domain.Staff) YearSchedule {
	staffByID := make(map[string]*domain.Staff, len(staff))
	for i := range staff {
		staffByID[staff[i].ID] = &staff[i]
	}

	namesByCase := make(map[string][]string)
	for _, assignment := range assignments {
		member, ok := staffByID[assignment.StaffID]
		if !ok {
			continue
		}
		namesByCase[assignment.CaseID] = append(namesByCase[assignment.CaseID], member.FullName())
	}

	rows := make([]ScheduleRow, 0, len(cases))
	for _, mc := range cases {
		start := StartOfDay(mc.PlannedStart)
		end := StartOfDay(mc.PlannedEnd)

		var rng *DayRange
		if !start.After(end) {
			rng = ClampRangeToYear(start, end, year)
		}

		rows = append(rows, ScheduleRow{
			Case:          mc,
			Status:        mc.Status(),
			Color:         ColorForID(mc.ID),
			Range:         rng,
			AssignedStaff: namesByCase[mc.ID],
		})
	}

	schedule := YearSchedule{
		Year:      year,
		TotalDays: DaysInYear(year),
		Months:    BuildMonths(year),
		Rows:      rows,
	}

	if today.Year() == year {
		idx := DayIndexInYear(today, year)
		schedule.TodayIndex = &idx
	}

	return schedule
}
