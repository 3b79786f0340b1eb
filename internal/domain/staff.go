package domain

import "time"

// Staff models a maintenance worker tracked by checkPAD.
type Staff struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone"`
	Birthday          *time.Time `json:"birthday"`
	HourlyRate        *float64   `json:"hourlyRate"`
	VacationDaysTotal int        `json:"vacationDaysTotal"`
	VacationDaysUsed  int        `json:"vacationDaysUsed"`
	SickDaysUsed      int        `json:"sickDaysUsed"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// FullName joins first and last name for display and tooltips.
func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}
