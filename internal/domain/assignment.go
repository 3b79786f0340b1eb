package domain

import "time"

// CaseStaffAssignment links a staff member to a maintenance case. The
// (case_id, staff_id) pair is unique: a staff member is assigned to a given
// case at most once.
type CaseStaffAssignment struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"caseId"`
	StaffID    string    `json:"staffId"`
	AssignedAt time.Time `json:"assignedAt"`
	AssignedBy string    `json:"assignedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DiffStaffIDs computes the assignment reconciliation for a composite case
// write: staff ids present in current but not desired are removed, ids present
// in desired but not current are added. Order follows the input slices.
func DiffStaffIDs(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range desired {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	return toAdd, toRemove
}
