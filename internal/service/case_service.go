package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/calendar"
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/repository"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// CaseService manages maintenance cases, their staff assignments and the
// hangar calendar view.
type CaseService struct {
	cases       repository.CaseRepository
	assignments repository.AssignmentRepository
	staff       repository.StaffRepository
	events      changePublisher
}

// CaseDependencies encapsulates what the service needs.
type CaseDependencies struct {
	CaseRepo       repository.CaseRepository
	AssignmentRepo repository.AssignmentRepository
	StaffRepo      repository.StaffRepository
	Publisher      syncstream.Publisher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:       deps.CaseRepo,
		assignments: deps.AssignmentRepo,
		staff:       deps.StaffRepo,
		events: changePublisher{
			publisher: deps.Publisher,
			metrics:   deps.Metrics,
			logger:    deps.Logger,
		},
	}
}

// Create persists a new case and, when staff ids are supplied, its
// assignments, all in one transaction.
func (s *CaseService) Create(ctx context.Context, mc *domain.MaintenanceCase, staffIDs []string) (int64, error) {
	if mc.ID == "" {
		mc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mc.CreatedAt.IsZero() {
		mc.CreatedAt = now
	}
	if mc.UpdatedAt.IsZero() {
		mc.UpdatedAt = now
	}

	assignments := make([]domain.CaseStaffAssignment, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		assignments = append(assignments, domain.CaseStaffAssignment{
			ID:         uuid.NewString(),
			CaseID:     mc.ID,
			StaffID:    staffID,
			AssignedBy: SystemActor,
		})
	}

	txid, err := s.cases.Insert(ctx, mc, assignments)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	s.events.publish(ctx, syncstream.TableCases, syncstream.OpInsert, txid, mc)
	for i := range assignments {
		s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpInsert, txid, &assignments[i])
	}
	return txid, nil
}

// Update applies a partial case update. A non-nil staffIDs set additionally
// reconciles the assignment join table within the same transaction.
func (s *CaseService) Update(ctx context.Context, id string, cols []repository.ColumnUpdate, staffIDs *[]string) (int64, error) {
	actor := SystemActor
	txid, result, err := s.cases.Update(ctx, id, cols, staffIDs, SystemActor, &actor)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	s.events.publish(ctx, syncstream.TableCases, syncstream.OpUpdate, txid, result.Case)
	for _, removed := range result.Removed {
		s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpDelete, txid,
			syncstream.DeletedRecord{ID: removed.ID})
	}
	for i := range result.Added {
		s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpInsert, txid, &result.Added[i])
	}
	return txid, nil
}

// Delete removes the case; its assignments cascade and are published as
// deletes under the same transaction id.
func (s *CaseService) Delete(ctx context.Context, id string) (int64, error) {
	txid, cascaded, err := s.cases.Delete(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableCases, syncstream.OpDelete, txid, syncstream.DeletedRecord{ID: id})
	for _, assignment := range cascaded {
		s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpDelete, txid,
			syncstream.DeletedRecord{ID: assignment.ID})
	}
	return txid, nil
}

// List returns all cases ordered by planned start.
func (s *CaseService) List(ctx context.Context) ([]domain.MaintenanceCase, error) {
	list, err := s.cases.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetByID fetches one case.
func (s *CaseService) GetByID(ctx context.Context, id string) (*domain.MaintenanceCase, error) {
	mc, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return mc, nil
}

// Schedule lays out all cases for the given year's hangar calendar.
func (s *CaseService) Schedule(ctx context.Context, year int) (*calendar.YearSchedule, error) {
	cases, err := s.cases.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	schedule := calendar.BuildYearSchedule(year, time.Now().UTC(), cases, assignments, staff)
	return &schedule, nil
}
