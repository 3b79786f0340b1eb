package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/repository"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// AssignmentService manages the staff-to-case join records directly, for
// clients that mutate single assignments instead of a case's whole staff set.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	events      changePublisher
}

// AssignmentDependencies encapsulates what the service needs.
type AssignmentDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	Publisher      syncstream.Publisher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		events: changePublisher{
			publisher: deps.Publisher,
			metrics:   deps.Metrics,
			logger:    deps.Logger,
		},
	}
}

// Create persists a new assignment. The (caseId, staffId) unique constraint
// rejects duplicates as a conflict.
func (s *AssignmentService) Create(ctx context.Context, assignment *domain.CaseStaffAssignment) (int64, error) {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.AssignedBy == "" {
		assignment.AssignedBy = SystemActor
	}

	txid, err := s.assignments.Insert(ctx, assignment)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpInsert, txid, assignment)
	return txid, nil
}

// Update applies a partial update and returns the transaction id.
func (s *AssignmentService) Update(ctx context.Context, id string, cols []repository.ColumnUpdate) (int64, error) {
	actor := SystemActor
	txid, updated, err := s.assignments.Update(ctx, id, cols, &actor)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpUpdate, txid, updated)
	return txid, nil
}

// Delete removes the assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) (int64, error) {
	txid, err := s.assignments.Delete(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpDelete, txid,
		syncstream.DeletedRecord{ID: id})
	return txid, nil
}

// List returns all assignments.
func (s *AssignmentService) List(ctx context.Context) ([]domain.CaseStaffAssignment, error) {
	list, err := s.assignments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}
