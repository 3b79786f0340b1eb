package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/repository"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// StaffService manages staff records and publishes their changes.
type StaffService struct {
	staff  repository.StaffRepository
	events changePublisher
}

// StaffDependencies encapsulates what the service needs.
type StaffDependencies struct {
	StaffRepo repository.StaffRepository
	Publisher syncstream.Publisher
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff: deps.StaffRepo,
		events: changePublisher{
			publisher: deps.Publisher,
			metrics:   deps.Metrics,
			logger:    deps.Logger,
		},
	}
}

// Create persists a new staff record and returns the transaction id.
func (s *StaffService) Create(ctx context.Context, staff *domain.Staff) (int64, error) {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	if staff.UpdatedAt.IsZero() {
		staff.UpdatedAt = now
	}

	txid, err := s.staff.Insert(ctx, staff)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableStaff, syncstream.OpInsert, txid, staff)
	return txid, nil
}

// Update applies a partial update and returns the transaction id.
func (s *StaffService) Update(ctx context.Context, id string, cols []repository.ColumnUpdate) (int64, error) {
	actor := SystemActor
	txid, updated, err := s.staff.Update(ctx, id, cols, &actor)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableStaff, syncstream.OpUpdate, txid, updated)
	return txid, nil
}

// Delete removes the staff record; assignments referencing it cascade and are
// published as deletes under the same transaction id.
func (s *StaffService) Delete(ctx context.Context, id string) (int64, error) {
	txid, cascaded, err := s.staff.Delete(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.events.publish(ctx, syncstream.TableStaff, syncstream.OpDelete, txid, syncstream.DeletedRecord{ID: id})
	for _, assignment := range cascaded {
		s.events.publish(ctx, syncstream.TableAssignments, syncstream.OpDelete, txid,
			syncstream.DeletedRecord{ID: assignment.ID})
	}
	return txid, nil
}

// List returns all staff records.
func (s *StaffService) List(ctx context.Context) ([]domain.Staff, error) {
	list, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetByID fetches one staff record.
func (s *StaffService) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}
