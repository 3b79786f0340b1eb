package service

import (
	"context"

	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/repository"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// AuditService reads the column-level change history written alongside
// updates.
type AuditService struct {
	audit repository.AuditLogRepository
}

// NewAuditService constructs the service.
func NewAuditService(audit repository.AuditLogRepository) *AuditService {
	return &AuditService{audit: audit}
}

// History returns a record's audit entries, oldest first.
func (s *AuditService) History(ctx context.Context, recordID string) ([]domain.AuditEntry, error) {
	entries, err := s.audit.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
