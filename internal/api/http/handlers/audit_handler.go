package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/service"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// AuditHandler exposes a record's change history.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// History handles GET /api/audit?recordId=<id>.
func (h *AuditHandler) History(c *fiber.Ctx) error {
	recordID := c.Query("recordId")
	if recordID == "" {
		return apperrors.NewValidationError("missing recordId", map[string]any{"recordId": "required"})
	}

	entries, err := h.service.History(c.UserContext(), recordID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
