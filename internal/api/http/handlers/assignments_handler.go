package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/api/dto"
	"github.com/spec-kit/checkpad/internal/service"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// AssignmentsHandler exposes the case-staff assignment CRUD endpoints.
type AssignmentsHandler struct {
	service *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(svc *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{service: svc}
}

// List handles GET /api/maintenance-case-staff.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Create handles POST /api/maintenance-case-staff.
func (h *AssignmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.AssignmentInsertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	assignment, err := req.ToDomain()
	if err != nil {
		return err
	}

	txid, err := h.service.Create(c.UserContext(), assignment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TxResponse{TxID: txid})
}

// Update handles PUT /api/maintenance-case-staff.
func (h *AssignmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.AssignmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return missingID(c)
	}

	cols, err := req.Columns()
	if err != nil {
		return err
	}

	txid, err := h.service.Update(c.UserContext(), req.ID, cols)
	if err != nil {
		return err
	}
	return c.JSON(dto.TxResponse{TxID: txid})
}

// Delete handles DELETE /api/maintenance-case-staff.
func (h *AssignmentsHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return missingID(c)
	}

	txid, err := h.service.Delete(c.UserContext(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.TxResponse{TxID: txid})
}
