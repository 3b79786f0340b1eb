package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/api/dto"
	"github.com/spec-kit/checkpad/internal/service"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// StaffHandler exposes the staff CRUD endpoints. Mutations answer with the
// transaction id so sync clients can match the write on the change stream.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{service: svc}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffInsertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := req.ToDomain()
	if err != nil {
		return err
	}

	txid, err := h.service.Create(c.UserContext(), staff)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TxResponse{TxID: txid})
}

// Update handles PUT /api/staff.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffUpdateRequest
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

// Delete handles DELETE /api/staff.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
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

// missingID is the response every mutation endpoint gives when the body omits
// the record id.
func missingID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID is required"})
}
