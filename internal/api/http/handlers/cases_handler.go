package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/api/dto"
	"github.com/spec-kit/checkpad/internal/service"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// CasesHandler exposes the maintenance case CRUD endpoints. A staffIds list on
// create or update carries the case's full desired staff set; the join table
// is reconciled inside the same transaction as the case write.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(svc *service.CaseService) *CasesHandler {
	return &CasesHandler{service: svc}
}

// List handles GET /api/maintenance-cases.
func (h *CasesHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Create handles POST /api/maintenance-cases.
func (h *CasesHandler) Create(c *fiber.Ctx) error {
	var req dto.CaseInsertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	mc, staffIDs, err := req.ToDomain()
	if err != nil {
		return err
	}

	txid, err := h.service.Create(c.UserContext(), mc, staffIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TxResponse{TxID: txid})
}

// Update handles PUT /api/maintenance-cases.
func (h *CasesHandler) Update(c *fiber.Ctx) error {
	var req dto.CaseUpdateRequest
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

	txid, err := h.service.Update(c.UserContext(), req.ID, cols, req.StaffIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.TxResponse{TxID: txid})
}

// Delete handles DELETE /api/maintenance-cases.
func (h *CasesHandler) Delete(c *fiber.Ctx) error {
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
