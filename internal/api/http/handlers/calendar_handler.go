package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/service"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// CalendarHandler serves the year layout for the hangar planning board.
type CalendarHandler struct {
	service *service.CaseService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(svc *service.CaseService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Year handles GET /api/calendar. The year query parameter defaults to the
// current year.
func (h *CalendarHandler) Year(c *fiber.Ctx) error {
	year := time.Now().UTC().Year()
	if val := c.Query("year"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return apperrors.NewValidationError("invalid year", map[string]any{"year": val})
		}
		year = parsed
	}

	schedule, err := h.service.Schedule(c.UserContext(), year)
	if err != nil {
		return err
	}
	return c.JSON(schedule)
}
