package fiber

import (
	"context"
	"net/http"
	"strconv"

	"portfolio-analytics/internal/metrics/core/domain"

	"github.com/gofiber/fiber/v2"
)

type DashboardUseCase interface {
	Summary(ctx context.Context) *domain.Summary
	Export(ctx context.Context) (*domain.Export, error)
	Clear(ctx context.Context)
}

type DashboardHandler struct {
	uc DashboardUseCase
}

func NewDashboardHandler(uc DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Aggregated statistics over the local event log. An empty log returns status=empty
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Summary
// @Success 200 {object} StatusResponse "No data"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	s := h.uc.Summary(c.UserContext())
	if s == nil {
		return c.Status(http.StatusOK).JSON(StatusResponse{Status: "empty"})
	}
	return c.Status(http.StatusOK).JSON(s)
}

// Export godoc
// @Summary Download the local event log
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	exp, err := h.uc.Export(c.UserContext())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	c.Set("X-Event-Count", strconv.Itoa(exp.Events))
	c.Attachment(exp.Filename)
	return c.Status(http.StatusOK).Send(exp.Content)
}

// Clear godoc
// @Summary Delete the local event log
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dashboard/events [delete]
func (h *DashboardHandler) Clear(c *fiber.Ctx) error {
	h.uc.Clear(c.UserContext())
	return c.Status(http.StatusOK).JSON(StatusResponse{Status: "cleared"})
}
