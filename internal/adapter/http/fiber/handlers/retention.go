package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
)

type RetentionHandler struct {
	service ports.RetentionService
	log     *zap.Logger
}

func NewRetentionHandler(service ports.RetentionService, log *zap.Logger) *RetentionHandler {
	return &RetentionHandler{
		service: service,
		log:     log,
	}
}

// DashboardSummary serves GET /dashboard/summary.
func (h *RetentionHandler) DashboardSummary(c *fiber.Ctx) error {
	summary, err := h.service.DashboardSummary(c.Context())
	if err != nil {
		telemetry.DashboardRequestsTotal.WithLabelValues("summary", "error").Inc()
		return err
	}
	telemetry.DashboardRequestsTotal.WithLabelValues("summary", "ok").Inc()
	return c.JSON(summary)
}

// ListClients serves GET /clients. Pagination is clamped server-side; only
// an unknown status filter fails.
func (h *RetentionHandler) ListClients(c *fiber.Ctx) error {
	params := ports.ListClientsParams{
		StatusFilter: c.Query("status"),
		DaysRange:    c.QueryInt("days_range"),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	}

	clients, err := h.service.ListClients(c.Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"clients": clients,
		"count":   len(clients),
	})
}

// SearchClients serves GET /clients/search.
func (h *RetentionHandler) SearchClients(c *fiber.Ctx) error {
	result, err := h.service.SearchClients(c.Context(), c.Query("q"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ClientDetail serves GET /clients/:id.
func (h *RetentionHandler) ClientDetail(c *fiber.Ctx) error {
	detail, err := h.service.ClientDetail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

type MarkContactedRequest struct {
	ContactType domain.ContactType `json:"contact_type"`
	Notes       string             `json:"notes"`
}

// MarkContacted serves POST /clients/:id/contacted. The actor comes from the
// authenticated session, never from the body.
func (h *RetentionHandler) MarkContacted(c *fiber.Ctx) error {
	var req MarkContactedRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor, _ := c.Locals("user_email").(string)
	event, err := h.service.MarkContacted(c.Context(), c.Params("id"), req.ContactType, req.Notes, actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// ContactHistory serves GET /clients/:id/contacts.
func (h *RetentionHandler) ContactHistory(c *fiber.Ctx) error {
	events, err := h.service.ContactHistory(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}
