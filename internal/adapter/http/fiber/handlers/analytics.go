package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
)

type AnalyticsHandler struct {
	service ports.AnalyticsService
	log     *zap.Logger
}

func NewAnalyticsHandler(service ports.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log,
	}
}

// Trend serves GET /analytics/trend?months=6|12.
func (h *AnalyticsHandler) Trend(c *fiber.Ctx) error {
	points, err := h.service.Trend(c.Context(), c.QueryInt("months", 12))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"months": points,
		"count":  len(points),
	})
}

// Calendar serves GET /analytics/calendar?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Omitted dates default to the next 90 days.
func (h *AnalyticsHandler) Calendar(c *fiber.Ctx) error {
	start := time.Now().UTC()
	end := start.AddDate(0, 0, 90)

	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			return domain.Validationf("unparseable start date %q", raw)
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			return domain.Validationf("unparseable end date %q", raw)
		}
	}

	days, err := h.service.Calendar(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"days":  days,
		"count": len(days),
	})
}

// CalendarMonth serves GET /analytics/calendar/:year/:month.
func (h *AnalyticsHandler) CalendarMonth(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return domain.Validationf("unparseable year %q", c.Params("year"))
	}
	monthNum, err := c.ParamsInt("month")
	if err != nil {
		return domain.Validationf("unparseable month %q", c.Params("month"))
	}

	month, err := h.service.CalendarMonth(c.Context(), year, time.Month(monthNum))
	if err != nil {
		return err
	}
	return c.JSON(month)
}

// ProductRetention serves GET /analytics/products.
func (h *AnalyticsHandler) ProductRetention(c *fiber.Ctx) error {
	stats, err := h.service.ProductRetention(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"products": stats,
		"count":    len(stats),
	})
}
