package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
)

type ReportHandler struct {
	service ReportServiceInterface
}

func NewReportHandler(s ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

// Overview godoc
// @Summary 全体概要
// @Tags reports
// @Produce json
// @Success 200 {object} report.Overview
// @Router /reports/overview [get]
func (h *ReportHandler) Overview(c echo.Context) error {
	ov, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, ov)
}

// Statistics godoc
// @Summary 集計一式
// @Tags reports
// @Produce json
// @Success 200 {object} application.Statistics
// @Router /reports/statistics [get]
func (h *ReportHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Text godoc
// @Summary テキストレポート
// @Tags reports
// @Produce plain
// @Param kind path string true "overview, revenue_by_event, top_customers, bookings_by_status, event_occupancy"
// @Param limit query int false "上位顧客の件数"
// @Success 200 {string} string
// @Failure 400 {object} api.ErrorResponse
// @Router /reports/{kind} [get]
func (h *ReportHandler) Text(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit は正の整数で指定してください")
		}
		limit = n
	}
	text, err := h.service.Generate(c.Request().Context(), c.Param("kind"), limit)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.String(http.StatusOK, text)
}
