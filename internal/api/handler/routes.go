package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
)

// Handlers はルーティング対象のハンドラー一式
type Handlers struct {
	Health    *HealthHandler
	Halls     *HallHandler
	Events    *EventHandler
	Customers *CustomerHandler
	Bookings  *BookingHandler
	Reports   *ReportHandler
}

// NewEcho はバリデーターとエラーハンドラーを設定したEchoを返す
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}

// RegisterRoutes はAPIルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Check)
	e.GET("/health/ready", h.Health.Ready)

	v1 := e.Group("/api/v1")

	halls := v1.Group("/halls")
	halls.POST("", h.Halls.Create)
	halls.GET("", h.Halls.List)
	halls.GET("/:id", h.Halls.GetByID)
	halls.GET("/:id/seats", h.Halls.ListSeats)
	halls.PUT("/:id/seats", h.Halls.RegenerateSeats)
	halls.DELETE("/:id", h.Halls.Delete)

	events := v1.Group("/events")
	events.POST("", h.Events.Create)
	events.GET("", h.Events.List)
	events.GET("/by-category", h.Events.ByCategory)
	events.GET("/:id", h.Events.GetByID)
	events.PUT("/:id", h.Events.Update)
	events.DELETE("/:id", h.Events.Delete)
	events.GET("/:id/availability", h.Events.Availability)
	events.GET("/:id/seats/:seatId/availability", h.Events.SeatAvailability)

	customers := v1.Group("/customers")
	customers.POST("", h.Customers.Create)
	customers.GET("", h.Customers.List)
	customers.GET("/:id", h.Customers.GetByID)
	customers.PUT("/:id", h.Customers.Update)
	customers.DELETE("/:id", h.Customers.Delete)
	customers.GET("/:id/bookings", h.Customers.Bookings)

	bookings := v1.Group("/bookings")
	bookings.POST("", h.Bookings.Create)
	bookings.GET("", h.Bookings.List)
	bookings.GET("/most-expensive", h.Bookings.MostExpensive)
	bookings.GET("/:id", h.Bookings.GetByID)
	bookings.POST("/:id/confirm", h.Bookings.Confirm)
	bookings.POST("/:id/cancel", h.Bookings.Cancel)

	reports := v1.Group("/reports")
	reports.GET("/overview", h.Reports.Overview)
	reports.GET("/statistics", h.Reports.Statistics)
	reports.GET("/:kind", h.Reports.Text)
}
