package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,min=1"`
	EventID    int64 `json:"event_id" validate:"required,min=1"`
	SeatID     int64 `json:"seat_id" validate:"required,min=1"`
}

type BookingResponse struct {
	ID          int64        `json:"id"`
	CustomerID  int64        `json:"customer_id"`
	EventID     int64        `json:"event_id"`
	SeatID      int64        `json:"seat_id"`
	Status      string       `json:"status"`
	StatusLabel string       `json:"status_label"`
	Price       money.Amount `json:"price"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, CustomerID: b.CustomerID, EventID: b.EventID, SeatID: b.SeatID,
		Status: b.Status().String(), StatusLabel: b.Status().DisplayName(), Price: b.Price,
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

func toBookingResponses(bookings []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

// Create godoc
// @Summary 座席を予約
// @Description 予約は RESERVED で作成される。前方列（列名に1/2/3を含む）は基本料金の2割増し
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が既に予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		CustomerID: req.CustomerID, EventID: req.EventID, SeatID: req.SeatID,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// List godoc
// @Summary 予約一覧
// @Tags bookings
// @Produce json
// @Param status query string false "状態"
// @Param customer_id query int false "顧客ID"
// @Param event_id query int false "イベントID"
// @Param active query bool false "キャンセル以外のみ"
// @Param sort query string false "date または price（降順）"
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	customerID, err := queryID(c, "customer_id")
	if err != nil {
		return err
	}
	eventID, err := queryID(c, "event_id")
	if err != nil {
		return err
	}
	input := application.ListBookingsInput{
		Status:     c.QueryParam("status"),
		CustomerID: customerID,
		EventID:    eventID,
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active は true/false で指定してください")
		}
		input.ActiveOnly = active
	}
	switch sort := application.BookingSort(c.QueryParam("sort")); sort {
	case application.SortNone, application.SortDateDesc, application.SortPriceDesc:
		input.Sort = sort
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "sort は date または price で指定してください")
	}

	bookings, err := h.service.ListBookings(c.Request().Context(), input)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags bookings
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.service.GetBooking(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// MostExpensive godoc
// @Summary 最も高い予約
// @Tags bookings
// @Produce json
// @Success 200 {object} BookingResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/most-expensive [get]
func (h *BookingHandler) MostExpensive(c echo.Context) error {
	b, err := h.service.MostExpensiveBooking(c.Request().Context())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// Confirm godoc
// @Summary 予約を確定
// @Tags bookings
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 409 {object} api.ErrorResponse "許可されていない状態遷移"
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.service.ConfirmBooking)
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Tags bookings
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 409 {object} api.ErrorResponse "許可されていない状態遷移"
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.service.CancelBooking)
}

func (h *BookingHandler) transition(c echo.Context, apply func(ctx context.Context, id int64) (*booking.Booking, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := apply(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
