package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

type EventHandler struct {
	service  EventServiceInterface
	bookings BookingServiceInterface
}

func NewEventHandler(s EventServiceInterface, b BookingServiceInterface) *EventHandler {
	return &EventHandler{service: s, bookings: b}
}

type EventRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Category    string       `json:"category" validate:"max=100"`
	StartsAt    time.Time    `json:"starts_at" validate:"required"`
	BasePrice   money.Amount `json:"base_price" validate:"gte=0"`
	HallID      int64        `json:"hall_id" validate:"required,min=1"`
}

type EventResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	StartsAt    time.Time    `json:"starts_at"`
	BasePrice   money.Amount `json:"base_price"`
	HallID      int64        `json:"hall_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID: e.ID, Name: e.Name, Description: e.Description, Category: e.Category,
		StartsAt: e.StartsAt, BasePrice: e.BasePrice, HallID: e.HallID,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func toEventResponses(events []*event.Event) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return resp
}

// Create godoc
// @Summary イベントを作成
// @Tags events
// @Accept json
// @Produce json
// @Param request body EventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.service.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Name: req.Name, Description: req.Description, Category: req.Category,
		StartsAt: req.StartsAt, BasePrice: req.BasePrice, HallID: req.HallID,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧
// @Description q で名前検索、upcoming=true で未来のイベントのみ、category で絞り込み
// @Tags events
// @Produce json
// @Param category query string false "カテゴリ"
// @Param q query string false "検索語"
// @Param upcoming query bool false "未来のイベントのみ"
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		events []*event.Event
		err    error
	)
	switch {
	case c.QueryParam("q") != "":
		events, err = h.service.SearchEvents(ctx, c.QueryParam("q"))
	case c.QueryParam("upcoming") != "":
		upcoming, perr := strconv.ParseBool(c.QueryParam("upcoming"))
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "upcoming は true/false で指定してください")
		}
		if upcoming {
			events, err = h.service.UpcomingEvents(ctx)
		} else {
			events, err = h.service.ListEvents(ctx, c.QueryParam("category"))
		}
	default:
		events, err = h.service.ListEvents(ctx, c.QueryParam("category"))
	}
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ByCategory godoc
// @Summary カテゴリ別のイベント
// @Tags events
// @Produce json
// @Success 200 {object} map[string][]EventResponse
// @Router /events/by-category [get]
func (h *EventHandler) ByCategory(c echo.Context) error {
	groups, err := h.service.EventsByCategory(c.Request().Context())
	if err != nil {
		return api.HTTPError(err)
	}
	resp := make(map[string][]EventResponse, len(groups))
	for k, events := range groups {
		resp[k] = toEventResponses(events)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.service.GetEvent(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Update godoc
// @Summary イベントを更新
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "イベントID"
// @Param request body EventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.service.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID: id, Name: req.Name, Description: req.Description, Category: req.Category,
		StartsAt: req.StartsAt, BasePrice: req.BasePrice, HallID: req.HallID,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description 予約も削除される
// @Tags events
// @Param id path int true "イベントID"
// @Success 204
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteEvent(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type AvailabilityResponse struct {
	EventID   int64 `json:"event_id"`
	Available int   `json:"available"`
}

// Availability godoc
// @Summary イベントの空席数
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} AvailabilityResponse
// @Router /events/{id}/availability [get]
func (h *EventHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.bookings.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{EventID: id, Available: n})
}

type SeatAvailabilityResponse struct {
	EventID   int64 `json:"event_id"`
	SeatID    int64 `json:"seat_id"`
	Available bool  `json:"available"`
}

// SeatAvailability godoc
// @Summary 座席が予約可能か
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Param seatId path int true "座席ID"
// @Success 200 {object} SeatAvailabilityResponse
// @Router /events/{id}/seats/{seatId}/availability [get]
func (h *EventHandler) SeatAvailability(c echo.Context) error {
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	seatID, err := pathID(c, "seatId")
	if err != nil {
		return err
	}
	ok, err := h.bookings.IsSeatAvailable(c.Request().Context(), eventID, seatID)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, SeatAvailabilityResponse{EventID: eventID, SeatID: seatID, Available: ok})
}
