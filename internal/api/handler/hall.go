package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
)

type HallHandler struct {
	service HallServiceInterface
}

func NewHallHandler(s HallServiceInterface) *HallHandler {
	return &HallHandler{service: s}
}

// CreateHallRequest は row_names を指定しなければ rows から列名を生成する
type CreateHallRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Rows        int      `json:"rows" validate:"omitempty,min=1,max=50"`
	SeatsPerRow int      `json:"seats_per_row" validate:"required,min=1,max=50"`
	RowNames    []string `json:"row_names" validate:"omitempty,max=50,dive,required"`
}

type RegenerateSeatsRequest struct {
	Rows        int      `json:"rows" validate:"omitempty,min=1,max=50"`
	SeatsPerRow int      `json:"seats_per_row" validate:"required,min=1,max=50"`
	RowNames    []string `json:"row_names" validate:"omitempty,max=50,dive,required"`
}

type SeatResponse struct {
	ID     int64  `json:"id"`
	HallID int64  `json:"hall_id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

type HallResponse struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Capacity  int            `json:"capacity"`
	Seats     []SeatResponse `json:"seats,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toSeatResponses(seats []*hall.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = SeatResponse{ID: s.ID, HallID: s.HallID, Row: s.Row, Number: s.Number, Label: s.Label()}
	}
	return resp
}

func toHallResponse(h *hall.Hall, withSeats bool) HallResponse {
	resp := HallResponse{ID: h.ID, Name: h.Name, Capacity: h.Capacity, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt}
	if withSeats {
		resp.Seats = toSeatResponses(h.Seats)
	}
	return resp
}

// Create godoc
// @Summary ホールを作成
// @Tags halls
// @Accept json
// @Produce json
// @Param request body CreateHallRequest true "ホール情報"
// @Success 201 {object} HallResponse
// @Router /halls [post]
func (h *HallHandler) Create(c echo.Context) error {
	var req CreateHallRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateHall(c.Request().Context(), application.CreateHallInput{
		Name: req.Name, Rows: req.Rows, SeatsPerRow: req.SeatsPerRow, RowNames: req.RowNames,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toHallResponse(created, true))
}

// List godoc
// @Summary ホール一覧
// @Tags halls
// @Produce json
// @Success 200 {array} HallResponse
// @Router /halls [get]
func (h *HallHandler) List(c echo.Context) error {
	halls, err := h.service.ListHalls(c.Request().Context())
	if err != nil {
		return api.HTTPError(err)
	}
	resp := make([]HallResponse, len(halls))
	for i, hl := range halls {
		resp[i] = toHallResponse(hl, false)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary ホールを座席付きで取得
// @Tags halls
// @Produce json
// @Param id path int true "ホールID"
// @Success 200 {object} HallResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /halls/{id} [get]
func (h *HallHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	hl, err := h.service.GetHall(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toHallResponse(hl, true))
}

// ListSeats godoc
// @Summary ホールの座席一覧
// @Tags halls
// @Produce json
// @Param id path int true "ホールID"
// @Success 200 {array} SeatResponse
// @Router /halls/{id}/seats [get]
func (h *HallHandler) ListSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	seats, err := h.service.ListSeats(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// RegenerateSeats godoc
// @Summary 座席を作り直す
// @Description イベントが登録されているホールは409
// @Tags halls
// @Accept json
// @Produce json
// @Param id path int true "ホールID"
// @Param request body RegenerateSeatsRequest true "座席構成"
// @Success 200 {object} HallResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /halls/{id}/seats [put]
func (h *HallHandler) RegenerateSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req RegenerateSeatsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hl, err := h.service.RegenerateSeats(c.Request().Context(), application.RegenerateSeatsInput{
		HallID: id, Rows: req.Rows, SeatsPerRow: req.SeatsPerRow, RowNames: req.RowNames,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toHallResponse(hl, true))
}

// Delete godoc
// @Summary ホールを削除
// @Tags halls
// @Param id path int true "ホールID"
// @Success 204
// @Failure 409 {object} api.ErrorResponse
// @Router /halls/{id} [delete]
func (h *HallHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteHall(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
