package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-booking-system/internal/api"
	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
)

type CustomerHandler struct {
	service  CustomerServiceInterface
	bookings BookingServiceInterface
}

func NewCustomerHandler(s CustomerServiceInterface, b BookingServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: s, bookings: b}
}

type CustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=30"`
}

func (r CustomerRequest) input() application.CustomerInput {
	return application.CustomerInput{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Phone: r.Phone}
}

type CustomerResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	// ActiveBookings はキャンセル以外の予約数
	ActiveBookings int       `json:"active_bookings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toCustomerResponse(c *customer.Customer, activeBookings int) CustomerResponse {
	return CustomerResponse{
		ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName(),
		Email: c.Email, Phone: c.Phone, ActiveBookings: activeBookings,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// Create godoc
// @Summary 顧客を登録
// @Tags customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "顧客情報"
// @Success 201 {object} CustomerResponse
// @Failure 409 {object} api.ErrorResponse "メールアドレスが登録済み"
// @Router /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cu, err := h.service.CreateCustomer(c.Request().Context(), req.input())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(cu, 0))
}

// List godoc
// @Summary 顧客一覧
// @Tags customers
// @Produce json
// @Param q query string false "氏名検索"
// @Param sort query string false "name で姓・名順"
// @Success 200 {array} CustomerResponse
// @Router /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		customers []*customer.Customer
		err       error
	)
	if q := c.QueryParam("q"); q != "" {
		customers, err = h.service.SearchCustomers(ctx, q)
	} else {
		customers, err = h.service.ListCustomers(ctx, c.QueryParam("sort") == "name")
	}
	if err != nil {
		return api.HTTPError(err)
	}
	active, err := h.bookings.ActiveBookingsByCustomer(ctx)
	if err != nil {
		return api.HTTPError(err)
	}
	resp := make([]CustomerResponse, len(customers))
	for i, cu := range customers {
		resp[i] = toCustomerResponse(cu, active[cu.ID])
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 顧客を取得
// @Tags customers
// @Produce json
// @Param id path int true "顧客ID"
// @Success 200 {object} CustomerResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	cu, err := h.service.GetCustomer(ctx, id)
	if err != nil {
		return api.HTTPError(err)
	}
	active, err := h.bookings.ActiveBookingsByCustomer(ctx)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cu, active[cu.ID]))
}

// Update godoc
// @Summary 顧客を更新
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "顧客ID"
// @Param request body CustomerRequest true "顧客情報"
// @Success 200 {object} CustomerResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	cu, err := h.service.UpdateCustomer(ctx, id, req.input())
	if err != nil {
		return api.HTTPError(err)
	}
	active, err := h.bookings.ActiveBookingsByCustomer(ctx)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cu, active[cu.ID]))
}

// Delete godoc
// @Summary 顧客を削除
// @Description 予約も削除される
// @Tags customers
// @Param id path int true "顧客ID"
// @Success 204
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCustomer(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Bookings godoc
// @Summary 顧客の予約一覧
// @Tags customers
// @Produce json
// @Param id path int true "顧客ID"
// @Success 200 {array} BookingResponse
// @Router /customers/{id}/bookings [get]
func (h *CustomerHandler) Bookings(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.service.GetCustomer(ctx, id); err != nil {
		return api.HTTPError(err)
	}
	bookings, err := h.bookings.ListBookings(ctx, application.ListBookingsInput{CustomerID: id, Sort: application.SortDateDesc})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}
