package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

type testServer struct {
	e         *echo.Echo
	halls     *MockHallService
	events    *MockEventService
	customers *MockCustomerService
	bookings  *MockBookingService
	reports   *MockReportService
}

func newTestServer(checks map[string]Checker) *testServer {
	s := &testServer{
		e:         NewEcho(),
		halls:     new(MockHallService),
		events:    new(MockEventService),
		customers: new(MockCustomerService),
		bookings:  new(MockBookingService),
		reports:   new(MockReportService),
	}
	RegisterRoutes(s.e, Handlers{
		Health:    NewHealthHandler(checks),
		Halls:     NewHallHandler(s.halls),
		Events:    NewEventHandler(s.events, s.bookings),
		Customers: NewCustomerHandler(s.customers, s.bookings),
		Bookings:  NewBookingHandler(s.bookings),
		Reports:   NewReportHandler(s.reports),
	})
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func reservedBooking() *booking.Booking {
	now := time.Now()
	return booking.Restore(booking.Snapshot{
		ID: 1, CustomerID: 2, EventID: 3, SeatID: 4,
		Status: booking.StatusReserved, Price: money.FromFloat(60),
		CreatedAt: now, UpdatedAt: now,
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		s := newTestServer(nil)
		rec := s.do(http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("依存先が落ちていれば503", func(t *testing.T) {
		s := newTestServer(map[string]Checker{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		rec := s.do(http.MethodGet, "/health/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.Equal(t, "connection refused", resp.Checks["redis"])
	})
}

func TestBookingHandler_Create(t *testing.T) {
	body := `{"customer_id": 2, "event_id": 3, "seat_id": 4}`
	input := application.CreateBookingInput{CustomerID: 2, EventID: 3, SeatID: 4}

	t.Run("正常に予約を作成できる", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("CreateBooking", mock.Anything, input).Return(reservedBooking(), nil)

		rec := s.do(http.MethodPost, "/api/v1/bookings", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "RESERVED", resp["status"])
		assert.Equal(t, "Reserviert", resp["status_label"])
		assert.Equal(t, 60.0, resp["price"])
		s.bookings.AssertExpectations(t)
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"座席競合は409", &booking.SeatUnavailableError{EventID: 3, SeatID: 4}, http.StatusConflict},
		{"処理中は409", application.ErrSeatBusy, http.StatusConflict},
		{"顧客なしは404", customer.ErrCustomerNotFound, http.StatusNotFound},
		{"別ホールの座席は400", hall.ErrSeatNotInHall, http.StatusBadRequest},
		{"予期しないエラーは500", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil)
			s.bookings.On("CreateBooking", mock.Anything, input).Return(nil, tt.err)
			rec := s.do(http.MethodPost, "/api/v1/bookings", body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("不正なリクエスト", func(t *testing.T) {
		s := newTestServer(nil)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/bookings", "invalid").Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/bookings", `{"customer_id": 1}`).Code)
		s.bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})
}

func TestBookingHandler_List(t *testing.T) {
	t.Run("クエリを入力に変換する", func(t *testing.T) {
		s := newTestServer(nil)
		want := application.ListBookingsInput{
			Status: "confirmed", CustomerID: 2, EventID: 3, ActiveOnly: true, Sort: application.SortPriceDesc,
		}
		s.bookings.On("ListBookings", mock.Anything, want).Return([]*booking.Booking{reservedBooking()}, nil)

		rec := s.do(http.MethodGet, "/api/v1/bookings?status=confirmed&customer_id=2&event_id=3&active=true&sort=price", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		s.bookings.AssertExpectations(t)
	})

	for _, q := range []string{"sort=name", "customer_id=abc", "active=maybe", "event_id=-1"} {
		t.Run("不正なクエリ "+q, func(t *testing.T) {
			s := newTestServer(nil)
			assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/bookings?"+q, "").Code)
		})
	}

	t.Run("不正な状態は400", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("ListBookings", mock.Anything, application.ListBookingsInput{Status: "pending"}).
			Return(nil, booking.ErrInvalidStatus)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/bookings?status=pending", "").Code)
	})
}

func TestBookingHandler_Transitions(t *testing.T) {
	t.Run("確定", func(t *testing.T) {
		s := newTestServer(nil)
		b := reservedBooking()
		require.NoError(t, b.Confirm(context.Background(), nil))
		s.bookings.On("ConfirmBooking", mock.Anything, int64(1)).Return(b, nil)

		rec := s.do(http.MethodPost, "/api/v1/bookings/1/confirm", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
	})

	t.Run("許可されていない遷移は409", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("CancelBooking", mock.Anything, int64(1)).
			Return(nil, &booking.TransitionError{BookingID: 1, From: booking.StatusCancelled, To: booking.StatusCancelled})
		assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/bookings/1/cancel", "").Code)
	})

	t.Run("不正なID", func(t *testing.T) {
		s := newTestServer(nil)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/bookings/abc/confirm", "").Code)
	})

	t.Run("最も高い予約がなければ404", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("MostExpensiveBooking", mock.Anything).Return(nil, booking.ErrBookingNotFound)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/bookings/most-expensive", "").Code)
	})
}

func TestHallHandler(t *testing.T) {
	t.Run("作成", func(t *testing.T) {
		s := newTestServer(nil)
		h := hall.NewHall("Saal", 0)
		require.NoError(t, h.GenerateSeats(2, 2))
		h.ID = 7
		s.halls.On("CreateHall", mock.Anything, application.CreateHallInput{Name: "Saal", Rows: 2, SeatsPerRow: 2}).Return(h, nil)

		rec := s.do(http.MethodPost, "/api/v1/halls", `{"name": "Saal", "rows": 2, "seats_per_row": 2}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp HallResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Capacity)
		require.Len(t, resp.Seats, 4)
		assert.Equal(t, "Reihe 1 Platz 1", resp.Seats[0].Label)
	})

	t.Run("席数の上限", func(t *testing.T) {
		s := newTestServer(nil)
		rec := s.do(http.MethodPost, "/api/v1/halls", `{"name": "Saal", "rows": 2, "seats_per_row": 51}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("イベントのあるホールは削除できない", func(t *testing.T) {
		s := newTestServer(nil)
		s.halls.On("DeleteHall", mock.Anything, int64(7)).Return(hall.ErrHallInUse)
		assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/api/v1/halls/7", "").Code)
	})

	t.Run("座席の作り直し", func(t *testing.T) {
		s := newTestServer(nil)
		h := hall.NewHall("Saal", 0)
		require.NoError(t, h.GenerateSeatsWithRows([]string{"A"}, 3))
		s.halls.On("RegenerateSeats", mock.Anything, application.RegenerateSeatsInput{HallID: 7, SeatsPerRow: 3, RowNames: []string{"A"}}).Return(h, nil)

		rec := s.do(http.MethodPut, "/api/v1/halls/7/seats", `{"seats_per_row": 3, "row_names": ["A"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"capacity":3`)
	})
}

func TestEventHandler(t *testing.T) {
	starts := time.Date(2030, 5, 1, 20, 0, 0, 0, time.UTC)
	ev := &event.Event{ID: 3, Name: "Konzert", Category: "Musik", StartsAt: starts, BasePrice: money.FromFloat(50), HallID: 7}

	t.Run("作成", func(t *testing.T) {
		s := newTestServer(nil)
		s.events.On("CreateEvent", mock.Anything, application.CreateEventInput{
			Name: "Konzert", Category: "Musik", StartsAt: starts, BasePrice: money.FromFloat(50), HallID: 7,
		}).Return(ev, nil)

		rec := s.do(http.MethodPost, "/api/v1/events",
			`{"name": "Konzert", "category": "Musik", "starts_at": "2030-05-01T20:00:00Z", "base_price": 50.00, "hall_id": 7}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"base_price":50.00`)
	})

	t.Run("過去の日時は400", func(t *testing.T) {
		s := newTestServer(nil)
		s.events.On("CreateEvent", mock.Anything, mock.Anything).Return(nil, event.ErrEventInPast)
		rec := s.do(http.MethodPost, "/api/v1/events",
			`{"name": "Gestern", "starts_at": "2020-01-01T00:00:00Z", "base_price": 1, "hall_id": 7}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("一覧の切り替え", func(t *testing.T) {
		s := newTestServer(nil)
		list := []*event.Event{ev}
		s.events.On("SearchEvents", mock.Anything, "kon").Return(list, nil)
		s.events.On("UpcomingEvents", mock.Anything).Return(list, nil)
		s.events.On("ListEvents", mock.Anything, "Musik").Return(list, nil)

		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/events?q=kon", "").Code)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/events?upcoming=true", "").Code)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/events?category=Musik", "").Code)
		s.events.AssertExpectations(t)
	})

	t.Run("空席数", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("AvailableSeats", mock.Anything, int64(3)).Return(18, nil)
		rec := s.do(http.MethodGet, "/api/v1/events/3/availability", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"event_id":3,"available":18}`, rec.Body.String())
	})

	t.Run("座席の空き", func(t *testing.T) {
		s := newTestServer(nil)
		s.bookings.On("IsSeatAvailable", mock.Anything, int64(3), int64(4)).Return(false, nil)
		rec := s.do(http.MethodGet, "/api/v1/events/3/seats/4/availability", "")
		assert.JSONEq(t, `{"event_id":3,"seat_id":4,"available":false}`, rec.Body.String())
	})

	t.Run("存在しないイベントは404", func(t *testing.T) {
		s := newTestServer(nil)
		s.events.On("GetEvent", mock.Anything, int64(99)).Return(nil, event.ErrEventNotFound)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/events/99", "").Code)
	})
}

func TestCustomerHandler(t *testing.T) {
	anna := &customer.Customer{ID: 2, FirstName: "Anna", LastName: "Schmidt", Email: "anna@example.com"}

	t.Run("登録", func(t *testing.T) {
		s := newTestServer(nil)
		s.customers.On("CreateCustomer", mock.Anything, application.CustomerInput{
			FirstName: "Anna", LastName: "Schmidt", Email: "anna@example.com",
		}).Return(anna, nil)

		rec := s.do(http.MethodPost, "/api/v1/customers", `{"first_name": "Anna", "last_name": "Schmidt", "email": "anna@example.com"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"full_name":"Anna Schmidt"`)
	})

	t.Run("メールアドレスの形式", func(t *testing.T) {
		s := newTestServer(nil)
		rec := s.do(http.MethodPost, "/api/v1/customers", `{"first_name": "Anna", "last_name": "Schmidt", "email": "anna"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("重複は409", func(t *testing.T) {
		s := newTestServer(nil)
		s.customers.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, customer.ErrEmailAlreadyTaken)
		rec := s.do(http.MethodPost, "/api/v1/customers", `{"first_name": "Anna", "last_name": "Schmidt", "email": "anna@example.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("顧客の予約一覧", func(t *testing.T) {
		s := newTestServer(nil)
		s.customers.On("GetCustomer", mock.Anything, int64(2)).Return(anna, nil)
		s.bookings.On("ListBookings", mock.Anything, application.ListBookingsInput{CustomerID: 2, Sort: application.SortDateDesc}).
			Return([]*booking.Booking{reservedBooking()}, nil)

		rec := s.do(http.MethodGet, "/api/v1/customers/2/bookings", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("名前順", func(t *testing.T) {
		s := newTestServer(nil)
		s.customers.On("ListCustomers", mock.Anything, true).Return([]*customer.Customer{anna}, nil)
		s.bookings.On("ActiveBookingsByCustomer", mock.Anything).Return(map[int64]int{}, nil)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/customers?sort=name", "").Code)
		s.customers.AssertExpectations(t)
	})

	t.Run("有効予約数を含む", func(t *testing.T) {
		s := newTestServer(nil)
		s.customers.On("GetCustomer", mock.Anything, int64(2)).Return(anna, nil)
		s.bookings.On("ActiveBookingsByCustomer", mock.Anything).Return(map[int64]int{2: 3, 5: 1}, nil)

		rec := s.do(http.MethodGet, "/api/v1/customers/2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp CustomerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.ActiveBookings)
	})
}

func TestReportHandler(t *testing.T) {
	t.Run("テキストレポート", func(t *testing.T) {
		s := newTestServer(nil)
		s.reports.On("Generate", mock.Anything, "top_customers", 3).Return("=== Top Kunden ===\n", nil)

		rec := s.do(http.MethodGet, "/api/v1/reports/top_customers?limit=3", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
		assert.Contains(t, rec.Body.String(), "Top Kunden")
	})

	t.Run("未知の種別は400", func(t *testing.T) {
		s := newTestServer(nil)
		s.reports.On("Generate", mock.Anything, "foo", 0).Return("", report.ErrUnknownKind)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/foo", "").Code)
	})

	t.Run("不正な件数", func(t *testing.T) {
		s := newTestServer(nil)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/reports/top_customers?limit=0", "").Code)
	})

	t.Run("概要", func(t *testing.T) {
		s := newTestServer(nil)
		s.reports.On("Overview", mock.Anything).Return(report.Overview{TotalRevenue: money.FromFloat(60), ActiveBookings: 1}, nil)
		rec := s.do(http.MethodGet, "/api/v1/reports/overview", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_revenue":60.00`)
	})
}
