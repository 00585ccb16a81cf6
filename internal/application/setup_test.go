package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
	"github.com/sanosuguru/go-event-booking-system/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-booking-system/internal/notification"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type testEnv struct {
	store     *memory.Store
	hub       *notification.Hub
	halls     *HallService
	events    *EventService
	customers *CustomerService
	bookings  *BookingService
	reports   *ReportService
}

// setupTestEnv はインメモリストアで全サービスを組み立てる
func setupTestEnv(t *testing.T, opts ...BookingServiceOption) *testEnv {
	t.Helper()
	s := memory.NewStore()
	hub := notification.NewHub(zap.NewNop(), nil)
	return &testEnv{
		store:     s,
		hub:       hub,
		halls:     NewHallService(s.TxManager(), s.Halls(), s.Seats(), s.Events()),
		events:    NewEventService(s.Events(), s.Halls(), s.Bookings(), fixedClock),
		customers: NewCustomerService(s.Customers()),
		bookings:  NewBookingService(s.Bookings(), s.Customers(), s.Events(), s.Halls(), s.Seats(), hub, opts...),
		reports:   NewReportService(s.Bookings(), s.Events(), s.Halls(), s.Customers(), 10, fixedClock),
	}
}

// seed はホール（4列×5席）・イベント（基本料金50.00）・顧客を作成する
func (env *testEnv) seed(t *testing.T) (*hall.Hall, *event.Event, *customer.Customer) {
	t.Helper()
	ctx := context.Background()
	h, err := env.halls.CreateHall(ctx, CreateHallInput{Name: "Großer Saal", Rows: 4, SeatsPerRow: 5})
	require.NoError(t, err)
	ev, err := env.events.CreateEvent(ctx, CreateEventInput{
		Name:      "Konzert",
		Category:  "Musik",
		StartsAt:  fixedNow.Add(7 * 24 * time.Hour),
		BasePrice: money.FromFloat(50),
		HallID:    h.ID,
	})
	require.NoError(t, err)
	c, err := env.customers.CreateCustomer(ctx, CustomerInput{
		FirstName: "Anna", LastName: "Schmidt", Email: "anna@example.com",
	})
	require.NoError(t, err)
	return h, ev, c
}

// seatInRow は指定列の最初の座席を返す
func seatInRow(t *testing.T, h *hall.Hall, row string) *hall.Seat {
	t.Helper()
	for _, s := range h.Seats {
		if s.Row == row {
			return s
		}
	}
	t.Fatalf("列 %s の座席がありません", row)
	return nil
}
