package handler

import (
	"context"

	"github.com/sanosuguru/go-event-booking-system/internal/application"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

// HallServiceInterface はホールサービスのインターフェース
type HallServiceInterface interface {
	CreateHall(ctx context.Context, input application.CreateHallInput) (*hall.Hall, error)
	GetHall(ctx context.Context, id int64) (*hall.Hall, error)
	ListHalls(ctx context.Context) ([]*hall.Hall, error)
	ListSeats(ctx context.Context, hallID int64) ([]*hall.Seat, error)
	RegenerateSeats(ctx context.Context, input application.RegenerateSeatsInput) (*hall.Hall, error)
	DeleteHall(ctx context.Context, id int64) error
}

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id int64) (*event.Event, error)
	ListEvents(ctx context.Context, category string) ([]*event.Event, error)
	UpcomingEvents(ctx context.Context) ([]*event.Event, error)
	SearchEvents(ctx context.Context, query string) ([]*event.Event, error)
	EventsByCategory(ctx context.Context) (map[string][]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

// CustomerServiceInterface は顧客サービスのインターフェース
type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, input application.CustomerInput) (*customer.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	ListCustomers(ctx context.Context, sortByName bool) ([]*customer.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]*customer.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, input application.CustomerInput) (*customer.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id int64) (*booking.Booking, error)
	ListBookings(ctx context.Context, input application.ListBookingsInput) ([]*booking.Booking, error)
	ConfirmBooking(ctx context.Context, id int64) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*booking.Booking, error)
	MostExpensiveBooking(ctx context.Context) (*booking.Booking, error)
	IsSeatAvailable(ctx context.Context, eventID, seatID int64) (bool, error)
	AvailableSeats(ctx context.Context, eventID int64) (int, error)
	ActiveBookingsByCustomer(ctx context.Context) (map[int64]int, error)
}

// ReportServiceInterface はレポートサービスのインターフェース
type ReportServiceInterface interface {
	Generate(ctx context.Context, kind string, limit int) (string, error)
	Overview(ctx context.Context) (report.Overview, error)
	Statistics(ctx context.Context) (*application.Statistics, error)
}
