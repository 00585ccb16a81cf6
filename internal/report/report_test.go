package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func bk(id, customerID, eventID, seatID int64, st booking.Status, cents int64) *booking.Booking {
	return booking.Restore(booking.Snapshot{ID: id, CustomerID: customerID, EventID: eventID, SeatID: seatID, Status: st, Price: money.FromCents(cents)})
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Halls: []*hall.Hall{
			{ID: 1, Name: "Saal A", Capacity: 4},
			{ID: 2, Name: "Saal B", Capacity: 0},
		},
		Events: []*event.Event{
			{ID: 10, Name: "Konzert", HallID: 1, StartsAt: now.Add(24 * time.Hour)},
			{ID: 11, Name: "Theater", HallID: 1, StartsAt: now.Add(-24 * time.Hour)},
			{ID: 12, Name: "Leer", HallID: 2, StartsAt: now.Add(48 * time.Hour)},
		},
		Customers: []*customer.Customer{
			{ID: 1, FirstName: "Anna", LastName: "Becker"},
			{ID: 2, FirstName: "Ben", LastName: "Schmidt"},
			{ID: 3, FirstName: "Clara", LastName: "Wolf"},
		},
		Bookings: []*booking.Booking{
			bk(1, 1, 10, 1, booking.StatusConfirmed, 6000),
			bk(2, 1, 10, 2, booking.StatusReserved, 6000),
			bk(3, 2, 10, 3, booking.StatusCancelled, 5000),
			bk(4, 2, 11, 1, booking.StatusConfirmed, 5000),
			bk(5, 3, 11, 2, booking.StatusCancelled, 5000),
			bk(6, 3, 11, 3, booking.StatusCancelled, 5000),
		},
		Now: now,
	}
}

func TestTotalRevenueAndActive(t *testing.T) {
	s := sampleSnapshot()

	assert.Equal(t, money.FromCents(11000), TotalRevenue(s.Bookings))
	assert.Equal(t, 3, ActiveBookings(s.Bookings))
	assert.Equal(t, money.Zero, TotalRevenue(nil))
}

func TestTotalRevenue_OrderIndependent(t *testing.T) {
	s := sampleSnapshot()
	want := TotalRevenue(s.Bookings)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		shuffled := append([]*booking.Booking(nil), s.Bookings...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, TotalRevenue(shuffled))
	}
}

func TestBookingsByStatus(t *testing.T) {
	t.Run("確定・仮予約・キャンセルが1件ずつ", func(t *testing.T) {
		bookings := []*booking.Booking{
			bk(1, 1, 1, 1, booking.StatusConfirmed, 5000),
			bk(2, 1, 1, 2, booking.StatusReserved, 5000),
			bk(3, 1, 1, 3, booking.StatusCancelled, 5000),
		}

		assert.Equal(t, 2, ActiveBookings(bookings))
		assert.Equal(t, []StatusCount{
			{booking.StatusReserved, 1},
			{booking.StatusConfirmed, 1},
			{booking.StatusCancelled, 1},
		}, BookingsByStatus(bookings))
	})

	t.Run("件数0の状態は含まない", func(t *testing.T) {
		got := BookingsByStatus(sampleSnapshot().Bookings)
		assert.Equal(t, []StatusCount{
			{booking.StatusReserved, 1},
			{booking.StatusConfirmed, 2},
			{booking.StatusCancelled, 3},
		}, got)
	})
}

func TestRevenueByEvent(t *testing.T) {
	got := RevenueByEvent(sampleSnapshot())

	require.Len(t, got, 3)
	assert.Equal(t, money.FromCents(6000), got[0].Revenue)
	assert.Equal(t, money.FromCents(5000), got[1].Revenue)
	assert.Equal(t, money.Zero, got[2].Revenue)
}

func TestTopCustomers(t *testing.T) {
	s := sampleSnapshot()

	got := TopCustomers(s, 10)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 2, got[0].Bookings)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(3), got[2].ID)
	assert.Equal(t, 0, got[2].Bookings)

	assert.Len(t, TopCustomers(s, 1), 1)
	assert.Empty(t, TopCustomers(s, 0))
}

func TestTopCustomers_StableTies(t *testing.T) {
	s := Snapshot{
		Customers: []*customer.Customer{{ID: 5}, {ID: 3}, {ID: 9}},
		Bookings: []*booking.Booking{
			bk(1, 9, 1, 1, booking.StatusReserved, 0),
			bk(2, 3, 1, 2, booking.StatusReserved, 0),
		},
	}

	got := TopCustomers(s, 3)

	assert.Equal(t, []int64{3, 9, 5}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestTopEvents(t *testing.T) {
	s := sampleSnapshot()

	t.Run("CountAllはキャンセル済みも数える", func(t *testing.T) {
		got := TopEvents(s, 3, CountAll)
		assert.Equal(t, int64(10), got[0].ID)
		assert.Equal(t, 3, got[0].Bookings)
		assert.Equal(t, int64(11), got[1].ID)
		assert.Equal(t, 3, got[1].Bookings)
	})

	t.Run("CountActiveは有効予約のみ数える", func(t *testing.T) {
		got := TopEvents(s, 2, CountActive)
		require.Len(t, got, 2)
		assert.Equal(t, int64(10), got[0].ID)
		assert.Equal(t, 2, got[0].Bookings)
		assert.Equal(t, 1, got[1].Bookings)
	})
}

func TestEventOccupancy(t *testing.T) {
	got := EventOccupancy(sampleSnapshot())

	require.Len(t, got, 3)
	assert.Equal(t, Occupancy{Event: got[0].Event, EventID: 10, Name: "Konzert", Capacity: 4, Booked: 2, Available: 2, Rate: 50}, got[0])
	assert.Equal(t, 25.0, got[1].Rate)
	assert.Equal(t, 0.0, got[2].Rate, "収容人数0は稼働率0")
	assert.Equal(t, 0, got[2].Available)
}

func TestEventOccupancy_Bounds(t *testing.T) {
	for capacity := 1; capacity <= 7; capacity++ {
		for booked := 0; booked <= capacity; booked++ {
			bookings := make([]*booking.Booking, 0, booked)
			for i := 0; i < booked; i++ {
				bookings = append(bookings, bk(int64(i+1), 1, 1, int64(i+1), booking.StatusReserved, 0))
			}
			s := Snapshot{
				Halls:    []*hall.Hall{{ID: 1, Capacity: capacity}},
				Events:   []*event.Event{{ID: 1, HallID: 1}},
				Bookings: bookings,
			}

			o := EventOccupancy(s)[0]

			assert.GreaterOrEqual(t, o.Rate, 0.0)
			assert.LessOrEqual(t, o.Rate, 100.0)
			if booked == capacity {
				assert.Equal(t, 100.0, o.Rate)
			}
		}
	}
}

func TestEventOccupancy_OneDecimal(t *testing.T) {
	s := Snapshot{
		Halls:    []*hall.Hall{{ID: 1, Capacity: 3}},
		Events:   []*event.Event{{ID: 1, HallID: 1}},
		Bookings: []*booking.Booking{bk(1, 1, 1, 1, booking.StatusConfirmed, 0)},
	}

	assert.Equal(t, 33.3, EventOccupancy(s)[0].Rate)
}

func TestActiveBookingsByCustomer(t *testing.T) {
	counts := ActiveBookingsByCustomer(sampleSnapshot().Bookings)

	assert.Equal(t, map[int64]int{1: 2, 2: 1}, counts)
	assert.Zero(t, counts[3], "キャンセルのみの顧客は0")
}

func TestBuildOverview(t *testing.T) {
	o := BuildOverview(sampleSnapshot())

	assert.Equal(t, money.FromCents(11000), o.TotalRevenue)
	assert.Equal(t, 3, o.ActiveBookings)
	assert.Equal(t, 6, o.TotalBookings)
	assert.Equal(t, 3, o.Customers)
	assert.Equal(t, 3, o.Events)
	assert.Equal(t, 2, o.UpcomingEvents)
	require.Len(t, o.TopEvents, 3)
	assert.Equal(t, int64(10), o.TopEvents[0].ID)
}
