package memory

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
)

// BookingRepository は booking.Repository のインメモリ実装
type BookingRepository struct {
	s *Store
}

// 呼び出し側で mu をロックしていること
func (r *BookingRepository) seatBooked(eventID, seatID, exceptID int64) bool {
	for _, b := range r.s.bookings {
		if b.ID != exceptID && b.EventID == eventID && b.SeatID == seatID && b.IsActive() {
			return true
		}
	}
	return false
}

// Create は予約を保存する。同じイベント・座席に有効な予約があれば ErrSeatUnavailable
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.IsActive() && r.seatBooked(b.EventID, b.SeatID, 0) {
		return booking.ErrSeatUnavailable
	}
	b.ID = r.s.nextID("booking")
	r.s.bookings[b.ID] = b.Clone()
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*booking.Booking, error) {
	return r.list(func(*booking.Booking) bool { return true }), nil
}

func (r *BookingRepository) ListByEvent(ctx context.Context, eventID int64) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.EventID == eventID }), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *BookingRepository) list(keep func(*booking.Booking) bool) []*booking.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*booking.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *BookingRepository) IsSeatBooked(ctx context.Context, eventID, seatID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.seatBooked(eventID, seatID, 0), nil
}

// UpdateStatus は保存済みの状態が expected のときだけ書き込む
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.bookings[b.ID]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if stored.Status() != expected {
		return booking.ErrStatusChanged
	}
	if b.IsActive() && r.seatBooked(b.EventID, b.SeatID, b.ID) {
		return booking.ErrSeatUnavailable
	}
	r.s.bookings[b.ID] = b.Clone()
	return nil
}

// CountActiveByEvent はイベントの有効予約数を返す
func (r *BookingRepository) CountActiveByEvent(ctx context.Context, eventID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, b := range r.s.bookings {
		if b.EventID == eventID && b.IsActive() {
			n++
		}
	}
	return n, nil
}
