package booking

import (
	"context"
	"sort"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

// Booking は予約エンティティを表す。状態は Reserve/Confirm/Cancel でのみ変わる
type Booking struct {
	ID         int64
	CustomerID int64
	EventID    int64
	SeatID     int64
	status     Status
	Price      money.Amount
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot は永続化された予約の値
type Snapshot struct {
	ID         int64
	CustomerID int64
	EventID    int64
	SeatID     int64
	Status     Status
	Price      money.Amount
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Restore はストレージから読み出した値で予約を再構築する
func Restore(s Snapshot) *Booking {
	return &Booking{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		EventID:    s.EventID,
		SeatID:     s.SeatID,
		status:     s.Status,
		Price:      s.Price,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// NewBooking は AVAILABLE 状態の予約を作成する。永続化前に Reserve する必要がある
func NewBooking(customerID, eventID, seatID int64, price money.Amount) *Booking {
	now := time.Now()
	return &Booking{
		CustomerID: customerID,
		EventID:    eventID,
		SeatID:     seatID,
		status:     StatusAvailable,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Reserve は予約を RESERVED にする
func (b *Booking) Reserve(ctx context.Context, n Notifier) error {
	return b.transition(ctx, StatusReserved, n)
}

// Confirm は予約を確定する
func (b *Booking) Confirm(ctx context.Context, n Notifier) error {
	return b.transition(ctx, StatusConfirmed, n)
}

// Cancel は予約をキャンセルする
func (b *Booking) Cancel(ctx context.Context, n Notifier) error {
	return b.transition(ctx, StatusCancelled, n)
}

// Status は現在の状態を返す
func (b *Booking) Status() Status {
	return b.status
}

// IsActive はキャンセルされていないかを返す
func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) transition(ctx context.Context, next Status, n Notifier) error {
	if !b.status.CanTransitionTo(next) {
		return &TransitionError{BookingID: b.ID, From: b.status, To: next}
	}
	old := b.status
	b.status = next
	b.UpdatedAt = time.Now()
	if n != nil {
		n.Notify(ctx, b, old, next)
	}
	return nil
}

// Clone は予約のコピーを返す
func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}

// FilterByStatus は指定状態の予約を返す
func FilterByStatus(bookings []*Booking, status Status) []*Booking {
	out := make([]*Booking, 0)
	for _, b := range bookings {
		if b.status == status {
			out = append(out, b)
		}
	}
	return out
}

// Active はキャンセル以外の予約を返す
func Active(bookings []*Booking) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

// SortByDateDesc は作成日時の新しい順に並べたコピーを返す
func SortByDateDesc(bookings []*Booking) []*Booking {
	out := append([]*Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SortByPriceDesc は価格の高い順に並べたコピーを返す
func SortByPriceDesc(bookings []*Booking) []*Booking {
	out := append([]*Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price > out[j].Price
	})
	return out
}

// MostExpensive は最も高い予約を返す。空なら nil
func MostExpensive(bookings []*Booking) *Booking {
	var top *Booking
	for _, b := range bookings {
		if top == nil || b.Price > top.Price {
			top = b
		}
	}
	return top
}
