// Package allocation は座席の空き判定と予約の作成を行う
package allocation

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/pricing"
)

// SeatChecker は座席の予約状況を問い合わせる
type SeatChecker interface {
	IsSeatBooked(ctx context.Context, eventID, seatID int64) (bool, error)
}

// Allocator は座席割り当てサービス
type Allocator struct {
	checker SeatChecker
}

// NewAllocator は Allocator を作成する
func NewAllocator(checker SeatChecker) *Allocator {
	return &Allocator{checker: checker}
}

// IsSeatAvailable はイベントの座席にキャンセル以外の予約がなければ true を返す
func (a *Allocator) IsSeatAvailable(ctx context.Context, eventID, seatID int64) (bool, error) {
	booked, err := a.checker.IsSeatBooked(ctx, eventID, seatID)
	if err != nil {
		return false, fmt.Errorf("座席の予約状況の取得に失敗: %w", err)
	}
	return !booked, nil
}

// CreateBooking は空き確認・価格計算を行い、RESERVED 状態の予約を返す。
// 永続化は呼び出し側で行う
func (a *Allocator) CreateBooking(ctx context.Context, c *customer.Customer, ev *event.Event, seat *hall.Seat, n booking.Notifier) (*booking.Booking, error) {
	if seat.HallID != ev.HallID {
		return nil, hall.ErrSeatNotInHall
	}

	available, err := a.IsSeatAvailable(ctx, ev.ID, seat.ID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, &booking.SeatUnavailableError{EventID: ev.ID, SeatID: seat.ID}
	}

	b := booking.NewBooking(c.ID, ev.ID, seat.ID, pricing.Price(ev, seat))
	if err := b.Reserve(ctx, n); err != nil {
		return nil, err
	}
	return b, nil
}
