package application

import (
	"context"
	"errors"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
)

// ErrSeatBusy は座席が他のリクエストで処理中であることを表す
var ErrSeatBusy = errors.New("座席が他のユーザーによって処理中です")

// ActiveBookingCounter はイベントの有効予約数を数える
type ActiveBookingCounter interface {
	CountActiveByEvent(ctx context.Context, eventID int64) (int, error)
}

// BookingStore は予約リポジトリに有効予約数の集計を加えたもの
type BookingStore interface {
	booking.Repository
	ActiveBookingCounter
}

// SeatLocker はイベント・座席単位の排他を提供する（Redis 分散ロック）
type SeatLocker interface {
	LockSeat(ctx context.Context, eventID, seatID int64) (unlock func(), err error)
}

// AvailabilityCache はイベントの空席数キャッシュ。無効化は通知経由で行う
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, eventID int64) (int, error)
	SetAvailableCount(ctx context.Context, eventID int64, count int, ttl time.Duration) error
}

// Clock は現在時刻を返す
type Clock func() time.Time
