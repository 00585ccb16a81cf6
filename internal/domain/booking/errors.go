package booking

import (
	"errors"
	"fmt"
)

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound   = errors.New("予約が見つかりません")
	ErrInvalidTransition = errors.New("許可されていない状態遷移です")
	ErrSeatUnavailable   = errors.New("座席は既に予約されています")
	ErrInvalidStatus     = errors.New("不正な予約状態です")
	ErrStatusChanged     = errors.New("予約の状態が他の操作で変更されました")
)

// TransitionError は不正な状態遷移の詳細を表す
type TransitionError struct {
	BookingID int64
	From      Status
	To        Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("予約 %d: %s から %s への遷移は許可されていません", e.BookingID, e.From, e.To)
}

// Is は errors.Is(err, ErrInvalidTransition) を満たす
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// SeatUnavailableError は座席の競合を表す
type SeatUnavailableError struct {
	EventID int64
	SeatID  int64
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("イベント %d の座席 %d は既に予約されています", e.EventID, e.SeatID)
}

// Is は errors.Is(err, ErrSeatUnavailable) を満たす
func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}
