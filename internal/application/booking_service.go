package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/allocation"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	redisinfra "github.com/sanosuguru/go-event-booking-system/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-booking-system/internal/notification"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/logger"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

const (
	availabilityCacheTTL = 30 * time.Second
	transitionAttempts   = 3
)

// 予約作成結果のラベル
const (
	resultSuccess    = "success"
	resultConflict   = "conflict"
	resultLockFailed = "lock_failed"
	resultError      = "error"
)

type BookingService struct {
	bookingRepo  BookingStore
	customerRepo customer.Repository
	eventRepo    event.Repository
	hallRepo     hall.Repository
	seatRepo     hall.SeatRepository
	allocator    *allocation.Allocator
	hub          *notification.Hub
	locker       SeatLocker
	cache        AvailabilityCache
	metrics      *metrics.Metrics
}

// BookingServiceOption は任意の依存を設定する
type BookingServiceOption func(*BookingService)

// WithSeatLocker は予約作成時に座席ロックを取る
func WithSeatLocker(l SeatLocker) BookingServiceOption {
	return func(s *BookingService) { s.locker = l }
}

// WithAvailabilityCache は空席数をキャッシュする
func WithAvailabilityCache(c AvailabilityCache) BookingServiceOption {
	return func(s *BookingService) { s.cache = c }
}

// WithMetrics は予約作成結果を記録する
func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) { s.metrics = m }
}

func NewBookingService(br BookingStore, cr customer.Repository, er event.Repository, hr hall.Repository, sr hall.SeatRepository, hub *notification.Hub, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		bookingRepo:  br,
		customerRepo: cr,
		eventRepo:    er,
		hallRepo:     hr,
		seatRepo:     sr,
		allocator:    allocation.NewAllocator(br),
		hub:          hub,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// transitionLog は遷移を記録し、永続化後にまとめて配信する
type transitionLog struct {
	entries [][2]booking.Status
}

func (l *transitionLog) Notify(_ context.Context, _ *booking.Booking, old, new booking.Status) {
	l.entries = append(l.entries, [2]booking.Status{old, new})
}

func (s *BookingService) flush(ctx context.Context, b *booking.Booking, l *transitionLog) {
	if s.hub == nil {
		return
	}
	for _, e := range l.entries {
		s.hub.Notify(ctx, b, e[0], e[1])
	}
}

type CreateBookingInput struct {
	CustomerID int64
	EventID    int64
	SeatID     int64
}

// CreateBooking は座席を確保して RESERVED の予約を作成する。
// 同じ座席への同時リクエストはストレージの一意制約で1件だけ成功する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b, err := s.createBooking(ctx, input)
	s.observeResult(err)
	if err != nil {
		return nil, err
	}
	logger.Info("予約を作成しました",
		zap.Int64("booking_id", b.ID),
		zap.Int64("event_id", b.EventID),
		zap.Int64("seat_id", b.SeatID),
		zap.String("price", b.Price.String()),
	)
	return b, nil
}

func (s *BookingService) createBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	if s.locker != nil {
		unlock, err := s.locker.LockSeat(ctx, input.EventID, input.SeatID)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				return nil, ErrSeatBusy
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer unlock()
	}

	c, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	seat, err := s.seatRepo.GetByID(ctx, input.SeatID)
	if err != nil {
		return nil, err
	}

	log := &transitionLog{}
	b, err := s.allocator.CreateBooking(ctx, c, ev, seat, log)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		if errors.Is(err, booking.ErrSeatUnavailable) {
			return nil, &booking.SeatUnavailableError{EventID: ev.ID, SeatID: seat.ID}
		}
		return nil, fmt.Errorf("予約の保存に失敗: %w", err)
	}
	s.flush(ctx, b, log)
	return b, nil
}

func (s *BookingService) observeResult(err error) {
	if s.metrics == nil {
		return
	}
	result := resultSuccess
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrSeatUnavailable):
		result = resultConflict
	case errors.Is(err, ErrSeatBusy):
		result = resultLockFailed
	default:
		result = resultError
	}
	s.metrics.BookingsTotal.WithLabelValues(result).Inc()
}

// ConfirmBooking は予約を確定する
func (s *BookingService) ConfirmBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	return s.transition(ctx, id, (*booking.Booking).Confirm)
}

// CancelBooking は予約をキャンセルし、座席を解放する
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	return s.transition(ctx, id, (*booking.Booking).Cancel)
}

// transition は読み込んだ状態を条件に書き込む。
// 書き込み前に別の操作で状態が変わっていれば読み直して遷移をやり直す。
// 状態は前にしか進まないので試行回数は transitionAttempts で足りる
func (s *BookingService) transition(ctx context.Context, id int64, apply func(*booking.Booking, context.Context, booking.Notifier) error) (*booking.Booking, error) {
	for attempt := 1; attempt <= transitionAttempts; attempt++ {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		old := b.Status()
		log := &transitionLog{}
		if err := apply(b, ctx, log); err != nil {
			return nil, err
		}
		err = s.bookingRepo.UpdateStatus(ctx, b, old)
		if errors.Is(err, booking.ErrStatusChanged) {
			logger.Warn("予約の状態が同時に変更されたため再試行します",
				zap.Int64("booking_id", id),
				zap.String("from", old.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("予約の更新に失敗: %w", err)
		}
		s.flush(ctx, b, log)
		logger.Info("予約の状態を変更しました",
			zap.Int64("booking_id", b.ID),
			zap.String("from", old.String()),
			zap.String("to", b.Status().String()),
		)
		return b, nil
	}
	return nil, fmt.Errorf("予約 %d: %w", id, booking.ErrStatusChanged)
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// BookingSort は一覧の並び順
type BookingSort string

const (
	SortNone      BookingSort = ""
	SortDateDesc  BookingSort = "date"
	SortPriceDesc BookingSort = "price"
)

type ListBookingsInput struct {
	Status     string
	CustomerID int64
	EventID    int64
	ActiveOnly bool
	Sort       BookingSort
}

// ListBookings は条件に合う予約を返す
func (s *BookingService) ListBookings(ctx context.Context, input ListBookingsInput) ([]*booking.Booking, error) {
	var (
		bookings []*booking.Booking
		err      error
	)
	switch {
	case input.CustomerID != 0:
		bookings, err = s.bookingRepo.ListByCustomer(ctx, input.CustomerID)
	case input.EventID != 0:
		bookings, err = s.bookingRepo.ListByEvent(ctx, input.EventID)
	default:
		bookings, err = s.bookingRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	if input.CustomerID != 0 && input.EventID != 0 {
		filtered := bookings[:0]
		for _, b := range bookings {
			if b.EventID == input.EventID {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}
	if input.Status != "" {
		st, err := booking.ParseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		bookings = booking.FilterByStatus(bookings, st)
	}
	if input.ActiveOnly {
		bookings = booking.Active(bookings)
	}
	switch input.Sort {
	case SortDateDesc:
		bookings = booking.SortByDateDesc(bookings)
	case SortPriceDesc:
		bookings = booking.SortByPriceDesc(bookings)
	}
	return bookings, nil
}

// MostExpensiveBooking は最も高い予約を返す。予約がなければ ErrBookingNotFound
func (s *BookingService) MostExpensiveBooking(ctx context.Context) (*booking.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	top := booking.MostExpensive(bookings)
	if top == nil {
		return nil, booking.ErrBookingNotFound
	}
	return top, nil
}

// ActiveBookingsByCustomer は顧客IDごとの有効予約数を返す
func (s *BookingService) ActiveBookingsByCustomer(ctx context.Context) (map[int64]int, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.ActiveBookingsByCustomer(bookings), nil
}

// IsSeatAvailable はイベントの座席が予約可能かを返す
func (s *BookingService) IsSeatAvailable(ctx context.Context, eventID, seatID int64) (bool, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return false, err
	}
	if _, err := s.seatRepo.GetByID(ctx, seatID); err != nil {
		return false, err
	}
	return s.allocator.IsSeatAvailable(ctx, eventID, seatID)
}

// AvailableSeats はイベントの空席数を返す
func (s *BookingService) AvailableSeats(ctx context.Context, eventID int64) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.Int64("event_id", eventID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	h, err := s.hallRepo.GetByID(ctx, ev.HallID)
	if err != nil {
		return 0, fmt.Errorf("ホール取得に失敗: %w", err)
	}
	booked, err := s.bookingRepo.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	count := h.Capacity - booked
	if count < 0 {
		count = 0
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, eventID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// Subscribe はすべての予約の状態変更を購読する
func (s *BookingService) Subscribe(obs booking.ObserverFunc) (unsubscribe func()) {
	return s.hub.Subscribe(obs)
}

// SubscribeBooking は特定の予約の状態変更を購読する
func (s *BookingService) SubscribeBooking(bookingID int64, obs booking.ObserverFunc) (unsubscribe func()) {
	return s.hub.SubscribeBooking(bookingID, obs)
}

