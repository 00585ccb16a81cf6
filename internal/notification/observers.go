package notification

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
)

// LogObserver は状態遷移ごとに構造化ログを出力する
func LogObserver(logger *zap.Logger) booking.ObserverFunc {
	return func(_ context.Context, b *booking.Booking, old, new booking.Status) error {
		logger.Info("予約の状態が変更されました",
			zap.Int64("booking_id", b.ID),
			zap.Int64("event_id", b.EventID),
			zap.Int64("seat_id", b.SeatID),
			zap.String("from", string(old)),
			zap.String("to", string(new)),
		)
		return nil
	}
}

// MetricsObserver は状態遷移をカウントする
func MetricsObserver(transitions *prometheus.CounterVec) booking.ObserverFunc {
	return func(_ context.Context, _ *booking.Booking, old, new booking.Status) error {
		transitions.WithLabelValues(string(old), string(new)).Inc()
		return nil
	}
}

// AvailabilityInvalidator は空席数キャッシュを破棄する
type AvailabilityInvalidator interface {
	InvalidateAvailableCount(ctx context.Context, eventID int64) error
}

// CacheInvalidator は予約の状態変更時にイベントの空席数キャッシュを破棄する
func CacheInvalidator(cache AvailabilityInvalidator) booking.ObserverFunc {
	return func(ctx context.Context, b *booking.Booking, _, _ booking.Status) error {
		return cache.InvalidateAvailableCount(ctx, b.EventID)
	}
}
