package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/logger"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

// BookingLister は予約一覧を返す
type BookingLister interface {
	List(ctx context.Context) ([]*booking.Booking, error)
}

// StatsRefresher は予約の状態別件数と確定売上を定期的にゲージへ反映するワーカー
type StatsRefresher struct {
	bookings BookingLister
	active   *prometheus.GaugeVec
	revenue  prometheus.Gauge
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewStatsRefresher は新しいワーカーを作成
func NewStatsRefresher(bl BookingLister, active *prometheus.GaugeVec, revenue prometheus.Gauge, interval time.Duration) *StatsRefresher {
	return &StatsRefresher{
		bookings: bl,
		active:   active,
		revenue:  revenue,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始する。起動直後に一度反映してから interval ごとに更新する
func (r *StatsRefresher) Start(ctx context.Context) {
	logger.Info("予約統計ワーカー開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("予約統計ワーカー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("予約統計ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はワーカーを停止
func (r *StatsRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *StatsRefresher) refresh(ctx context.Context) {
	log := logger.Get()

	bookings, err := r.bookings.List(ctx)
	if err != nil {
		log.Error("予約統計の更新に失敗", zap.Error(err))
		return
	}

	counts := make(map[booking.Status]int, len(booking.AllStatuses()))
	for _, b := range bookings {
		counts[b.Status()]++
	}
	// 件数0の状態も明示的に0にする
	for _, s := range booking.AllStatuses() {
		r.active.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
	revenue := report.TotalRevenue(bookings)
	r.revenue.Set(revenue.Float())

	log.Debug("予約統計を更新",
		zap.Int("bookings", len(bookings)),
		zap.Stringer("confirmed_revenue", revenue),
	)
}
