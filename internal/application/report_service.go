package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

type ReportService struct {
	bookingRepo  booking.Repository
	eventRepo    event.Repository
	hallRepo     hall.Repository
	customerRepo customer.Repository
	topLimit     int
	now          Clock
}

func NewReportService(br booking.Repository, er event.Repository, hr hall.Repository, cr customer.Repository, topLimit int, now Clock) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{bookingRepo: br, eventRepo: er, hallRepo: hr, customerRepo: cr, topLimit: topLimit, now: now}
}

// Snapshot は集計用のデータを読み込む。いずれかの取得に失敗したら全体を失敗とする
func (s *ReportService) Snapshot(ctx context.Context) (report.Snapshot, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("予約取得に失敗: %w", err)
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	halls, err := s.hallRepo.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("ホール取得に失敗: %w", err)
	}
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("顧客取得に失敗: %w", err)
	}
	return report.Snapshot{
		Bookings:  bookings,
		Events:    events,
		Halls:     halls,
		Customers: customers,
		Now:       s.now(),
	}, nil
}

// Generate はテキストレポートを生成する。limit が0以下なら設定値を使う
func (s *ReportService) Generate(ctx context.Context, kind string, limit int) (string, error) {
	k, err := report.ParseKind(kind)
	if err != nil {
		return "", err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = s.topLimit
	}
	return report.Generate(k, snap, report.Options{TopLimit: limit})
}

// Overview は全体概要を返す
func (s *ReportService) Overview(ctx context.Context) (report.Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return report.Overview{}, err
	}
	return report.BuildOverview(snap), nil
}

// Statistics は各集計をまとめたもの
type Statistics struct {
	Overview         report.Overview       `json:"overview"`
	BookingsByStatus []report.StatusCount  `json:"bookings_by_status"`
	RevenueByEvent   []report.EventRevenue `json:"revenue_by_event"`
	TopCustomers     []report.CustomerRank `json:"top_customers"`
	Occupancy        []report.Occupancy    `json:"occupancy"`
}

// Statistics は同じスナップショットから全集計を行う
func (s *ReportService) Statistics(ctx context.Context) (*Statistics, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	limit := s.topLimit
	if limit <= 0 {
		limit = report.DefaultTopLimit
	}
	return &Statistics{
		Overview:         report.BuildOverview(snap),
		BookingsByStatus: report.BookingsByStatus(snap.Bookings),
		RevenueByEvent:   report.RevenueByEvent(snap),
		TopCustomers:     report.TopCustomers(snap, limit),
		Occupancy:        report.EventOccupancy(snap),
	}, nil
}
