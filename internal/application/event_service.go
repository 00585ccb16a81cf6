package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
	"github.com/sanosuguru/go-event-booking-system/internal/notification"
	"github.com/sanosuguru/go-event-booking-system/internal/pkg/logger"
)

type EventService struct {
	eventRepo event.Repository
	hallRepo  hall.Repository
	bookings  ActiveBookingCounter
	cache     notification.AvailabilityInvalidator
	now       Clock
}

// EventServiceOption は任意の依存を設定する
type EventServiceOption func(*EventService)

// WithEventCacheInvalidator はイベント更新時に空席数キャッシュを破棄する
func WithEventCacheInvalidator(c notification.AvailabilityInvalidator) EventServiceOption {
	return func(s *EventService) { s.cache = c }
}

func NewEventService(er event.Repository, hr hall.Repository, bc ActiveBookingCounter, now Clock, opts ...EventServiceOption) *EventService {
	if now == nil {
		now = time.Now
	}
	s := &EventService{eventRepo: er, hallRepo: hr, bookings: bc, now: now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateEventInput struct {
	Name        string
	Description string
	Category    string
	StartsAt    time.Time
	BasePrice   money.Amount
	HallID      int64
}

// CreateEvent はイベントを作成する。開始日時が過去なら ErrEventInPast
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Name, input.Description, input.Category, input.StartsAt, input.BasePrice, input.HallID)
	if err := e.ValidateForCreate(s.now()); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if _, err := s.hallRepo.GetByID(ctx, e.HallID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents はイベント一覧を返す。category が空でなければ絞り込む
func (s *EventService) ListEvents(ctx context.Context, category string) ([]*event.Event, error) {
	if category != "" {
		return s.eventRepo.ListByCategory(ctx, category)
	}
	return s.eventRepo.List(ctx)
}

// UpcomingEvents は未来のイベントを開始日時順で返す
func (s *EventService) UpcomingEvents(ctx context.Context) ([]*event.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return event.Upcoming(events, s.now()), nil
}

// SearchEvents は名前で部分一致検索する
func (s *EventService) SearchEvents(ctx context.Context, query string) ([]*event.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return event.Search(events, query), nil
}

// EventsByCategory はカテゴリごとにまとめたイベントを返す
func (s *EventService) EventsByCategory(ctx context.Context) (map[string][]*event.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return event.GroupByCategory(events), nil
}

type UpdateEventInput struct {
	ID          int64
	Name        string
	Description string
	Category    string
	StartsAt    time.Time
	BasePrice   money.Amount
	HallID      int64
}

// UpdateEvent はイベントを更新する。既存予約の価格は変わらない。
// 有効な予約がある間はホールを変更できない
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.HallID != e.HallID {
		booked, err := s.bookings.CountActiveByEvent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if booked > 0 {
			return nil, fmt.Errorf("イベント %d（有効予約 %d 件）: %w", e.ID, booked, event.ErrEventHasBookings)
		}
	}
	e.Name = input.Name
	e.Description = input.Description
	e.Category = input.Category
	e.StartsAt = input.StartsAt
	e.BasePrice = input.BasePrice
	e.HallID = input.HallID
	e.UpdatedAt = s.now()
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if _, err := s.hallRepo.GetByID(ctx, e.HallID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAvailableCount(ctx, e.ID); err != nil {
			logger.Warn("キャッシュ削除エラー", zap.Int64("event_id", e.ID), zap.Error(err))
		}
	}
	return e, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}
