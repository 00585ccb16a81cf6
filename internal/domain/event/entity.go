package event

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

// MaxBasePrice はイベントの基本価格の上限
const MaxBasePrice = money.Amount(10_000_00)

// Event はイベントエンティティを表す
type Event struct {
	ID          int64
	Name        string
	Description string
	StartsAt    time.Time
	Category    string
	BasePrice   money.Amount
	HallID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent は新しいイベントを作成する
func NewEvent(name, description, category string, startsAt time.Time, basePrice money.Amount, hallID int64) *Event {
	now := time.Now()
	return &Event{
		Name:        strings.TrimSpace(name),
		Description: description,
		StartsAt:    startsAt,
		Category:    strings.TrimSpace(category),
		BasePrice:   basePrice,
		HallID:      hallID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if len(e.Name) < 2 {
		return ErrEventNameRequired
	}
	if len(e.Name) > 100 {
		return ErrEventNameTooLong
	}
	if e.StartsAt.IsZero() {
		return ErrStartsAtRequired
	}
	if e.BasePrice < 0 || e.BasePrice > MaxBasePrice {
		return ErrInvalidBasePrice
	}
	if e.HallID <= 0 {
		return ErrHallRequired
	}
	return nil
}

// ValidateForCreate は新規作成時の検証を行う。過去の日時は受け付けない
func (e *Event) ValidateForCreate(now time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if !e.StartsAt.After(now) {
		return ErrEventInPast
	}
	return nil
}

// IsUpcoming は now より後に開始するかを返す
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

// MatchesName は名前の部分一致（大文字小文字を区別しない）を返す
func (e *Event) MatchesName(query string) bool {
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(strings.TrimSpace(query)))
}

// GroupByCategory はカテゴリごとにイベントをまとめる
func GroupByCategory(events []*Event) map[string][]*Event {
	groups := make(map[string][]*Event)
	for _, e := range events {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// Upcoming は now 以降に開始するイベントを開始日時順に返す
func Upcoming(events []*Event, now time.Time) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		if e.IsUpcoming(now) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}

// Search は名前で部分一致するイベントを返す
func Search(events []*Event, query string) []*Event {
	out := make([]*Event, 0)
	for _, e := range events {
		if e.MatchesName(query) {
			out = append(out, e)
		}
	}
	return out
}
