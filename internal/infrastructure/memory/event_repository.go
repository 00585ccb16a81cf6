package memory

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
)

// EventRepository は event.Repository のインメモリ実装
type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.halls[e.HallID]; !ok {
		return hall.ErrHallNotFound
	}
	e.ID = r.s.nextID("event")
	c := *e
	r.s.events[e.ID] = &c
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

func (r *EventRepository) List(ctx context.Context) ([]*event.Event, error) {
	return r.list(func(*event.Event) bool { return true }), nil
}

func (r *EventRepository) ListByCategory(ctx context.Context, category string) ([]*event.Event, error) {
	return r.list(func(e *event.Event) bool { return e.Category == category }), nil
}

func (r *EventRepository) list(keep func(*event.Event) bool) []*event.Event {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*event.Event, 0)
	for _, e := range r.s.events {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; !ok {
		return event.ErrEventNotFound
	}
	if _, ok := r.s.halls[e.HallID]; !ok {
		return hall.ErrHallNotFound
	}
	c := *e
	r.s.events[e.ID] = &c
	return nil
}

// Delete はイベントとその予約を削除する
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return event.ErrEventNotFound
	}
	for bid, b := range r.s.bookings {
		if b.EventID == id {
			delete(r.s.bookings, bid)
		}
	}
	delete(r.s.events, id)
	return nil
}
