package memory

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

// HallRepository は hall.Repository のインメモリ実装
type HallRepository struct {
	s *Store
}

func (r *HallRepository) Create(ctx context.Context, _ transaction.Tx, h *hall.Hall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = r.s.nextID("hall")
	stored := *h
	stored.Seats = nil
	r.s.halls[h.ID] = &stored
	return nil
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*hall.Hall, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.halls[id]
	if !ok {
		return nil, hall.ErrHallNotFound
	}
	c := *h
	return &c, nil
}

func (r *HallRepository) List(ctx context.Context) ([]*hall.Hall, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*hall.Hall, 0, len(r.s.halls))
	for _, h := range r.s.halls {
		c := *h
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *HallRepository) Update(ctx context.Context, _ transaction.Tx, h *hall.Hall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.halls[h.ID]; !ok {
		return hall.ErrHallNotFound
	}
	stored := *h
	stored.Seats = nil
	r.s.halls[h.ID] = &stored
	return nil
}

func (r *HallRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.halls[id]; !ok {
		return hall.ErrHallNotFound
	}
	for _, e := range r.s.events {
		if e.HallID == id {
			return hall.ErrHallInUse
		}
	}
	for sid, seat := range r.s.seats {
		if seat.HallID == id {
			delete(r.s.seats, sid)
		}
	}
	delete(r.s.halls, id)
	return nil
}

// SeatRepository は hall.SeatRepository のインメモリ実装
type SeatRepository struct {
	s *Store
}

func (r *SeatRepository) CreateBulk(ctx context.Context, _ transaction.Tx, seats []*hall.Seat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, seat := range seats {
		if _, ok := r.s.halls[seat.HallID]; !ok {
			return hall.ErrHallNotFound
		}
		for _, existing := range r.s.seats {
			if existing.HallID == seat.HallID && existing.Row == seat.Row && existing.Number == seat.Number {
				return hall.ErrSeatAlreadyExists
			}
		}
		seat.ID = r.s.nextID("seat")
		c := *seat
		r.s.seats[seat.ID] = &c
	}
	return nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*hall.Seat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seat, ok := r.s.seats[id]
	if !ok {
		return nil, hall.ErrSeatNotFound
	}
	c := *seat
	return &c, nil
}

func (r *SeatRepository) ListByHall(ctx context.Context, hallID int64) ([]*hall.Seat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*hall.Seat, 0)
	for _, seat := range r.s.seats {
		if seat.HallID == hallID {
			c := *seat
			out = append(out, &c)
		}
	}
	// 採番順 = 生成順（列・番号順）
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SeatRepository) DeleteByHall(ctx context.Context, _ transaction.Tx, hallID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, seat := range r.s.seats {
		if seat.HallID == hallID {
			delete(r.s.seats, id)
		}
	}
	return nil
}
