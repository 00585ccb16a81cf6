// Package notification は予約の状態変更をオブザーバーへ配信する
package notification

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
)

// FailureCounter は失敗したオブザーバー呼び出しを数える
type FailureCounter interface {
	Inc()
}

type registration struct {
	id  uint64
	obs booking.ObserverFunc
}

// Hub は状態変更オブザーバーのレジストリ。
// 配信は呼び出し元のゴルーチンで同期的に、グローバルと予約別を合わせた登録順で行う
type Hub struct {
	mu         sync.RWMutex
	nextID     uint64
	global     []registration
	perBooking map[int64][]registration

	logger   *zap.Logger
	failures FailureCounter
}

// NewHub は Hub を作成する。failures は nil でもよい
func NewHub(logger *zap.Logger, failures FailureCounter) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		perBooking: make(map[int64][]registration),
		logger:     logger,
		failures:   failures,
	}
}

// Subscribe はすべての予約の状態変更を受け取るオブザーバーを登録する
func (h *Hub) Subscribe(obs booking.ObserverFunc) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.global = append(h.global, registration{id: id, obs: obs})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.global = removeRegistration(h.global, id)
	}
}

// SubscribeBooking は特定の予約だけを対象とするオブザーバーを登録する
func (h *Hub) SubscribeBooking(bookingID int64, obs booking.ObserverFunc) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.perBooking[bookingID] = append(h.perBooking[bookingID], registration{id: id, obs: obs})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		regs := removeRegistration(h.perBooking[bookingID], id)
		if len(regs) == 0 {
			delete(h.perBooking, bookingID)
			return
		}
		h.perBooking[bookingID] = regs
	}
}

// Notify は登録済みのオブザーバーを順に呼び出す。
// オブザーバーのエラーやパニックは記録され、後続の配信と遷移は継続する
func (h *Hub) Notify(ctx context.Context, b *booking.Booking, old, new booking.Status) {
	for _, obs := range h.snapshot(b.ID) {
		if err := h.deliver(ctx, obs, b, old, new); err != nil {
			h.logger.Warn("状態変更オブザーバーが失敗しました",
				zap.Int64("booking_id", b.ID),
				zap.String("from", string(old)),
				zap.String("to", string(new)),
				zap.Error(err),
			)
			if h.failures != nil {
				h.failures.Inc()
			}
		}
	}
}

// Len は登録済みオブザーバーの数を返す
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.global)
	for _, regs := range h.perBooking {
		n += len(regs)
	}
	return n
}

// snapshot は対象のオブザーバーを登録順で返す。
// global と perBooking はそれぞれ id 昇順なのでマージするだけでよい
func (h *Hub) snapshot(bookingID int64) []booking.ObserverFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	global := h.global
	var own []registration
	// ID 未採番の予約は予約別オブザーバーの対象外
	if bookingID != 0 {
		own = h.perBooking[bookingID]
	}
	out := make([]booking.ObserverFunc, 0, len(global)+len(own))
	for len(global) > 0 || len(own) > 0 {
		if len(own) == 0 || (len(global) > 0 && global[0].id < own[0].id) {
			out = append(out, global[0].obs)
			global = global[1:]
			continue
		}
		out = append(out, own[0].obs)
		own = own[1:]
	}
	return out
}

func (h *Hub) deliver(ctx context.Context, obs booking.ObserverFunc, b *booking.Booking, old, new booking.Status) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("オブザーバーでパニック: %v", r)
		}
	}()
	return obs(ctx, b, old, new)
}

func removeRegistration(regs []registration, id uint64) []registration {
	for i, r := range regs {
		if r.id == id {
			out := make([]registration, 0, len(regs)-1)
			out = append(out, regs[:i]...)
			return append(out, regs[i+1:]...)
		}
	}
	return regs
}
