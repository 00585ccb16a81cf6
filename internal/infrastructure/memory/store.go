// Package memory はリポジトリのインメモリ実装を提供する。
// PostgreSQL と同じ一意性制約（有効な予約はイベント・座席ごとに1件）をミューテックスで保証する
package memory

import (
	"context"
	"sync"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

// Store はすべての集約を保持する
type Store struct {
	mu sync.RWMutex

	seq map[string]int64

	halls     map[int64]*hall.Hall
	seats     map[int64]*hall.Seat
	events    map[int64]*event.Event
	customers map[int64]*customer.Customer
	bookings  map[int64]*booking.Booking
}

// NewStore は空のストアを作成する
func NewStore() *Store {
	return &Store{
		seq:       make(map[string]int64),
		halls:     make(map[int64]*hall.Hall),
		seats:     make(map[int64]*hall.Seat),
		events:    make(map[int64]*event.Event),
		customers: make(map[int64]*customer.Customer),
		bookings:  make(map[int64]*booking.Booking),
	}
}

// 呼び出し側で mu をロックしていること
func (s *Store) nextID(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

// Halls はホールリポジトリを返す
func (s *Store) Halls() *HallRepository { return &HallRepository{s: s} }

// Seats は座席リポジトリを返す
func (s *Store) Seats() *SeatRepository { return &SeatRepository{s: s} }

// Events はイベントリポジトリを返す
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }

// Customers は顧客リポジトリを返す
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }

// Bookings は予約リポジトリを返す
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// TxManager はトランザクションマネージャーを返す
func (s *Store) TxManager() *TxManager { return &TxManager{} }

// noopTx は何もしないトランザクション。各操作はロック内で即時に反映される
type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

// TxManager はインメモリ用のトランザクションマネージャー
type TxManager struct{}

// Begin は新しいトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return noopTx{}, nil
}

var (
	_ hall.Repository     = (*HallRepository)(nil)
	_ hall.SeatRepository = (*SeatRepository)(nil)
	_ event.Repository    = (*EventRepository)(nil)
	_ customer.Repository = (*CustomerRepository)(nil)
	_ booking.Repository  = (*BookingRepository)(nil)
	_ transaction.Manager = (*TxManager)(nil)
)
