package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sanosuguru/go-event-booking-system/internal/config"
)

// NewConnection はPostgreSQLへの接続を作成する
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
	}

	// 接続プール設定
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Ping はデータベース接続を確認する
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// Store は PostgreSQL 実装のリポジトリ一式
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB                   { return s.db }
func (s *Store) Halls() *HallRepository         { return NewHallRepository(s.db) }
func (s *Store) Seats() *SeatRepository         { return NewSeatRepository(s.db) }
func (s *Store) Events() *EventRepository       { return NewEventRepository(s.db) }
func (s *Store) Customers() *CustomerRepository { return NewCustomerRepository(s.db) }
func (s *Store) Bookings() *BookingRepository   { return NewBookingRepository(s.db) }
func (s *Store) TxManager() *TxManager          { return NewTxManager(s.db) }

// Truncate は全テーブルを空にする（テスト用）
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE bookings, customers, events, seats, halls RESTART IDENTITY CASCADE`)
	return err
}
