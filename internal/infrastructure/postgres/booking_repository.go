package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

const bookingColumns = `id, customer_id, event_id, seat_id, status, price_cents, created_at, updated_at`

type bookingRow struct {
	ID         int64     `db:"id"`
	CustomerID int64     `db:"customer_id"`
	EventID    int64     `db:"event_id"`
	SeatID     int64     `db:"seat_id"`
	Status     string    `db:"status"`
	Price      int64     `db:"price_cents"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return booking.Restore(booking.Snapshot{
		ID: r.ID, CustomerID: r.CustomerID, EventID: r.EventID, SeatID: r.SeatID,
		Status: booking.Status(r.Status), Price: money.FromCents(r.Price),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	})
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository { return &BookingRepository{db: db} }

// Create は予約を作成する。
// uq_bookings_active_seat（status <> 'CANCELLED' の部分一意インデックス）違反は ErrSeatUnavailable
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `INSERT INTO bookings (customer_id, event_id, seat_id, status, price_cents, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, b.CustomerID, b.EventID, b.SeatID, string(b.Status()), b.Price.Cents(), b.CreatedAt, b.UpdatedAt).Scan(&b.ID); err != nil {
		if isUniqueViolation(err) {
			return booking.ErrSeatUnavailable
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*booking.Booking, error) {
	return r.selectBookings(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
}

func (r *BookingRepository) ListByEvent(ctx context.Context, eventID int64) ([]*booking.Booking, error) {
	return r.selectBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE event_id = $1 ORDER BY id`, eventID)
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*booking.Booking, error) {
	return r.selectBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY id`, customerID)
}

func (r *BookingRepository) selectBookings(ctx context.Context, query string, args ...interface{}) ([]*booking.Booking, error) {
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	bookings := make([]*booking.Booking, len(rows))
	for i := range rows {
		bookings[i] = rows[i].toEntity()
	}
	return bookings, nil
}

func (r *BookingRepository) IsSeatBooked(ctx context.Context, eventID, seatID int64) (bool, error) {
	var booked bool
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE event_id = $1 AND seat_id = $2 AND status <> 'CANCELLED')`
	if err := r.db.GetContext(ctx, &booked, query, eventID, seatID); err != nil {
		return false, fmt.Errorf("座席の予約状況取得に失敗: %w", err)
	}
	return booked, nil
}

// CountActiveByEvent はイベントの有効予約数を返す
func (r *BookingRepository) CountActiveByEvent(ctx context.Context, eventID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status <> 'CANCELLED'`
	if err := r.db.GetContext(ctx, &n, query, eventID); err != nil {
		return 0, fmt.Errorf("有効予約数の取得に失敗: %w", err)
	}
	return n, nil
}

// UpdateStatus は保存済みの状態が expected の行だけを更新する。
// 0 件なら予約の有無で ErrBookingNotFound と ErrStatusChanged を区別する
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, string(b.Status()), b.UpdatedAt, b.ID, string(expected))
	if err != nil {
		if isUniqueViolation(err) {
			return booking.ErrSeatUnavailable
		}
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("予約更新件数の取得に失敗: %w", err)
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, b.ID); err != nil {
		return fmt.Errorf("予約取得に失敗: %w", err)
	}
	if !exists {
		return booking.ErrBookingNotFound
	}
	return booking.ErrStatusChanged
}
