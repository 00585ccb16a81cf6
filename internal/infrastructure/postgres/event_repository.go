package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

const eventColumns = `id, name, description, starts_at, category, base_price_cents, hall_id, created_at, updated_at`

type eventRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	StartsAt    time.Time `db:"starts_at"`
	Category    string    `db:"category"`
	BasePrice   int64     `db:"base_price_cents"`
	HallID      int64     `db:"hall_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID: r.ID, Name: r.Name, Description: r.Description,
		StartsAt: r.StartsAt, Category: r.Category,
		BasePrice: money.FromCents(r.BasePrice), HallID: r.HallID,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type EventRepository struct{ db *sqlx.DB }

func NewEventRepository(db *sqlx.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `INSERT INTO events (name, description, starts_at, category, base_price_cents, hall_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, e.Name, e.Description, e.StartsAt, e.Category, e.BasePrice.Cents(), e.HallID, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return hall.ErrHallNotFound
		}
		return fmt.Errorf("イベント作成に失敗: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	var row eventRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at, id`)
}

func (r *EventRepository) ListByCategory(ctx context.Context, category string) ([]*event.Event, error) {
	return r.selectEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE category = $1 ORDER BY starts_at, id`, category)
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args ...interface{}) ([]*event.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `UPDATE events SET name = $1, description = $2, starts_at = $3, category = $4, base_price_cents = $5, hall_id = $6, updated_at = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query, e.Name, e.Description, e.StartsAt, e.Category, e.BasePrice.Cents(), e.HallID, e.UpdatedAt, e.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return hall.ErrHallNotFound
		}
		return fmt.Errorf("イベント更新に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// Delete はイベントを削除する。予約は ON DELETE CASCADE で削除される
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}
