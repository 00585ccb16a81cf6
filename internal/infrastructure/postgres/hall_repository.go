package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

type hallRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Capacity  int       `db:"capacity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *hallRow) toEntity() *hall.Hall {
	return &hall.Hall{ID: r.ID, Name: r.Name, Capacity: r.Capacity, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type HallRepository struct{ db *sqlx.DB }

func NewHallRepository(db *sqlx.DB) *HallRepository { return &HallRepository{db: db} }

func (r *HallRepository) Create(ctx context.Context, tx transaction.Tx, h *hall.Hall) error {
	query := `INSERT INTO halls (name, capacity, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := sqlx.GetContext(ctx, queryer(r.db, tx), &h.ID, query, h.Name, h.Capacity, h.CreatedAt, h.UpdatedAt); err != nil {
		return fmt.Errorf("ホール作成に失敗: %w", err)
	}
	return nil
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*hall.Hall, error) {
	var row hallRow
	query := `SELECT id, name, capacity, created_at, updated_at FROM halls WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hall.ErrHallNotFound
		}
		return nil, fmt.Errorf("ホール取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *HallRepository) List(ctx context.Context) ([]*hall.Hall, error) {
	var rows []hallRow
	query := `SELECT id, name, capacity, created_at, updated_at FROM halls ORDER BY name, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("ホール一覧取得に失敗: %w", err)
	}
	halls := make([]*hall.Hall, len(rows))
	for i := range rows {
		halls[i] = rows[i].toEntity()
	}
	return halls, nil
}

func (r *HallRepository) Update(ctx context.Context, tx transaction.Tx, h *hall.Hall) error {
	query := `UPDATE halls SET name = $1, capacity = $2, updated_at = $3 WHERE id = $4`
	result, err := queryer(r.db, tx).ExecContext(ctx, query, h.Name, h.Capacity, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("ホール更新に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return hall.ErrHallNotFound
	}
	return nil
}

// Delete はホールを削除する。座席は ON DELETE CASCADE で削除される
func (r *HallRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return hall.ErrHallInUse
		}
		return fmt.Errorf("ホール削除に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return hall.ErrHallNotFound
	}
	return nil
}

type seatRow struct {
	ID     int64  `db:"id"`
	HallID int64  `db:"hall_id"`
	Row    string `db:"row_label"`
	Number int    `db:"seat_number"`
}

func (r *seatRow) toEntity() *hall.Seat {
	return &hall.Seat{ID: r.ID, HallID: r.HallID, Row: r.Row, Number: r.Number}
}

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*hall.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 500
	for i := 0; i < len(seats); i += batchSize {
		end := min(i+batchSize, len(seats))
		if err := r.createBulkBatch(ctx, queryer(r.db, tx), seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でINSERTし、採番されたIDを座席に設定する
func (r *SeatRepository) createBulkBatch(ctx context.Context, q sqlx.ExtContext, seats []*hall.Seat) error {
	query := `INSERT INTO seats (hall_id, row_label, seat_number) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 3
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, s.HallID, s.Row, s.Number)
	}
	query += strings.Join(placeholders, ", ") + " RETURNING id"

	var ids []int64
	if err := sqlx.SelectContext(ctx, q, &ids, query, args...); err != nil {
		if isUniqueViolation(err) {
			return hall.ErrSeatAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return hall.ErrHallNotFound
		}
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	// RETURNING は VALUES の順で返る
	for i := range ids {
		seats[i].ID = ids[i]
	}
	return nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id int64) (*hall.Seat, error) {
	var row seatRow
	query := `SELECT id, hall_id, row_label, seat_number FROM seats WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hall.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) ListByHall(ctx context.Context, hallID int64) ([]*hall.Seat, error) {
	var rows []seatRow
	query := `SELECT id, hall_id, row_label, seat_number FROM seats WHERE hall_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query, hallID); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*hall.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) DeleteByHall(ctx context.Context, tx transaction.Tx, hallID int64) error {
	if _, err := queryer(r.db, tx).ExecContext(ctx, `DELETE FROM seats WHERE hall_id = $1`, hallID); err != nil {
		if isForeignKeyViolation(err) {
			return hall.ErrHallInUse
		}
		return fmt.Errorf("座席削除に失敗: %w", err)
	}
	return nil
}
