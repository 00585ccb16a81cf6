package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
)

const customerColumns = `id, first_name, last_name, email, phone, created_at, updated_at`

type customerRow struct {
	ID        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *customerRow) toEntity() *customer.Customer {
	return &customer.Customer{
		ID: r.ID, FirstName: r.FirstName, LastName: r.LastName,
		Email: r.Email, Phone: r.Phone,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type CustomerRepository struct{ db *sqlx.DB }

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `INSERT INTO customers (first_name, last_name, email, phone, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return customer.ErrEmailAlreadyTaken
		}
		return fmt.Errorf("顧客作成に失敗: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE lower(email) = $1`, customer.NormalizeEmail(email))
}

func (r *CustomerRepository) getOne(ctx context.Context, query string, arg interface{}) (*customer.Customer, error) {
	var row customerRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("顧客取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	var rows []customerRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+customerColumns+` FROM customers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("顧客一覧取得に失敗: %w", err)
	}
	customers := make([]*customer.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].toEntity()
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `UPDATE customers SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrEmailAlreadyTaken
		}
		return fmt.Errorf("顧客更新に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("顧客削除に失敗: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}
