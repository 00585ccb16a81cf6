package hall

import (
	"context"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

// Repository はホールリポジトリのインターフェース
type Repository interface {
	// Create は新しいホールを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, h *Hall) error

	// GetByID はIDからホールを取得する（座席は含まない）
	GetByID(ctx context.Context, id int64) (*Hall, error)

	// List はホール一覧を名前順で取得する
	List(ctx context.Context) ([]*Hall, error)

	// Update はホールを更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, h *Hall) error

	// Delete はホールを削除する（座席も削除される）
	Delete(ctx context.Context, id int64) error
}

// SeatRepository は座席リポジトリのインターフェース
type SeatRepository interface {
	// CreateBulk は複数の座席を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, id int64) (*Seat, error)

	// ListByHall はホールの座席一覧を列・番号順で取得する
	ListByHall(ctx context.Context, hallID int64) ([]*Seat, error)

	// DeleteByHall はホールの座席をすべて削除する（トランザクション必須）
	DeleteByHall(ctx context.Context, tx transaction.Tx, hallID int64) error
}
