package customer

import "context"

// Repository は顧客リポジトリのインターフェース
type Repository interface {
	// Create は新しい顧客を作成する。メールアドレス重複時は ErrEmailAlreadyTaken
	Create(ctx context.Context, c *Customer) error

	// GetByID はIDから顧客を取得する
	GetByID(ctx context.Context, id int64) (*Customer, error)

	// GetByEmail はメールアドレスから顧客を取得する
	GetByEmail(ctx context.Context, email string) (*Customer, error)

	// List は顧客一覧を登録順で取得する
	List(ctx context.Context) ([]*Customer, error)

	// Update は顧客を更新する
	Update(ctx context.Context, c *Customer) error

	// Delete は顧客を削除する
	Delete(ctx context.Context, id int64) error
}
