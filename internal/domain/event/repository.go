package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成し、IDを採番する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id int64) (*Event, error)

	// List はイベント一覧を開始日時順で取得する
	List(ctx context.Context) ([]*Event, error)

	// ListByCategory はカテゴリでイベントを絞り込む
	ListByCategory(ctx context.Context, category string) ([]*Event, error)

	// Update はイベントを更新する
	Update(ctx context.Context, event *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id int64) error
}
