package booking

import "context"

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は予約を作成しIDを採番する。
	// 同じイベント・座席に有効な予約が既にある場合は ErrSeatUnavailable を返す
	Create(ctx context.Context, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// List は予約一覧をID順で取得する
	List(ctx context.Context) ([]*Booking, error)

	// ListByEvent はイベントの予約一覧を取得する
	ListByEvent(ctx context.Context, eventID int64) ([]*Booking, error)

	// ListByCustomer は顧客の予約一覧を取得する
	ListByCustomer(ctx context.Context, customerID int64) ([]*Booking, error)

	// IsSeatBooked はイベント・座席にキャンセル以外の予約があるかを返す
	IsSeatBooked(ctx context.Context, eventID, seatID int64) (bool, error)

	// UpdateStatus は保存済みの状態が expected のときだけ b の状態を書き込む。
	// 別の更新が先に反映されていれば ErrStatusChanged を返す
	UpdateStatus(ctx context.Context, b *Booking, expected Status) error
}
