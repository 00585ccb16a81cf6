package booking

import "context"

// Notifier は状態遷移の通知先
type Notifier interface {
	Notify(ctx context.Context, b *Booking, old, new Status)
}

// ObserverFunc は状態変更を受け取るオブザーバー。
// エラーは通知側で記録され、遷移自体は取り消されない
type ObserverFunc func(ctx context.Context, b *Booking, old, new Status) error

// NotifierFunc は関数を Notifier として扱うためのアダプタ
type NotifierFunc func(ctx context.Context, b *Booking, old, new Status)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, b *Booking, old, new Status) {
	f(ctx, b, old, new)
}
