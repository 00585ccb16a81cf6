package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound     = errors.New("イベントが見つかりません")
	ErrEventNameRequired = errors.New("イベント名は2文字以上である必要があります")
	ErrEventNameTooLong  = errors.New("イベント名は100文字以内である必要があります")
	ErrStartsAtRequired  = errors.New("開始日時は必須です")
	ErrEventInPast       = errors.New("開始日時は未来である必要があります")
	ErrInvalidBasePrice  = errors.New("基本価格は0以上10000以下である必要があります")
	ErrHallRequired      = errors.New("ホールは必須です")
	ErrEventHasBookings  = errors.New("有効な予約があるイベントのホールは変更できません")
)
