package hall

import "errors"

// Hall ドメインのエラー定義
var (
	ErrHallNotFound       = errors.New("ホールが見つかりません")
	ErrSeatNotFound       = errors.New("座席が見つかりません")
	ErrSeatNotInHall      = errors.New("座席はイベントのホールに属していません")
	ErrNameRequired       = errors.New("ホール名は2文字以上である必要があります")
	ErrNameTooLong        = errors.New("ホール名は100文字以内である必要があります")
	ErrInvalidCapacity    = errors.New("収容人数は1以上1000以下である必要があります")
	ErrInvalidRows        = errors.New("列数は1以上50以下である必要があります")
	ErrInvalidSeatsPerRow = errors.New("1列あたりの座席数は1以上50以下である必要があります")
	ErrCapacityMismatch   = errors.New("収容人数と座席数が一致しません")
	ErrRowRequired        = errors.New("列名は必須です")
	ErrInvalidSeatNumber  = errors.New("座席番号は1以上である必要があります")
	ErrSeatAlreadyExists  = errors.New("同じ列・番号の座席が既に存在します")
	ErrHallInUse          = errors.New("イベントが登録されているホールは削除できません")
)
