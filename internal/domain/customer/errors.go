package customer

import "errors"

// Customer ドメインのエラー定義
var (
	ErrCustomerNotFound  = errors.New("顧客が見つかりません")
	ErrInvalidFirstName  = errors.New("名は2文字以上100文字以内である必要があります")
	ErrInvalidLastName   = errors.New("姓は2文字以上100文字以内である必要があります")
	ErrInvalidEmail      = errors.New("メールアドレスの形式が不正です")
	ErrInvalidPhone      = errors.New("電話番号の形式が不正です")
	ErrEmailAlreadyTaken = errors.New("このメールアドレスは既に登録されています")
)
