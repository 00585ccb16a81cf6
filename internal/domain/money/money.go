package money

import (
	"encoding/json"
	"fmt"
	"math"
)

// Amount は金額をセント単位の整数で表す
type Amount int64

// Zero は0円を表す
const Zero Amount = 0

// FromFloat は小数の金額をセント単位に変換する（セント境界で四捨五入）
func FromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// FromCents はセント単位の整数からAmountを作成する
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents はセント単位の値を返す
func (a Amount) Cents() int64 {
	return int64(a)
}

// Float は小数表現を返す（表示・JSON用）
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// MulRatio は a * num / den を計算し、セント単位で四捨五入する
func (a Amount) MulRatio(num, den int64) Amount {
	p := int64(a) * num
	if p >= 0 {
		return Amount((p + den/2) / den)
	}
	return Amount(-((-p + den/2) / den))
}

// String は "60.00" 形式の文字列を返す
func (a Amount) String() string {
	sign := ""
	c := int64(a)
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Sum は金額の合計を返す
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON は 60.00 のような小数2桁の数値として出力する
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON は小数の数値を読み込む
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("金額の形式が不正です: %w", err)
	}
	*a = FromFloat(v)
	return nil
}
