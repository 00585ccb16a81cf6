// Package pricing は座席の価格計算を行う
package pricing

import (
	"strings"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

// 前方列の割増率 (12/10 = 1.2)
const (
	surchargeNum = 12
	surchargeDen = 10
)

// SurchargeApplies は列名に '1', '2', '3' のいずれかが含まれるかを返す。
// 部分一致のため "Reihe 12" や "Reihe 21" も対象になる
func SurchargeApplies(row string) bool {
	return strings.ContainsAny(row, "123")
}

// Price はイベントの基本価格と座席の列から価格を算出する。
// 結果はセント単位で四捨五入される
func Price(ev *event.Event, seat *hall.Seat) money.Amount {
	if SurchargeApplies(seat.Row) {
		return ev.BasePrice.MulRatio(surchargeNum, surchargeDen)
	}
	return ev.BasePrice
}
