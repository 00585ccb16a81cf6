// Package report は予約データのスナップショットから統計を集計する。
// すべての関数は入力を変更しない
package report

import (
	"math"
	"sort"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/booking"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
)

// Snapshot は集計対象のデータ一式
type Snapshot struct {
	Bookings  []*booking.Booking
	Events    []*event.Event
	Halls     []*hall.Hall
	Customers []*customer.Customer
	Now       time.Time
}

// CountMode はイベントの予約数の数え方
type CountMode int

const (
	// CountAll はキャンセル済みを含むすべての予約を数える
	CountAll CountMode = iota
	// CountActive はキャンセル以外の予約だけを数える
	CountActive
)

// StatusCount は状態ごとの件数
type StatusCount struct {
	Status booking.Status `json:"status"`
	Count  int            `json:"count"`
}

// EventRevenue はイベントごとの売上
type EventRevenue struct {
	Event   *event.Event `json:"-"`
	EventID int64        `json:"event_id"`
	Name    string       `json:"name"`
	Revenue money.Amount `json:"revenue"`
}

// CustomerRank は顧客の有効予約数
type CustomerRank struct {
	Customer *customer.Customer `json:"-"`
	ID       int64              `json:"customer_id"`
	Name     string             `json:"name"`
	Bookings int                `json:"bookings"`
}

// EventRank はイベントの予約数
type EventRank struct {
	Event    *event.Event `json:"-"`
	ID       int64        `json:"event_id"`
	Name     string       `json:"name"`
	Bookings int          `json:"bookings"`
}

// Occupancy はイベントの稼働率
type Occupancy struct {
	Event     *event.Event `json:"-"`
	EventID   int64        `json:"event_id"`
	Name      string       `json:"name"`
	Capacity  int          `json:"capacity"`
	Booked    int          `json:"booked"`
	Available int          `json:"available"`
	Rate      float64      `json:"rate"`
}

// Overview は全体概要
type Overview struct {
	TotalRevenue   money.Amount `json:"total_revenue"`
	ActiveBookings int          `json:"active_bookings"`
	TotalBookings  int          `json:"total_bookings"`
	Customers      int          `json:"customers"`
	Events         int          `json:"events"`
	UpcomingEvents int          `json:"upcoming_events"`
	TopEvents      []EventRank  `json:"top_events"`
}

// TotalRevenue は確定済み予約の価格合計を返す
func TotalRevenue(bookings []*booking.Booking) money.Amount {
	var total money.Amount
	for _, b := range bookings {
		if b.Status() == booking.StatusConfirmed {
			total += b.Price
		}
	}
	return total
}

// ActiveBookings はキャンセル以外の予約数を返す
func ActiveBookings(bookings []*booking.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.IsActive() {
			n++
		}
	}
	return n
}

// BookingsByStatus は状態ごとの件数を状態順で返す。件数0の状態は含まない
func BookingsByStatus(bookings []*booking.Booking) []StatusCount {
	counts := make(map[booking.Status]int)
	for _, b := range bookings {
		counts[b.Status()]++
	}
	out := make([]StatusCount, 0, len(counts))
	for _, st := range booking.AllStatuses() {
		if n := counts[st]; n > 0 {
			out = append(out, StatusCount{Status: st, Count: n})
		}
	}
	return out
}

// RevenueByEvent はイベントごとの確定売上をスナップショットの順で返す
func RevenueByEvent(s Snapshot) []EventRevenue {
	revenue := make(map[int64]money.Amount)
	for _, b := range s.Bookings {
		if b.Status() == booking.StatusConfirmed {
			revenue[b.EventID] += b.Price
		}
	}
	out := make([]EventRevenue, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, EventRevenue{Event: e, EventID: e.ID, Name: e.Name, Revenue: revenue[e.ID]})
	}
	return out
}

// TopCustomers は有効予約数の多い順に顧客を返す。同数はスナップショットの順
func TopCustomers(s Snapshot, limit int) []CustomerRank {
	if limit <= 0 {
		return []CustomerRank{}
	}
	counts := make(map[int64]int)
	for _, b := range s.Bookings {
		if b.IsActive() {
			counts[b.CustomerID]++
		}
	}
	out := make([]CustomerRank, 0, len(s.Customers))
	for _, c := range s.Customers {
		out = append(out, CustomerRank{Customer: c, ID: c.ID, Name: c.FullName(), Bookings: counts[c.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bookings > out[j].Bookings
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TopEvents は予約数の多い順にイベントを返す。同数はスナップショットの順
func TopEvents(s Snapshot, limit int, mode CountMode) []EventRank {
	if limit <= 0 {
		return []EventRank{}
	}
	counts := make(map[int64]int)
	for _, b := range s.Bookings {
		if mode == CountActive && !b.IsActive() {
			continue
		}
		counts[b.EventID]++
	}
	out := make([]EventRank, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, EventRank{Event: e, ID: e.ID, Name: e.Name, Bookings: counts[e.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bookings > out[j].Bookings
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EventOccupancy はイベントごとの稼働率を返す。
// 収容人数0（またはホール不明）のイベントは稼働率0とする
func EventOccupancy(s Snapshot) []Occupancy {
	capacity := make(map[int64]int, len(s.Halls))
	for _, h := range s.Halls {
		capacity[h.ID] = h.Capacity
	}
	booked := make(map[int64]int)
	for _, b := range s.Bookings {
		if b.IsActive() {
			booked[b.EventID]++
		}
	}
	out := make([]Occupancy, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, occupancyOf(e, capacity[e.HallID], booked[e.ID]))
	}
	return out
}

func occupancyOf(e *event.Event, capacity, booked int) Occupancy {
	o := Occupancy{Event: e, EventID: e.ID, Name: e.Name, Capacity: capacity, Booked: booked}
	if capacity <= 0 {
		return o
	}
	o.Available = max(capacity-booked, 0)
	rate := float64(booked) / float64(capacity) * 100
	o.Rate = math.Min(math.Round(rate*10)/10, 100)
	return o
}

// UpcomingEvents は Now より後に開始するイベントを返す
func UpcomingEvents(s Snapshot) []*event.Event {
	return event.Upcoming(s.Events, s.Now)
}

// ActiveBookingsByCustomer は顧客ごとの有効予約数を返す
func ActiveBookingsByCustomer(bookings []*booking.Booking) map[int64]int {
	counts := make(map[int64]int)
	for _, b := range bookings {
		if b.IsActive() {
			counts[b.CustomerID]++
		}
	}
	return counts
}

// BuildOverview は全体概要を集計する。上位イベントは有効予約数で数える
func BuildOverview(s Snapshot) Overview {
	return Overview{
		TotalRevenue:   TotalRevenue(s.Bookings),
		ActiveBookings: ActiveBookings(s.Bookings),
		TotalBookings:  len(s.Bookings),
		Customers:      len(s.Customers),
		Events:         len(s.Events),
		UpcomingEvents: len(UpcomingEvents(s)),
		TopEvents:      TopEvents(s, 3, CountActive),
	}
}
