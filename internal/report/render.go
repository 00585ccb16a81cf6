package report

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Kind はレポートの種類
type Kind string

const (
	KindOverview         Kind = "overview"
	KindRevenueByEvent   Kind = "revenue_by_event"
	KindTopCustomers     Kind = "top_customers"
	KindBookingsByStatus Kind = "bookings_by_status"
	KindEventOccupancy   Kind = "event_occupancy"
)

// DefaultTopLimit は上位顧客レポートの既定件数
const DefaultTopLimit = 10

// ErrUnknownKind は未知のレポート種別
var ErrUnknownKind = errors.New("未知のレポート種別です")

var titles = map[Kind]string{
	KindOverview:         "Übersicht",
	KindRevenueByEvent:   "Umsatz nach Event",
	KindTopCustomers:     "Top Kunden",
	KindBookingsByStatus: "Buchungen nach Status",
	KindEventOccupancy:   "Event-Auslastung",
}

// Kinds はすべてのレポート種別を返す
func Kinds() []Kind {
	return []Kind{KindOverview, KindRevenueByEvent, KindTopCustomers, KindBookingsByStatus, KindEventOccupancy}
}

// ParseKind は文字列からレポート種別を解析する
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := titles[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Title はレポートの見出しを返す
func (k Kind) Title() string {
	return titles[k]
}

// Options はレポート生成のオプション
type Options struct {
	// TopLimit は上位顧客の件数。0以下なら DefaultTopLimit
	TopLimit int
}

// Generate はスナップショットからテキストレポートを生成する
func Generate(kind Kind, s Snapshot, opts Options) (string, error) {
	title, ok := titles[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", title)
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	switch kind {
	case KindOverview:
		o := BuildOverview(s)
		fmt.Fprintf(w, "Gesamtumsatz:\t%s\n", o.TotalRevenue)
		fmt.Fprintf(w, "Aktive Buchungen:\t%d\n", o.ActiveBookings)
		fmt.Fprintf(w, "Buchungen gesamt:\t%d\n", o.TotalBookings)
		fmt.Fprintf(w, "Kunden:\t%d\n", o.Customers)
		fmt.Fprintf(w, "Events:\t%d\n", o.Events)
		fmt.Fprintf(w, "Kommende Events:\t%d\n", o.UpcomingEvents)
		fmt.Fprintln(w, "Top Events:")
		for i, r := range o.TopEvents {
			fmt.Fprintf(w, "  %d. %s\t%d Buchungen\n", i+1, r.Name, r.Bookings)
		}
	case KindRevenueByEvent:
		for _, r := range RevenueByEvent(s) {
			fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Revenue)
		}
	case KindTopCustomers:
		limit := opts.TopLimit
		if limit <= 0 {
			limit = DefaultTopLimit
		}
		for i, r := range TopCustomers(s, limit) {
			fmt.Fprintf(w, "%d. %s\t%d Buchungen\n", i+1, r.Name, r.Bookings)
		}
	case KindBookingsByStatus:
		for _, c := range BookingsByStatus(s.Bookings) {
			fmt.Fprintf(w, "%s\t%d\n", c.Status.DisplayName(), c.Count)
		}
	case KindEventOccupancy:
		for _, o := range EventOccupancy(s) {
			fmt.Fprintf(w, "%s\t%d/%d\t%.1f%%\n", o.Name, o.Booked, o.Capacity, o.Rate)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("レポートの出力に失敗: %w", err)
	}
	return sb.String(), nil
}
