package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/money"
	"github.com/sanosuguru/go-event-booking-system/internal/report"
)

type failingCustomers struct {
	customer.Repository
}

func (failingCustomers) List(ctx context.Context) ([]*customer.Customer, error) {
	return nil, errors.New("connection reset")
}

func TestReportService(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	h, ev, c := env.seed(t)

	b, err := env.bookings.CreateBooking(ctx, CreateBookingInput{CustomerID: c.ID, EventID: ev.ID, SeatID: seatInRow(t, h, "Reihe 1").ID})
	require.NoError(t, err)
	_, err = env.bookings.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)

	t.Run("スナップショット", func(t *testing.T) {
		snap, err := env.reports.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Bookings, 1)
		assert.Len(t, snap.Events, 1)
		assert.Len(t, snap.Halls, 1)
		assert.Len(t, snap.Customers, 1)
		assert.Equal(t, fixedNow, snap.Now)
	})

	t.Run("概要", func(t *testing.T) {
		ov, err := env.reports.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, money.FromFloat(60), ov.TotalRevenue)
		assert.Equal(t, 1, ov.UpcomingEvents)
	})

	t.Run("統計", func(t *testing.T) {
		stats, err := env.reports.Statistics(ctx)
		require.NoError(t, err)
		require.Len(t, stats.Occupancy, 1)
		assert.Equal(t, 20, stats.Occupancy[0].Capacity)
		assert.Equal(t, 19, stats.Occupancy[0].Available)
		assert.Equal(t, 5.0, stats.Occupancy[0].Rate)
		require.Len(t, stats.TopCustomers, 1)
		assert.Equal(t, c.ID, stats.TopCustomers[0].ID)
	})

	t.Run("テキストレポート", func(t *testing.T) {
		for _, k := range report.Kinds() {
			text, err := env.reports.Generate(ctx, string(k), 0)
			require.NoError(t, err, k)
			assert.Contains(t, text, k.Title())
		}
	})

	t.Run("未知の種別", func(t *testing.T) {
		_, err := env.reports.Generate(ctx, "unknown", 0)
		assert.ErrorIs(t, err, report.ErrUnknownKind)
	})

	t.Run("一部の取得に失敗したら全体が失敗", func(t *testing.T) {
		svc := NewReportService(env.store.Bookings(), env.store.Events(), env.store.Halls(), failingCustomers{}, 10, fixedClock)
		_, err := svc.Statistics(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "顧客取得に失敗")
	})
}
