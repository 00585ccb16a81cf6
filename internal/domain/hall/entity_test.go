package hall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHall(t *testing.T) {
	h := NewHall("  Großer Saal ", 100)

	assert.Equal(t, "Großer Saal", h.Name)
	assert.Equal(t, 100, h.Capacity)
	assert.Empty(t, h.Seats)
	assert.NotZero(t, h.CreatedAt)
}

func TestHall_GenerateSeats(t *testing.T) {
	t.Run("列×座席数の座席を生成し収容人数を更新する", func(t *testing.T) {
		h := NewHall("Testsaal", 1)
		h.ID = 7

		err := h.GenerateSeats(3, 4)

		require.NoError(t, err)
		assert.Equal(t, 12, h.Capacity)
		require.Len(t, h.Seats, 12)
		assert.Equal(t, "Reihe 1", h.Seats[0].Row)
		assert.Equal(t, 1, h.Seats[0].Number)
		assert.Equal(t, "Reihe 3", h.Seats[11].Row)
		assert.Equal(t, 4, h.Seats[11].Number)
		for _, s := range h.Seats {
			assert.Equal(t, int64(7), s.HallID)
		}
		require.NoError(t, h.Validate())
	})

	t.Run("再生成すると座席が置き換わる", func(t *testing.T) {
		h := NewHall("Testsaal", 1)
		require.NoError(t, h.GenerateSeats(5, 5))
		require.NoError(t, h.GenerateSeats(1, 2))

		assert.Equal(t, 2, h.Capacity)
		assert.Len(t, h.Seats, 2)
	})

	tests := []struct {
		name        string
		rows        int
		seatsPerRow int
		expectedErr error
	}{
		{"列数が0", 0, 10, ErrInvalidRows},
		{"列数が上限超過", 51, 10, ErrInvalidRows},
		{"座席数が0", 3, 0, ErrInvalidSeatsPerRow},
		{"座席数が上限超過", 3, 51, ErrInvalidSeatsPerRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHall("Testsaal", 1)
			err := h.GenerateSeats(tt.rows, tt.seatsPerRow)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Empty(t, h.Seats)
		})
	}
}

func TestHall_GenerateSeatsWithRows(t *testing.T) {
	h := NewHall("VIP Saal", 1)

	err := h.GenerateSeatsWithRows([]string{"A", "B"}, 3)

	require.NoError(t, err)
	assert.Equal(t, 6, h.Capacity)
	assert.Equal(t, "Reihe A", h.Seats[0].Row)
	assert.Equal(t, "Reihe B", h.Seats[5].Row)

	err = h.GenerateSeatsWithRows([]string{"A", " "}, 3)
	assert.ErrorIs(t, err, ErrRowRequired)

	err = h.GenerateSeatsWithRows(nil, 3)
	assert.ErrorIs(t, err, ErrInvalidRows)
}

func TestHall_Validate(t *testing.T) {
	tests := []struct {
		name        string
		hall        *Hall
		expectedErr error
	}{
		{"有効なホール", &Hall{Name: "Saal 1", Capacity: 100}, nil},
		{"名前が短い", &Hall{Name: "S", Capacity: 100}, ErrNameRequired},
		{"収容人数が0", &Hall{Name: "Saal 1", Capacity: 0}, ErrInvalidCapacity},
		{"収容人数が上限超過", &Hall{Name: "Saal 1", Capacity: 1001}, ErrInvalidCapacity},
		{
			"座席数と収容人数が不一致",
			&Hall{Name: "Saal 1", Capacity: 3, Seats: []*Seat{{Row: "Reihe 1", Number: 1}}},
			ErrCapacityMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hall.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSeat_Label(t *testing.T) {
	s := NewSeat(1, "Reihe A", 5)
	assert.Equal(t, "Reihe A Platz 5", s.Label())
}

func TestSeat_Validate(t *testing.T) {
	assert.NoError(t, (&Seat{Row: "Reihe 1", Number: 1}).Validate())
	assert.ErrorIs(t, (&Seat{Row: "", Number: 1}).Validate(), ErrRowRequired)
	assert.ErrorIs(t, (&Seat{Row: "Reihe 1", Number: 0}).Validate(), ErrInvalidSeatNumber)
}

func TestHall_HasSeat(t *testing.T) {
	h := &Hall{ID: 1}
	assert.True(t, h.HasSeat(&Seat{HallID: 1}))
	assert.False(t, h.HasSeat(&Seat{HallID: 2}))
	assert.False(t, h.HasSeat(nil))
}
