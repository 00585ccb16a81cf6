package hall

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxRows は1ホールあたりの最大列数
	MaxRows = 50
	// MaxSeatsPerRow は1列あたりの最大座席数
	MaxSeatsPerRow = 50
	// MaxCapacity はホールの最大収容人数
	MaxCapacity = 1000

	rowLabelPrefix = "Reihe "
)

// Hall は会場（ホール）エンティティを表す
type Hall struct {
	ID        int64
	Name      string
	Capacity  int
	Seats     []*Seat
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Seat は座席エンティティを表す。ホール内で (Row, Number) は一意
type Seat struct {
	ID     int64
	HallID int64
	Row    string
	Number int
}

// NewHall は新しいホールを作成する
func NewHall(name string, capacity int) *Hall {
	now := time.Now()
	return &Hall{
		Name:      strings.TrimSpace(name),
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSeat は新しい座席を作成する
func NewSeat(hallID int64, row string, number int) *Seat {
	return &Seat{HallID: hallID, Row: row, Number: number}
}

// Label は "Reihe 1 Platz 5" 形式の座席表記を返す
func (s *Seat) Label() string {
	return fmt.Sprintf("%s Platz %d", s.Row, s.Number)
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if strings.TrimSpace(s.Row) == "" {
		return ErrRowRequired
	}
	if s.Number <= 0 {
		return ErrInvalidSeatNumber
	}
	return nil
}

// GenerateSeats は rows 列 × seatsPerRow 席の座席を生成し、収容人数を更新する。
// 列名は "Reihe 1", "Reihe 2", ... となる
func (h *Hall) GenerateSeats(rows, seatsPerRow int) error {
	if rows <= 0 || rows > MaxRows {
		return ErrInvalidRows
	}
	labels := make([]string, rows)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i+1)
	}
	return h.GenerateSeatsWithRows(labels, seatsPerRow)
}

// GenerateSeatsWithRows は任意の列名で座席を生成する（既存の座席は置き換える）
func (h *Hall) GenerateSeatsWithRows(rowNames []string, seatsPerRow int) error {
	if len(rowNames) == 0 || len(rowNames) > MaxRows {
		return ErrInvalidRows
	}
	if seatsPerRow <= 0 || seatsPerRow > MaxSeatsPerRow {
		return ErrInvalidSeatsPerRow
	}
	seats := make([]*Seat, 0, len(rowNames)*seatsPerRow)
	for _, name := range rowNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrRowRequired
		}
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, NewSeat(h.ID, rowLabelPrefix+name, n))
		}
	}
	h.Seats = seats
	h.Capacity = len(seats)
	h.UpdatedAt = time.Now()
	return nil
}

// HasSeat は座席がこのホールに属するかを返す
func (h *Hall) HasSeat(s *Seat) bool {
	return s != nil && s.HallID == h.ID
}

// Validate はホールの検証を行う
func (h *Hall) Validate() error {
	if len(h.Name) < 2 {
		return ErrNameRequired
	}
	if len(h.Name) > 100 {
		return ErrNameTooLong
	}
	if h.Capacity < 1 || h.Capacity > MaxCapacity {
		return ErrInvalidCapacity
	}
	if len(h.Seats) > 0 && len(h.Seats) != h.Capacity {
		return ErrCapacityMismatch
	}
	return nil
}
