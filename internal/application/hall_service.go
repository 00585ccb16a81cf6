package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/event"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/hall"
	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

type HallService struct {
	txManager transaction.Manager
	hallRepo  hall.Repository
	seatRepo  hall.SeatRepository
	eventRepo event.Repository
}

func NewHallService(tm transaction.Manager, hr hall.Repository, sr hall.SeatRepository, er event.Repository) *HallService {
	return &HallService{txManager: tm, hallRepo: hr, seatRepo: sr, eventRepo: er}
}

// CreateHallInput は RowNames が空なら Rows 列を "Reihe 1".. で生成する
type CreateHallInput struct {
	Name        string
	Rows        int
	SeatsPerRow int
	RowNames    []string
}

func generate(h *hall.Hall, rows, seatsPerRow int, rowNames []string) error {
	if len(rowNames) > 0 {
		return h.GenerateSeatsWithRows(rowNames, seatsPerRow)
	}
	return h.GenerateSeats(rows, seatsPerRow)
}

// CreateHall はホールと座席を1トランザクションで作成する
func (s *HallService) CreateHall(ctx context.Context, input CreateHallInput) (*hall.Hall, error) {
	h := hall.NewHall(input.Name, 0)
	if err := generate(h, input.Rows, input.SeatsPerRow, input.RowNames); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.hallRepo.Create(ctx, tx, h); err != nil {
			return err
		}
		for _, seat := range h.Seats {
			seat.HallID = h.ID
		}
		return s.seatRepo.CreateBulk(ctx, tx, h.Seats)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetHall は座席を含むホールを取得する
func (s *HallService) GetHall(ctx context.Context, id int64) (*hall.Hall, error) {
	h, err := s.hallRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	seats, err := s.seatRepo.ListByHall(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	h.Seats = seats
	return h, nil
}

func (s *HallService) ListHalls(ctx context.Context) ([]*hall.Hall, error) {
	return s.hallRepo.List(ctx)
}

func (s *HallService) ListSeats(ctx context.Context, hallID int64) ([]*hall.Seat, error) {
	if _, err := s.hallRepo.GetByID(ctx, hallID); err != nil {
		return nil, err
	}
	return s.seatRepo.ListByHall(ctx, hallID)
}

type RegenerateSeatsInput struct {
	HallID      int64
	Rows        int
	SeatsPerRow int
	RowNames    []string
}

// RegenerateSeats は座席を作り直し、収容人数を更新する。
// イベントが登録されているホールは対象外
func (s *HallService) RegenerateSeats(ctx context.Context, input RegenerateSeatsInput) (*hall.Hall, error) {
	h, err := s.hallRepo.GetByID(ctx, input.HallID)
	if err != nil {
		return nil, err
	}
	inUse, err := s.hallInUse(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, hall.ErrHallInUse
	}
	if err := generate(h, input.Rows, input.SeatsPerRow, input.RowNames); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.seatRepo.DeleteByHall(ctx, tx, h.ID); err != nil {
			return err
		}
		if err := s.seatRepo.CreateBulk(ctx, tx, h.Seats); err != nil {
			return err
		}
		return s.hallRepo.Update(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HallService) DeleteHall(ctx context.Context, id int64) error {
	return s.hallRepo.Delete(ctx, id)
}

func (s *HallService) hallInUse(ctx context.Context, hallID int64) (bool, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	for _, e := range events {
		if e.HallID == hallID {
			return true, nil
		}
	}
	return false, nil
}
