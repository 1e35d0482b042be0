package get_day_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
)

// UseCase use case построения сетки слотов комнаты на день.
// Проекция занятости всегда пересчитывается с нуля по свежей полной
// выборке, без инкрементальных патчей: побеждает последняя завершённая
// выборка независимо от порядка запуска.
type UseCase struct {
	reservationRepo ReservationRepository
	roomRepo        RoomRepository
	loc             *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	roomRepo RoomRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		loc:             loc,
		logger:          logger,
	}
}

// Execute выполняет use case получения расписания на день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDaySchedule: room=%d, date=%s", req.RoomID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDaySchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование комнаты
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("GetDaySchedule: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("GetDaySchedule: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Строим сетку слотов операционного окна
	grid := domain.BuildDayGrid(req.Date, uc.loc)

	// 4. Получаем подтверждённые бронирования, пересекающие день
	dayStart, dayEnd := domain.DayBounds(req.Date, uc.loc)
	reservations, err := uc.reservationRepo.FindOverlapping(ctx, req.RoomID, dayStart, dayEnd, nil)
	if err != nil {
		uc.logger.Error("GetDaySchedule: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 5. Проецируем занятость на сетку
	occupied := domain.ProjectOccupancy(grid, reservations)

	slots := make([]Slot, len(grid))
	for i, s := range grid {
		slots[i] = Slot{
			Index:    s.Index,
			Label:    s.Label,
			StartAt:  s.Start,
			EndAt:    s.End,
			Occupied: occupied[s.Index],
		}
	}

	uc.logger.Info("GetDaySchedule: room=%d, date=%s, %d slots, %d occupied",
		req.RoomID, req.Date.Format(domain.DateFormat), len(slots), len(occupied))

	return &Response{
		RoomID:   room.ID,
		RoomName: room.Name,
		Date:     req.Date,
		Slots:    slots,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
