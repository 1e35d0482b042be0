package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	reservationRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/reservation"
	"github.com/flexbook/FlexBook-BookingService/pkg/ptr"
)

// UseCase use case изменения интервала бронирования (путь редактирования).
// При сбое записи операция просто прерывается: прежний интервал остаётся
// нетронутым, вызывающему возвращается ошибка. Автоповторов нет.
type UseCase struct {
	reservationRepo ReservationRepository
	notifier        Notifier
	reminders       ReminderScheduler
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	notifier Notifier,
	reminders ReminderScheduler,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		notifier:        notifier,
		reminders:       reminders,
		logger:          logger,
	}
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: id=%d, user=%d, interval=[%s, %s)",
		req.ReservationID, req.UserID, req.StartAt.Format("2006-01-02 15:04"), req.EndAt.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем существующее бронирование
	existing, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Редактировать может только владелец
	if existing.UserID != req.UserID {
		uc.logger.Warn("UpdateReservation: access denied for user=%d to reservation id=%d", req.UserID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	// 4. Терминальные статусы не редактируются
	if !existing.CanBeUpdated() {
		uc.logger.Warn("UpdateReservation: reservation id=%d has status=%s", req.ReservationID, existing.Status)
		return nil, ErrCannotUpdate
	}

	// 5. Проверка конфликтов с исключением собственного ID
	overlapping, err := uc.reservationRepo.FindOverlapping(ctx, existing.RoomID, req.StartAt, req.EndAt, ptr.Ptr(existing.ID))
	if err != nil {
		uc.logger.Error("UpdateReservation: conflict check failed: %v", err)
		return nil, fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
	}

	if len(overlapping) > 0 {
		uc.logger.Warn("UpdateReservation: %d conflict(s) for reservation id=%d", len(overlapping), req.ReservationID)
		conflicts := make([]ConflictingInterval, len(overlapping))
		for i, res := range overlapping {
			conflicts[i] = ConflictingInterval{
				ReservationID: res.ID,
				StartAt:       res.StartAt,
				EndAt:         res.EndAt,
			}
		}
		return nil, &ConflictError{Conflicts: conflicts}
	}

	// 6. Обновляем интервал
	updated, err := uc.reservationRepo.UpdateInterval(ctx, existing.ID, req.StartAt, req.EndAt)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d", updated.ID)

	// 7. Уведомляем и перепланируем напоминание на новое начало
	event := notify.Event{RoomID: updated.RoomID, UserID: updated.UserID}
	if err := uc.notifier.PublishReservationChange(ctx, event); err != nil {
		uc.logger.Warn("UpdateReservation: failed to publish change event for id=%d: %v", updated.ID, err)
	}
	uc.reminders.Schedule(updated)

	return &Response{
		ID:        updated.ID,
		UserID:    updated.UserID,
		RoomID:    updated.RoomID,
		StartAt:   updated.StartAt,
		EndAt:     updated.EndAt,
		Status:    string(updated.Status),
		CreatedAt: updated.CreatedAt,
		UpdatedAt: updated.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}

	if !req.StartAt.Before(req.EndAt) {
		return ErrEndBeforeStart
	}

	return nil
}
