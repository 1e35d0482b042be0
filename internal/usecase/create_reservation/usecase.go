package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
	"github.com/flexbook/FlexBook-BookingService/internal/integrations/qrserver"
)

// UseCase use case создания бронирования.
//
// Проверка конфликтов оптимистичная: между проверкой и записью остаётся
// окно гонки, в котором параллельная запись другого клиента может создать
// пересечение. Это принятое ограничение дизайна - явную защиту даёт
// только серверный exclusion constraint, которого здесь нет; уведомление
// об изменении бронирований запускает повторную проверку постфактум.
type UseCase struct {
	reservationRepo ReservationRepository
	roomRepo        RoomRepository
	tokenRepo       TokenRepository
	notifier        Notifier
	reminders       ReminderScheduler
	timeProvider    TimeProvider
	results         ResultRecorder
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	roomRepo RoomRepository,
	tokenRepo TokenRepository,
	notifier Notifier,
	reminders ReminderScheduler,
	results ResultRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		tokenRepo:       tokenRepo,
		notifier:        notifier,
		reminders:       reminders,
		timeProvider:    &RealTimeProvider{},
		results:         results,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, room=%d, interval=[%s, %s)",
		req.UserID, req.RoomID, req.StartAt.Format("2006-01-02 15:04"), req.EndAt.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных - до любого сетевого вызова
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	if err := validateNotPast(req.EndAt, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование комнаты
	if _, err := uc.roomRepo.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateReservation: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateReservation: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Авторитативная проверка конфликтов перед записью
	overlapping, err := uc.reservationRepo.FindOverlapping(ctx, req.RoomID, req.StartAt, req.EndAt, nil)
	if err != nil {
		uc.logger.Error("CreateReservation: conflict check failed: %v", err)
		return nil, fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
	}

	if len(overlapping) > 0 {
		uc.logger.Warn("CreateReservation: %d conflict(s) for room=%d", len(overlapping), req.RoomID)
		uc.results.ReservationResult("conflict")
		return nil, newConflictError(overlapping)
	}

	// 4. Создаем бронирование со статусом confirmed
	created, err := uc.reservationRepo.Create(ctx, &domain.Reservation{
		RoomID:  req.RoomID,
		UserID:  req.UserID,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Status:  domain.StatusConfirmed,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
		return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: created reservation id=%d", created.ID)

	uc.results.ReservationResult("created")

	resp := &Response{
		ID:        created.ID,
		UserID:    created.UserID,
		RoomID:    created.RoomID,
		StartAt:   created.StartAt,
		EndAt:     created.EndAt,
		Status:    string(created.Status),
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}

	// 5. Выпускаем токен доступа. Бронирование уже создано: сбой токена
	// не откатывает его, а возвращается как деградированный успех.
	tokenText := uuid.NewString()
	_, err = uc.tokenRepo.Create(ctx, &domain.AccessToken{
		ReservationID: created.ID,
		Token:         tokenText,
		ValidTo:       created.EndAt,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: reservation id=%d created but token failed: %v", created.ID, err)
		resp.TokenFailed = true
		uc.results.ReservationResult("token_failed")
	} else {
		resp.Token = tokenText

		qrPayload, encErr := qrserver.Payload{ReservationID: created.ID, Token: tokenText}.Encode()
		if encErr != nil {
			uc.logger.Error("CreateReservation: failed to encode QR payload for id=%d: %v", created.ID, encErr)
		}
		resp.QRPayload = qrPayload
	}

	// 6. Уведомляем об изменении и планируем напоминание.
	// Best-effort: сбой уведомления не отменяет бронирование.
	uc.publishChange(ctx, created)
	uc.reminders.Schedule(created)

	return resp, nil
}

func (uc *UseCase) publishChange(ctx context.Context, res *domain.Reservation) {
	event := notify.Event{RoomID: res.RoomID, UserID: res.UserID}
	if err := uc.notifier.PublishReservationChange(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish change event for id=%d: %v", res.ID, err)
	}
}

// newConflictError строит ConflictError из списка пересекающихся бронирований
func newConflictError(overlapping []*domain.Reservation) *ConflictError {
	conflicts := make([]ConflictingInterval, len(overlapping))
	for i, res := range overlapping {
		conflicts[i] = ConflictingInterval{
			ReservationID: res.ID,
			StartAt:       res.StartAt,
			EndAt:         res.EndAt,
		}
	}
	return &ConflictError{Conflicts: conflicts}
}
