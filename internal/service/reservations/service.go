package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	reservationRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/reservation"
	tokenRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/token"
	"github.com/flexbook/FlexBook-BookingService/internal/integrations/qrserver"
	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo ReservationRepository
	tokenRepo       TokenRepository
	qrClient        QRClient
	notifier        Notifier
	reminders       ReminderScheduler
	clock           TimeProvider
	results         ResultRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	tokenRepo TokenRepository,
	qrClient QRClient,
	notifier Notifier,
	reminders ReminderScheduler,
	clock TimeProvider,
	results ResultRecorder,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		tokenRepo:       tokenRepo,
		qrClient:        qrClient,
		notifier:        notifier,
		reminders:       reminders,
		clock:           clock,
		results:         results,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, requesterID int64, role domain.Role) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, requesterID)

	res, err := s.getWithAccessCheck(ctx, id, requesterID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает бронирования пользователя
// scope=active - подтверждённые бронирования, которые ещё не закончились
// scope=history - завершённые, отменённые и истёкшие
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, scope=%s", req.UserID, req.Scope)

	// Чужие бронирования видит только администратор
	if req.UserID != req.RequesterID && !req.Role.CanViewAnyReservation() {
		s.logger.Warn("GetUserReservations: access denied for user=%d to reservations of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	scope := req.Scope
	if scope == "" {
		scope = models.ScopeActive
	}
	if scope != models.ScopeActive && scope != models.ScopeHistory {
		s.logger.Warn("GetUserReservations: invalid scope=%s for user=%d", req.Scope, req.UserID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, req.Scope)
	}

	all, err := s.reservationRepo.GetByUserID(ctx, req.UserID, nil)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	now := s.clock.Now()
	filtered := make([]*domain.ReservationWithRoom, 0, len(all))
	for _, res := range all {
		active := res.IsActive() && res.EndAt.After(now)
		if (scope == models.ScopeActive) == active {
			filtered = append(filtered, res)
		}
	}

	s.logger.Info("GetUserReservations: successfully fetched %d of %d reservations for user=%d", len(filtered), len(all), req.UserID)
	return models.FromDomainReservationList(filtered), nil
}

// Cancel отменяет бронирование
// Отменить может владелец или администратор; терминальные статусы не отменяются
func (s *Service) Cancel(ctx context.Context, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", req.ReservationID, req.RequesterID)

	res, err := s.getWithAccessCheck(ctx, req.ReservationID, req.RequesterID, req.Role)
	if err != nil {
		return err
	}

	if !res.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d has status=%s", req.ReservationID, res.Status)
		return ErrCannotCancel
	}

	if err := s.reservationRepo.UpdateStatus(ctx, req.ReservationID, domain.StatusCancelled); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", req.ReservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", req.ReservationID)
	s.results.ReservationResult("cancelled")

	s.reminders.Cancel(req.ReservationID)

	event := notify.Event{RoomID: res.RoomID, UserID: res.UserID}
	if err := s.notifier.PublishReservationChange(ctx, event); err != nil {
		s.logger.Warn("Cancel: failed to publish change event for id=%d: %v", req.ReservationID, err)
	}

	return nil
}

// GetQR рендерит QR-код с данными токена доступа бронирования
// Возвращает PNG; при отказе внешнего сервиса - локально сгенерированный QR с флагом Degraded
func (s *Service) GetQR(ctx context.Context, req *models.GetQRRequest) (*models.QRResponse, error) {
	s.logger.Info("GetQR: rendering QR for reservation id=%d, user=%d", req.ReservationID, req.RequesterID)

	res, err := s.getWithAccessCheck(ctx, req.ReservationID, req.RequesterID, req.Role)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokenRepo.GetByReservationID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, tokenRepo.ErrTokenNotFound) {
			s.logger.Warn("GetQR: no access token for reservation id=%d", req.ReservationID)
			return nil, ErrTokenNotFound
		}
		s.logger.Error("GetQR: repository error for reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: GetQR - repository error: %v", ErrInternal, err)
	}

	if !tok.IsValid(s.clock.Now()) {
		s.logger.Warn("GetQR: access token for reservation id=%d expired at %s", req.ReservationID, tok.ValidTo)
		return nil, ErrTokenExpired
	}

	payload := qrserver.Payload{
		ReservationID: res.ID,
		Token:         tok.Token,
	}

	png, err := s.qrClient.RenderWithGracefulDegradation(ctx, payload)
	if err != nil {
		if errors.Is(err, qrserver.ErrServiceDegraded) {
			s.logger.Warn("GetQR: external renderer degraded for reservation id=%d, serving local QR", req.ReservationID)
			return &models.QRResponse{PNG: png, Degraded: true}, nil
		}
		s.logger.Error("GetQR: failed to render QR for reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: GetQR - render failed: %v", ErrInternal, err)
	}

	s.logger.Info("GetQR: successfully rendered QR for reservation id=%d", req.ReservationID)
	return &models.QRResponse{PNG: png}, nil
}

// Вспомогательные методы

// getWithAccessCheck получает бронирование и проверяет права доступа
func (s *Service) getWithAccessCheck(ctx context.Context, id int64, requesterID int64, role domain.Role) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("getWithAccessCheck: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("getWithAccessCheck: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getWithAccessCheck - repository error: %v", ErrInternal, err)
	}

	if res.UserID != requesterID && !role.CanViewAnyReservation() {
		s.logger.Warn("getWithAccessCheck: access denied for user=%d to reservation id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return res, nil
}
