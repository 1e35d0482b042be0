package rooms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms/models"
)

// Service сервис для работы с комнатами
type Service struct {
	roomRepo        RoomRepository
	reservationRepo ReservationRepository
	clock           TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(
	roomRepo RoomRepository,
	reservationRepo ReservationRepository,
	clock TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		clock:           clock,
		logger:          logger,
	}
}

// List получает список комнат с текущим и ближайшим бронированием каждой
func (s *Service) List(ctx context.Context) (*models.RoomListResponse, error) {
	s.logger.Info("List: fetching rooms")

	roomList, err := s.roomRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	now := s.clock.Now()
	upcoming, err := s.reservationRepo.ListUpcoming(ctx, now)
	if err != nil {
		s.logger.Error("List: failed to fetch upcoming reservations: %v", err)
		return nil, fmt.Errorf("%w: List - failed to fetch upcoming reservations: %v", ErrInternal, err)
	}

	resp := &models.RoomListResponse{
		Rooms: make([]models.RoomAvailabilityResponse, 0, len(roomList)),
	}

	for _, room := range roomList {
		availability := buildAvailability(room, upcoming, now)
		resp.Rooms = append(resp.Rooms, *models.FromDomainAvailability(availability))
	}

	s.logger.Info("List: successfully fetched %d rooms", len(resp.Rooms))
	return resp, nil
}

// GetByID получает комнату по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	s.logger.Info("GetByID: fetching room id=%d", id)

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("GetByID: room id=%d not found", id)
			return nil, ErrRoomNotFound
		}
		s.logger.Error("GetByID: repository error for room id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRoom(room), nil
}

// Create создает новую комнату
// Доступно только администратору
func (s *Service) Create(ctx context.Context, req *models.CreateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Create: creating room name=%q", req.Name)

	if !req.Role.CanManageRooms() {
		s.logger.Warn("Create: access denied, role=%s", req.Role)
		return nil, ErrAccessDenied
	}

	if err := validateRoomFields(req.Name, req.Equipment, req.Rules); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	room, err := s.roomRepo.Create(ctx, req.ToDomainRoom())
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created room id=%d", room.ID)
	return models.FromDomainRoom(room), nil
}

// Update обновляет комнату
// Доступно только администратору
func (s *Service) Update(ctx context.Context, req *models.UpdateRoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Update: updating room id=%d", req.RoomID)

	if !req.Role.CanManageRooms() {
		s.logger.Warn("Update: access denied, role=%s", req.Role)
		return nil, ErrAccessDenied
	}

	if err := validateRoomFields(req.Name, req.Equipment, req.Rules); err != nil {
		s.logger.Warn("Update: validation failed for room id=%d: %v", req.RoomID, err)
		return nil, err
	}

	room, err := s.roomRepo.Update(ctx, req.ToDomainRoom())
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("Update: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		s.logger.Error("Update: repository error for room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated room id=%d", room.ID)
	return models.FromDomainRoom(room), nil
}

// Delete удаляет комнату
// Доступно только администратору
func (s *Service) Delete(ctx context.Context, id int64, role domain.Role) error {
	s.logger.Info("Delete: deleting room id=%d", id)

	if !role.CanManageRooms() {
		s.logger.Warn("Delete: access denied, role=%s", role)
		return ErrAccessDenied
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("Delete: room id=%d not found", id)
			return ErrRoomNotFound
		}
		s.logger.Error("Delete: repository error for room id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted room id=%d", id)
	return nil
}

// Вспомогательные методы

// buildAvailability находит текущее и ближайшее бронирование комнаты
// upcoming отсортирован по start_at по возрастанию
func buildAvailability(room *domain.Room, upcoming []*domain.Reservation, now time.Time) *domain.RoomAvailability {
	availability := &domain.RoomAvailability{Room: *room}

	for _, res := range upcoming {
		if res.RoomID != room.ID {
			continue
		}
		if res.IsCurrent(now) {
			if availability.CurrentReservation == nil {
				availability.CurrentReservation = res
			}
			continue
		}
		if res.StartAt.After(now) && availability.NextReservation == nil {
			availability.NextReservation = res
		}
		if availability.CurrentReservation != nil && availability.NextReservation != nil {
			break
		}
	}

	return availability
}

func validateRoomFields(name string, equipment []string, rules *string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxRoomNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxRoomNameLength)
	}
	if len(equipment) > domain.MaxEquipmentItems {
		return fmt.Errorf("%w: too many equipment items", ErrInvalidInput)
	}
	for _, item := range equipment {
		if item == "" || len(item) > domain.MaxEquipmentLength {
			return fmt.Errorf("%w: invalid equipment item", ErrInvalidInput)
		}
	}
	if rules != nil && len(*rules) > domain.MaxRulesLength {
		return fmt.Errorf("%w: rules exceed %d characters", ErrInvalidInput, domain.MaxRulesLength)
	}
	return nil
}
