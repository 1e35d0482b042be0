package models

import (
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

// Request модели

// CreateRoomRequest запрос на создание комнаты
type CreateRoomRequest struct {
	Role      domain.Role `json:"-"`
	Name      string      `json:"name"`
	Capacity  *int        `json:"capacity,omitempty"`
	Equipment []string    `json:"equipment,omitempty"`
	Rules     *string     `json:"rules,omitempty"`
}

// UpdateRoomRequest запрос на обновление комнаты
type UpdateRoomRequest struct {
	Role      domain.Role `json:"-"`
	RoomID    int64       `json:"-"`
	Name      string      `json:"name"`
	Capacity  *int        `json:"capacity,omitempty"`
	Equipment []string    `json:"equipment,omitempty"`
	Rules     *string     `json:"rules,omitempty"`
}

// Response модели

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  *int      `json:"capacity,omitempty"`
	Equipment []string  `json:"equipment,omitempty"`
	Rules     *string   `json:"rules,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationBrief краткие сведения о бронировании для витрины комнат
type ReservationBrief struct {
	ID      int64     `json:"id"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// RoomAvailabilityResponse комната с текущим и ближайшим бронированием
type RoomAvailabilityResponse struct {
	RoomResponse
	CurrentReservation *ReservationBrief `json:"currentReservation,omitempty"`
	NextReservation    *ReservationBrief `json:"nextReservation,omitempty"`
}

// RoomListResponse ответ со списком комнат
type RoomListResponse struct {
	Rooms []RoomAvailabilityResponse `json:"rooms"`
}

// Методы конвертации

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(r *domain.Room) *RoomResponse {
	if r == nil {
		return nil
	}

	return &RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Equipment: r.Equipment,
		Rules:     r.Rules,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainAvailability конвертирует domain модель доступности в DTO
func FromDomainAvailability(a *domain.RoomAvailability) *RoomAvailabilityResponse {
	if a == nil {
		return nil
	}

	resp := &RoomAvailabilityResponse{
		RoomResponse: *FromDomainRoom(&a.Room),
	}
	resp.CurrentReservation = briefFromDomain(a.CurrentReservation)
	resp.NextReservation = briefFromDomain(a.NextReservation)

	return resp
}

func briefFromDomain(r *domain.Reservation) *ReservationBrief {
	if r == nil {
		return nil
	}

	return &ReservationBrief{
		ID:      r.ID,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
	}
}

// ToDomainRoom конвертирует запрос на создание в domain модель
func (r *CreateRoomRequest) ToDomainRoom() *domain.Room {
	return &domain.Room{
		Name:      r.Name,
		Capacity:  r.Capacity,
		Equipment: r.Equipment,
		Rules:     r.Rules,
	}
}

// ToDomainRoom конвертирует запрос на обновление в domain модель
func (r *UpdateRoomRequest) ToDomainRoom() *domain.Room {
	return &domain.Room{
		ID:        r.RoomID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Equipment: r.Equipment,
		Rules:     r.Rules,
	}
}
