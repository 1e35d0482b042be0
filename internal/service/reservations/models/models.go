package models

import (
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

// Scope значения фильтра выборки бронирований пользователя
const (
	ScopeActive  = "active"
	ScopeHistory = "history"
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID      int64       `json:"userId"`
	RequesterID int64       `json:"requesterId"`
	Role        domain.Role `json:"role"`
	Scope       string      `json:"scope,omitempty"` // "active" | "history", по умолчанию "active"
}

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	ReservationID int64       `json:"reservationId"`
	RequesterID   int64       `json:"requesterId"`
	Role          domain.Role `json:"role"`
}

// GetQRRequest запрос на получение QR-кода бронирования
type GetQRRequest struct {
	ReservationID int64       `json:"reservationId"`
	RequesterID   int64       `json:"requesterId"`
	Role          domain.Role `json:"role"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	RoomID    int64     `json:"roomId"`
	RoomName  string    `json:"roomName,omitempty"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// QRResponse ответ с QR-кодом бронирования
type QRResponse struct {
	PNG      []byte `json:"-"`
	Degraded bool   `json:"degraded"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		RoomID:    r.RoomID,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.ReservationWithRoom) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, res := range reservations {
		item := FromDomainReservation(&res.Reservation)
		if item == nil {
			continue
		}
		item.RoomName = res.RoomName
		resp.Reservations = append(resp.Reservations, *item)
	}

	return resp
}
