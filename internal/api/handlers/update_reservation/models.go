package update_reservation

import (
	"time"

	updateReservation "github.com/flexbook/FlexBook-BookingService/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP request model
type UpdateReservationRequest struct {
	StartAt time.Time `json:"startAt"` // RFC 3339
	EndAt   time.Time `json:"endAt"`   // RFC 3339, исключительно
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	RoomID    int64  `json:"roomId"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ConflictInterval занятый интервал в ответе 409
type ConflictInterval struct {
	ReservationID int64  `json:"reservationId"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
}

// ConflictResponse тело ответа 409 Conflict
type ConflictResponse struct {
	Error     string             `json:"error"`
	Conflicts []ConflictInterval `json:"conflicts"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID, userID int64) *updateReservation.Request {
	return &updateReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:        resp.ID,
		UserID:    resp.UserID,
		RoomID:    resp.RoomID,
		StartAt:   resp.StartAt.Format(time.RFC3339),
		EndAt:     resp.EndAt.Format(time.RFC3339),
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}

// ConflictFromError конвертирует ошибку конфликта в HTTP модель
func ConflictFromError(err *updateReservation.ConflictError) *ConflictResponse {
	resp := &ConflictResponse{
		Error:     msgIntervalConflict,
		Conflicts: make([]ConflictInterval, len(err.Conflicts)),
	}

	for i, c := range err.Conflicts {
		resp.Conflicts[i] = ConflictInterval{
			ReservationID: c.ReservationID,
			StartAt:       c.StartAt.Format(time.RFC3339),
			EndAt:         c.EndAt.Format(time.RFC3339),
		}
	}

	return resp
}
