package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations"
	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations/models"
)

const (
	msgInvalidID           = "некорректный ID бронирования"
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "отменить можно только своё бронирование"
	msgCannotCancel        = "бронирование уже в терминальном статусе"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	req := &models.CancelReservationRequest{
		ReservationID: reservationID,
		RequesterID:   userID,
		Role:          middleware.GetRole(r.Context()),
	}

	if err := h.service.Cancel(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Access denied: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, reservations.ErrCannotCancel):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Cannot cancel: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, user_id=%d, error=%v",
				reservationID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, user_id=%d", reservationID, userID)
	handlers.RespondNoContent(w)
}
