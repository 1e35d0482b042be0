package get_reservation_qr

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
	msgTokenNotFound       = "токен доступа не найден"
	msgTokenExpired        = "срок действия токена доступа истёк"
	msgAccessDenied        = "QR-код доступен только владельцу бронирования"

	// Заголовок выставляется, когда внешний рендерер недоступен и QR сгенерирован локально
	headerDegraded = "X-QR-Degraded"
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

// Handle GET /api/v1/reservations/{id}/qr
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/qr - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	req := &models.GetQRRequest{
		ReservationID: reservationID,
		RequesterID:   userID,
		Role:          middleware.GetRole(r.Context()),
	}

	result, err := h.service.GetQR(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("GET /reservations/{id}/qr - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrTokenNotFound):
			h.logger.Warn("GET /reservations/{id}/qr - Token not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, reservations.ErrTokenExpired):
			h.logger.Warn("GET /reservations/{id}/qr - Token expired: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusGone, msgTokenExpired)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /reservations/{id}/qr - Access denied: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		default:
			h.logger.Error("GET /reservations/{id}/qr - Failed to render QR: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/{id}/qr - QR rendered: reservation_id=%d, degraded=%t", reservationID, result.Degraded)

	w.Header().Set("Content-Type", "image/png")
	if result.Degraded {
		w.Header().Set(headerDegraded, "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PNG)
}
