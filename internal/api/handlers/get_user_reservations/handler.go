package get_user_reservations

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
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidScope  = "некорректный scope, ожидается active или history"
	msgAccessDenied  = "просматривать можно только свои бронирования"
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

// Handle GET /api/v1/users/{userId}/reservations?scope=active|history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/reservations - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	req := &models.GetUserReservationsRequest{
		UserID:      userID,
		RequesterID: requesterID,
		Role:        middleware.GetRole(r.Context()),
		Scope:       r.URL.Query().Get("scope"),
	}

	result, err := h.service.GetUserReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidScope):
			h.logger.Warn("GET /users/{userId}/reservations - Invalid scope: user_id=%d, scope=%s", userID, req.Scope)
			handlers.RespondBadRequest(w, msgInvalidScope)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/reservations - Access denied: user_id=%d, requester_id=%d", userID, requesterID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		default:
			h.logger.Error("GET /users/{userId}/reservations - Failed to get reservations: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
