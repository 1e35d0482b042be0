package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	updateReservation "github.com/flexbook/FlexBook-BookingService/internal/usecase/update_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidID           = "некорректный ID бронирования"
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "редактировать можно только своё бронирование"
	msgCannotUpdate        = "бронирование в терминальном статусе нельзя изменить"
	msgEndBeforeStart      = "конец интервала должен быть позже начала"
	msgInvalidInput        = "некорректные параметры бронирования"
	msgIntervalConflict    = "интервал пересекается с подтверждёнными бронированиями"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID, userID))
	if err != nil {
		var conflictErr *updateReservation.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("PUT /reservations/{id} - Interval conflict: reservation_id=%d, user_id=%d, conflicts=%d",
				reservationID, userID, len(conflictErr.Conflicts))
			handlers.RespondJSON(w, http.StatusConflict, ConflictFromError(conflictErr))

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PUT /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("PUT /reservations/{id} - Access denied: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, updateReservation.ErrCannotUpdate):
			h.logger.Warn("PUT /reservations/{id} - Cannot update: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgCannotUpdate)

		case errors.Is(err, updateReservation.ErrEndBeforeStart):
			h.logger.Warn("PUT /reservations/{id} - End before start: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgEndBeforeStart)

		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PUT /reservations/{id} - Invalid input: reservation_id=%d: %v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /reservations/{id} - Failed to update reservation: reservation_id=%d, user_id=%d, error=%v",
				reservationID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id} - Reservation updated: reservation_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
