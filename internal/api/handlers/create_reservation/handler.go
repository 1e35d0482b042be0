package create_reservation

import (
	"errors"
	"net/http"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	createReservation "github.com/flexbook/FlexBook-BookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRoomNotFound       = "комната не найдена"
	msgEndBeforeStart     = "конец интервала должен быть позже начала"
	msgIntervalInPast     = "интервал уже закончился"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgIntervalConflict   = "интервал пересекается с подтверждёнными бронированиями"
	msgCreatedTokenFailed = "бронирование создано, но выпуск токена доступа не удался"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		var conflictErr *createReservation.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /reservations - Interval conflict: user_id=%d, room_id=%d, conflicts=%d",
				userID, req.RoomID, len(conflictErr.Conflicts))
			handlers.RespondJSON(w, http.StatusConflict, ConflictFromError(conflictErr))

		case errors.Is(err, createReservation.ErrRoomNotFound):
			h.logger.Warn("POST /reservations - Room not found: room_id=%d", req.RoomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createReservation.ErrEndBeforeStart):
			h.logger.Warn("POST /reservations - End before start: user_id=%d, room_id=%d", userID, req.RoomID)
			handlers.RespondBadRequest(w, msgEndBeforeStart)

		case errors.Is(err, createReservation.ErrIntervalInPast):
			h.logger.Warn("POST /reservations - Interval in the past: user_id=%d, room_id=%d", userID, req.RoomID)
			handlers.RespondBadRequest(w, msgIntervalInPast)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, room_id=%d: %v", userID, req.RoomID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, room_id=%d, error=%v",
				userID, req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, room_id=%d, token_failed=%t",
		result.ID, userID, req.RoomID, result.TokenFailed)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
