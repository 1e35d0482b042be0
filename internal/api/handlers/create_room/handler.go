package create_room

import (
	"errors"
	"net/http"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры комнаты"
	msgAccessDenied       = "управление комнатами доступно только администратору"
)

type Handler struct {
	service RoomService
	logger  Logger
}

func NewHandler(service RoomService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/rooms
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req models.CreateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rooms - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Role = middleware.GetRole(r.Context())

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrAccessDenied):
			h.logger.Warn("POST /rooms - Access denied: user_id=%d", userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, rooms.ErrInvalidInput):
			h.logger.Warn("POST /rooms - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /rooms - Failed to create room: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rooms - Room created: room_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
