package update_room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidID          = "некорректный ID комнаты"
	msgInvalidInput       = "некорректные параметры комнаты"
	msgRoomNotFound       = "комната не найдена"
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

// Handle PUT /api/v1/rooms/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	roomID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /rooms/{id} - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /rooms/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.RoomID = roomID
	req.Role = middleware.GetRole(r.Context())

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrRoomNotFound):
			h.logger.Warn("PUT /rooms/{id} - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, rooms.ErrAccessDenied):
			h.logger.Warn("PUT /rooms/{id} - Access denied: room_id=%d, user_id=%d", roomID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, rooms.ErrInvalidInput):
			h.logger.Warn("PUT /rooms/{id} - Invalid input: room_id=%d: %v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /rooms/{id} - Failed to update room: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /rooms/{id} - Room updated: room_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
