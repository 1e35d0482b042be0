package delete_room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms"
)

const (
	msgInvalidID    = "некорректный ID комнаты"
	msgRoomNotFound = "комната не найдена"
	msgAccessDenied = "управление комнатами доступно только администратору"
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

// Handle DELETE /api/v1/rooms/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	roomID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /rooms/{id} - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), roomID, middleware.GetRole(r.Context())); err != nil {
		switch {
		case errors.Is(err, rooms.ErrRoomNotFound):
			h.logger.Warn("DELETE /rooms/{id} - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, rooms.ErrAccessDenied):
			h.logger.Warn("DELETE /rooms/{id} - Access denied: room_id=%d, user_id=%d", roomID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		default:
			h.logger.Error("DELETE /rooms/{id} - Failed to delete room: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /rooms/{id} - Room deleted: room_id=%d, user_id=%d", roomID, userID)
	handlers.RespondNoContent(w)
}
