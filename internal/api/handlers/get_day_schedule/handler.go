package get_day_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	getDaySchedule "github.com/flexbook/FlexBook-BookingService/internal/usecase/get_day_schedule"
)

const (
	msgInvalidRoomID = "некорректный ID комнаты"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgRoomNotFound  = "комната не найдена"
)

type Handler struct {
	useCase GetDayScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetDayScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/schedule?date=YYYY-MM-DD
// Без параметра date строится сетка на сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /rooms/{roomId}/schedule - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /rooms/{roomId}/schedule - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getDaySchedule.Request{
		RoomID: roomID,
		Date:   date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDaySchedule.ErrRoomNotFound):
			h.logger.Warn("GET /rooms/{roomId}/schedule - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, getDaySchedule.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{roomId}/schedule - Invalid input: room_id=%d: %v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidRoomID)

		default:
			h.logger.Error("GET /rooms/{roomId}/schedule - Failed to build schedule: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
