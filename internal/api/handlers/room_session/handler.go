package room_session

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/api/middleware"
	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/ws"
)

const (
	msgInvalidRoomID = "некорректный ID комнаты"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub        *ws.Hub
	scheduleUC ws.GetDayScheduleUseCase
	jwtSecret  string
	logger     Logger
}

func NewHandler(hub *ws.Hub, scheduleUC ws.GetDayScheduleUseCase, jwtSecret string, logger Logger) *Handler {
	return &Handler{
		hub:        hub,
		scheduleUC: scheduleUC,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

// Handle GET /ws/rooms/{roomId}?date=YYYY-MM-DD
// Эндпоинт публичный; токен в query-параметре дополнительно подписывает
// сессию на персональные уведомления. Без параметра date сессия
// открывается на сегодня.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /ws/rooms/{roomId} - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /ws/rooms/{roomId} - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	var userID int64
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := middleware.ParseToken(token, h.jwtSecret)
		if err != nil {
			h.logger.Warn("GET /ws/rooms/{roomId} - Invalid token, continuing anonymously: %v", err)
		} else {
			userID = claims.UserID
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("GET /ws/rooms/{roomId} - Upgrade failed: %v", err)
		return
	}

	h.logger.Info("GET /ws/rooms/{roomId} - Session started: room_id=%d, user_id=%d", roomID, userID)

	// Контекст запроса гаснет при возврате из обработчика, поэтому сессия
	// живет на фоновом контексте до закрытия соединения
	session := ws.NewSession(conn, h.hub, h.scheduleUC, roomID, userID, date, h.logger)
	session.Run(context.Background())
}
