package ws

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс счётчиков активных сессий
type Metrics interface {
	WSSessionStarted()
	WSSessionEnded()
}

// Hub реестр активных WebSocket сессий
// Сессии группируются по ключам подписки: комната и пользователь
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*Session]struct{}
	metrics  Metrics
	logger   Logger
}

// NewHub создает новый экземпляр реестра сессий
func NewHub(metrics Metrics, logger Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[*Session]struct{}),
		metrics:  metrics,
		logger:   logger,
	}
}

// RoomKey ключ подписки на события комнаты
func RoomKey(roomID int64) string {
	return fmt.Sprintf("room:%d", roomID)
}

// UserKey ключ подписки на события пользователя
func UserKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	for _, key := range s.keys {
		if h.sessions[key] == nil {
			h.sessions[key] = make(map[*Session]struct{})
		}
		h.sessions[key][s] = struct{}{}
	}
	h.mu.Unlock()

	h.metrics.WSSessionStarted()
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	for _, key := range s.keys {
		delete(h.sessions[key], s)
		if len(h.sessions[key]) == 0 {
			delete(h.sessions, key)
		}
	}
	h.mu.Unlock()

	h.metrics.WSSessionEnded()
}

// Broadcast отправляет сообщение всем сессиям по ключу
// Сессии с ошибкой записи закрываются
func (h *Hub) Broadcast(key string, message []byte) {
	h.mu.Lock()
	targets := make([]*Session, 0, len(h.sessions[key]))
	for s := range h.sessions[key] {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.write(websocket.TextMessage, message); err != nil {
			h.logger.Warn("Broadcast: write failed for key=%s, closing session: %v", key, err)
			s.Close()
		}
	}
}

// NotifyReservationChange рассылает событие об изменении бронирований
// Сессии комнаты перечитывают расписание и перепроверяют выбор слотов
func (h *Hub) NotifyReservationChange(event notify.Event) {
	h.mu.Lock()
	targets := make([]*Session, 0)
	for s := range h.sessions[RoomKey(event.RoomID)] {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	h.logger.Info("NotifyReservationChange: room_id=%d, sessions=%d", event.RoomID, len(targets))

	for _, s := range targets {
		s.scheduleChanged()
	}

	if event.UserID != 0 {
		payload := fmt.Sprintf(`{"type":"reservation_changed","roomId":%d}`, event.RoomID)
		h.Broadcast(UserKey(event.UserID), []byte(payload))
	}
}

// NotifyUser отправляет сообщение всем сессиям пользователя
func (h *Hub) NotifyUser(userID int64, message []byte) {
	h.Broadcast(UserKey(userID), message)
}

// CloseAll закрывает все активные сессии
func (h *Hub) CloseAll() {
	h.mu.Lock()
	seen := make(map[*Session]struct{})
	for _, group := range h.sessions {
		for s := range group {
			seen[s] = struct{}{}
		}
	}
	h.mu.Unlock()

	for s := range seen {
		s.Close()
	}
}
