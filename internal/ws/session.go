package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	getDaySchedule "github.com/flexbook/FlexBook-BookingService/internal/usecase/get_day_schedule"
)

// GetDayScheduleUseCase интерфейс use case построения дневной сетки
type GetDayScheduleUseCase interface {
	Execute(ctx context.Context, req *getDaySchedule.Request) (*getDaySchedule.Response, error)
}

// ClientMessage входящее сообщение сессии
type ClientMessage struct {
	Type  string `json:"type"` // "click" | "reset" | "set_date"
	Index int    `json:"index,omitempty"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD
}

// SelectionState текущий выбор слотов в исходящем снимке
type SelectionState struct {
	StartIdx *int   `json:"startIdx,omitempty"`
	EndIdx   *int   `json:"endIdx,omitempty"`
	StartAt  string `json:"startAt,omitempty"`
	EndAt    string `json:"endAt,omitempty"`
}

// Snapshot исходящий снимок: сетка занятости и выбор слотов
type Snapshot struct {
	Type      string         `json:"type"` // "snapshot"
	RoomID    int64          `json:"roomId"`
	RoomName  string         `json:"roomName"`
	Date      string         `json:"date"`
	Slots     []SnapshotSlot `json:"slots"`
	Selection SelectionState `json:"selection"`
}

// SnapshotSlot слот сетки в снимке
type SnapshotSlot struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Occupied bool   `json:"occupied"`
	Selected bool   `json:"selected"`
}

// Session интерактивная сессия выбора слотов одной комнаты
// Выбор живет только в памяти сессии; подтверждение идет через REST
type Session struct {
	conn       *websocket.Conn
	hub        *Hub
	scheduleUC GetDayScheduleUseCase
	logger     Logger

	roomID int64
	keys   []string

	writeMu sync.Mutex

	// состояние ниже защищено stateMu
	stateMu    sync.Mutex
	date       time.Time
	selection  domain.Selection
	schedule   *getDaySchedule.Response
	generation uint64 // отсекает устаревшие ответы асинхронных обновлений
	closed     bool
}

// NewSession создает сессию для комнаты с начальной датой сетки
// userID > 0 дополнительно подписывает сессию на события пользователя
func NewSession(
	conn *websocket.Conn,
	hub *Hub,
	scheduleUC GetDayScheduleUseCase,
	roomID int64,
	userID int64,
	date time.Time,
	logger Logger,
) *Session {
	keys := []string{RoomKey(roomID)}
	if userID > 0 {
		keys = append(keys, UserKey(userID))
	}

	return &Session{
		conn:       conn,
		hub:        hub,
		scheduleUC: scheduleUC,
		logger:     logger,
		roomID:     roomID,
		keys:       keys,
		date:       date,
		selection:  domain.EmptySelection(),
	}
}

// Run регистрирует сессию и обрабатывает сообщения до закрытия соединения
func (s *Session) Run(ctx context.Context) {
	s.hub.register(s)
	defer func() {
		s.hub.unregister(s)
		s.Close()
	}()

	s.refresh(ctx)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("Session: invalid message for room_id=%d: %v", s.roomID, err)
			continue
		}

		switch msg.Type {
		case "click":
			s.handleClick(msg.Index)
		case "reset":
			s.handleReset()
		case "set_date":
			s.handleSetDate(ctx, msg.Date)
		default:
			s.logger.Warn("Session: unknown message type %q for room_id=%d", msg.Type, s.roomID)
		}
	}
}

// Close закрывает соединение; повторные вызовы безопасны
func (s *Session) Close() {
	s.stateMu.Lock()
	if s.closed {
		s.stateMu.Unlock()
		return
	}
	s.closed = true
	s.stateMu.Unlock()

	_ = s.conn.Close()
}

func (s *Session) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

// scheduleChanged вызывается хабом при изменении бронирований комнаты
func (s *Session) scheduleChanged() {
	go s.refresh(context.Background())
}

// handleClick применяет правила выбора слота и отправляет снимок
func (s *Session) handleClick(idx int) {
	s.stateMu.Lock()
	if s.schedule == nil {
		s.stateMu.Unlock()
		return
	}
	s.selection = s.selection.Click(idx, s.schedule.Occupancy())
	snapshot := s.buildSnapshotLocked()
	s.stateMu.Unlock()

	s.send(snapshot)
}

// handleReset сбрасывает выбор
func (s *Session) handleReset() {
	s.stateMu.Lock()
	s.selection = domain.EmptySelection()
	snapshot := s.buildSnapshotLocked()
	s.stateMu.Unlock()

	s.send(snapshot)
}

// handleSetDate переключает дату сетки и сбрасывает выбор
func (s *Session) handleSetDate(ctx context.Context, raw string) {
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		s.logger.Warn("Session: invalid date %q for room_id=%d: %v", raw, s.roomID, err)
		return
	}

	s.stateMu.Lock()
	s.date = date
	s.selection = domain.EmptySelection()
	s.stateMu.Unlock()

	s.refresh(ctx)
}

// refresh перечитывает расписание и применяет его, если оно не устарело
// Побеждает последний запрошенный снимок: ответы прежних поколений отбрасываются
func (s *Session) refresh(ctx context.Context) {
	s.stateMu.Lock()
	if s.closed {
		s.stateMu.Unlock()
		return
	}
	s.generation++
	generation := s.generation
	date := s.date
	s.stateMu.Unlock()

	schedule, err := s.scheduleUC.Execute(ctx, &getDaySchedule.Request{
		RoomID: s.roomID,
		Date:   date,
	})
	if err != nil {
		s.logger.Error("Session: failed to refresh schedule for room_id=%d: %v", s.roomID, err)
		return
	}

	s.stateMu.Lock()
	if s.closed || generation != s.generation {
		s.stateMu.Unlock()
		return
	}
	s.schedule = schedule
	s.selection = s.selection.Invalidate(schedule.Occupancy())
	snapshot := s.buildSnapshotLocked()
	s.stateMu.Unlock()

	s.send(snapshot)
}

func (s *Session) buildSnapshotLocked() *Snapshot {
	snapshot := &Snapshot{
		Type:     "snapshot",
		RoomID:   s.schedule.RoomID,
		RoomName: s.schedule.RoomName,
		Date:     s.schedule.Date.Format(domain.DateFormat),
		Slots:    make([]SnapshotSlot, len(s.schedule.Slots)),
	}

	for i, slot := range s.schedule.Slots {
		snapshot.Slots[i] = SnapshotSlot{
			Index:    slot.Index,
			Label:    slot.Label,
			Occupied: slot.Occupied,
			Selected: s.selection.Contains(slot.Index),
		}
	}

	snapshot.Selection = SelectionState{
		StartIdx: s.selection.StartIdx,
		EndIdx:   s.selection.EndIdx,
	}

	if !s.selection.IsEmpty() {
		grid := make([]domain.Slot, len(s.schedule.Slots))
		for i, slot := range s.schedule.Slots {
			grid[i] = domain.Slot{Index: slot.Index, Label: slot.Label, Start: slot.StartAt, End: slot.EndAt}
		}
		if start, end, ok := s.selection.Interval(grid); ok {
			snapshot.Selection.StartAt = start.Start.Format(time.RFC3339)
			snapshot.Selection.EndAt = end.End.Format(time.RFC3339)
		}
	}

	return snapshot
}

func (s *Session) send(snapshot *Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("Session: failed to marshal snapshot for room_id=%d: %v", s.roomID, err)
		return
	}

	if err := s.write(websocket.TextMessage, data); err != nil {
		s.logger.Warn("Session: write failed for room_id=%d, closing: %v", s.roomID, err)
		s.Close()
	}
}
