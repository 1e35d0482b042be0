package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	getDaySchedule "github.com/flexbook/FlexBook-BookingService/internal/usecase/get_day_schedule"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type noopMetrics struct{}

func (noopMetrics) WSSessionStarted() {}
func (noopMetrics) WSSessionEnded()   {}

// stubScheduleUC отдаёт управляемую занятость
type stubScheduleUC struct {
	mu       sync.Mutex
	occupied map[int]bool
}

func (s *stubScheduleUC) setOccupied(occ map[int]bool) {
	s.mu.Lock()
	s.occupied = occ
	s.mu.Unlock()
}

func (s *stubScheduleUC) Execute(_ context.Context, req *getDaySchedule.Request) (*getDaySchedule.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]getDaySchedule.Slot, 12)
	base := time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)
	for i := range slots {
		start := base.Add(time.Duration(i) * time.Hour)
		slots[i] = getDaySchedule.Slot{
			Index:    i,
			Label:    start.Format("15:04"),
			StartAt:  start,
			EndAt:    start.Add(time.Hour),
			Occupied: s.occupied[i],
		}
	}

	return &getDaySchedule.Response{
		RoomID:   req.RoomID,
		RoomName: "Boardroom",
		Date:     req.Date,
		Slots:    slots,
	}, nil
}

func dialSession(t *testing.T, hub *Hub, uc GetDayScheduleUseCase) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		session := NewSession(conn, hub, uc, 3, 7, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), noopLogger{})
		go session.Run(context.Background())
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) *Snapshot {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return &snap
}

func sendMessage(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestSession_InitialSnapshot(t *testing.T) {
	hub := NewHub(noopMetrics{}, noopLogger{})
	conn := dialSession(t, hub, &stubScheduleUC{})

	snap := readSnapshot(t, conn)

	assert.Equal(t, "snapshot", snap.Type)
	assert.Equal(t, int64(3), snap.RoomID)
	assert.Equal(t, "Boardroom", snap.RoomName)
	assert.Equal(t, "2025-10-15", snap.Date, "session opens on the requested date")
	require.Len(t, snap.Slots, 12)
	assert.Nil(t, snap.Selection.StartIdx)
}

func TestSession_ClickBuildsRange(t *testing.T) {
	hub := NewHub(noopMetrics{}, noopLogger{})
	conn := dialSession(t, hub, &stubScheduleUC{})
	readSnapshot(t, conn) // начальный снимок

	sendMessage(t, conn, ClientMessage{Type: "click", Index: 2})
	snap := readSnapshot(t, conn)
	require.NotNil(t, snap.Selection.StartIdx)
	assert.Equal(t, 2, *snap.Selection.StartIdx)
	assert.Equal(t, 3, *snap.Selection.EndIdx)
	assert.True(t, snap.Slots[2].Selected)

	sendMessage(t, conn, ClientMessage{Type: "click", Index: 5})
	snap = readSnapshot(t, conn)
	assert.Equal(t, 2, *snap.Selection.StartIdx)
	assert.Equal(t, 6, *snap.Selection.EndIdx)
	assert.Equal(t, "2025-10-15T10:00:00Z", snap.Selection.StartAt)
	assert.Equal(t, "2025-10-15T14:00:00Z", snap.Selection.EndAt)

	sendMessage(t, conn, ClientMessage{Type: "reset"})
	snap = readSnapshot(t, conn)
	assert.Nil(t, snap.Selection.StartIdx)
}

func TestSession_ReservationChangeInvalidatesSelection(t *testing.T) {
	uc := &stubScheduleUC{}
	hub := NewHub(noopMetrics{}, noopLogger{})
	conn := dialSession(t, hub, uc)
	readSnapshot(t, conn)

	sendMessage(t, conn, ClientMessage{Type: "click", Index: 2})
	sendMessage(t, conn, ClientMessage{Type: "click", Index: 4})
	readSnapshot(t, conn)
	snap := readSnapshot(t, conn)
	require.NotNil(t, snap.Selection.StartIdx)

	// Чужое бронирование занимает слот внутри выбранного диапазона
	uc.setOccupied(map[int]bool{3: true})
	hub.NotifyReservationChange(notify.Event{RoomID: 3})

	snap = readSnapshot(t, conn)
	assert.True(t, snap.Slots[3].Occupied)
	assert.Nil(t, snap.Selection.StartIdx, "selection spanning an occupied slot is cleared")
}

func TestSession_SetDateResetsSelection(t *testing.T) {
	hub := NewHub(noopMetrics{}, noopLogger{})
	conn := dialSession(t, hub, &stubScheduleUC{})
	readSnapshot(t, conn)

	sendMessage(t, conn, ClientMessage{Type: "click", Index: 2})
	readSnapshot(t, conn)

	sendMessage(t, conn, ClientMessage{Type: "set_date", Date: "2025-10-16"})
	snap := readSnapshot(t, conn)
	assert.Equal(t, "2025-10-16", snap.Date)
	assert.Nil(t, snap.Selection.StartIdx)
}
