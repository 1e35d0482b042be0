package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

// UserNotifier доставляет напоминание активным сессиям пользователя
type UserNotifier interface {
	NotifyUser(userID int64, message []byte)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Scheduler реестр отложенных напоминаний о начале бронирования
// На каждое подтверждённое бронирование взводится один таймер;
// повторное планирование того же бронирования заменяет прежний таймер
type Scheduler struct {
	mu       sync.Mutex
	timers   map[int64]*time.Timer
	lead     time.Duration
	notifier UserNotifier
	logger   Logger
	now      func() time.Time
}

// NewScheduler создает планировщик с заданным упреждением
func NewScheduler(lead time.Duration, notifier UserNotifier, logger Logger) *Scheduler {
	if lead <= 0 {
		lead = time.Duration(domain.DefaultReminderLeadMinutes) * time.Minute
	}

	return &Scheduler{
		timers:   make(map[int64]*time.Timer),
		lead:     lead,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Schedule взводит напоминание за lead до начала бронирования
// Бронирования, начинающиеся раньше, чем через lead, пропускаются
func (s *Scheduler) Schedule(res *domain.Reservation) {
	if res == nil || !res.IsActive() {
		return
	}

	fireAt := res.StartAt.Add(-s.lead)
	delay := fireAt.Sub(s.now())
	if delay <= 0 {
		s.logger.Info("Schedule: reservation id=%d starts too soon, reminder skipped", res.ID)
		return
	}

	reservationID := res.ID
	userID := res.UserID
	roomID := res.RoomID
	startAt := res.StartAt

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[reservationID]; ok {
		old.Stop()
	}

	s.timers[reservationID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, reservationID)
		s.mu.Unlock()

		s.logger.Info("Reminder fired: reservation_id=%d, user_id=%d", reservationID, userID)
		payload := fmt.Sprintf(
			`{"type":"reminder","reservationId":%d,"roomId":%d,"startAt":%q}`,
			reservationID, roomID, startAt.Format(time.RFC3339),
		)
		s.notifier.NotifyUser(userID, []byte(payload))
	})

	s.logger.Info("Schedule: reminder set for reservation id=%d at %s", reservationID, fireAt.Format(time.RFC3339))
}

// Cancel снимает напоминание бронирования, если оно есть
func (s *Scheduler) Cancel(reservationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[reservationID]; ok {
		t.Stop()
		delete(s.timers, reservationID)
		s.logger.Info("Cancel: reminder removed for reservation id=%d", reservationID)
	}
}

// CancelAll снимает все напоминания при остановке сервиса
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
