package sweeper

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ExpireOverdue(ctx context.Context, now time.Time) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс публикации событий об изменениях бронирований
type Notifier interface {
	PublishReservationChange(ctx context.Context, event notify.Event) error
}

// ReminderScheduler интерфейс планировщика напоминаний
type ReminderScheduler interface {
	Cancel(reservationID int64)
}

// ResultRecorder фиксирует исходы коммитов бронирований в метриках
type ResultRecorder interface {
	ReservationResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper фоновый процесс перевода закончившихся бронирований в expired
// Несколько инстансов сервиса могут мести одновременно: перевод выполняется
// одним UPDATE в serializable транзакции
type Sweeper struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	notifier        Notifier
	reminders       ReminderScheduler
	results         ResultRecorder
	interval        time.Duration
	logger          Logger
}

// NewSweeper создает новый экземпляр процесса
func NewSweeper(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	notifier Notifier,
	reminders ReminderScheduler,
	results ResultRecorder,
	interval time.Duration,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		notifier:        notifier,
		reminders:       reminders,
		results:         results,
		interval:        interval,
		logger:          logger,
	}
}

// Run запускает цикл до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper: started with interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep выполняет один проход
func (s *Sweeper) sweep(ctx context.Context) {
	var expired []*domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		expired, err = s.reservationRepo.ExpireOverdue(txCtx, time.Now())
		return err
	})
	if err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	s.logger.Info("Sweeper: expired %d reservation(s)", len(expired))

	for _, res := range expired {
		s.results.ReservationResult("expired")
		s.reminders.Cancel(res.ID)

		event := notify.Event{RoomID: res.RoomID, UserID: res.UserID}
		if err := s.notifier.PublishReservationChange(ctx, event); err != nil {
			s.logger.Warn("Sweeper: failed to publish change for reservation id=%d: %v", res.ID, err)
		}
	}
}
