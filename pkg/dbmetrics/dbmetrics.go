package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/flexbook/FlexBook-BookingService/pkg/metrics"
)

// DBExecutor минимальный интерфейс исполнителя запросов.
// Ему удовлетворяют *sql.DB, *sql.Tx и обёртки этого пакета.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor исполнитель запросов внутри транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type txCtxKey struct{}

// WithTx кладет активную транзакцию в контекст.
// Репозитории через GetExecutor автоматически начинают её использовать.
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она там есть,
// иначе переданный по умолчанию исполнитель
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txCtxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction проверяет, есть ли в контексте активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(TxExecutor)
	return ok
}

// DB обёртка над *sql.DB, измеряющая длительность запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
	service string
}

// Wrap оборачивает соединение с БД сбором метрик запросов
func Wrap(db *sql.DB, m *metrics.Metrics, service string) *DB {
	return &DB{db: db, metrics: m, service: service}
}

// WrapWithDefault оборачивает соединение и запускает периодический сбор
// статистики пула соединений до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, service string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m, service)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.SetDBStats(db.Stats())
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

// ExecContext выполняет запрос с измерением длительности
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("exec", time.Since(start), err)
	return res, err
}

// QueryContext выполняет запрос с измерением длительности
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("query", time.Since(start), err)
	return rows, err
}

// QueryRowContext выполняет запрос одной строки с измерением длительности.
// Ошибка выполнения у *sql.Row проявляется только на Scan, поэтому здесь
// фиксируется только длительность.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("query_row", time.Since(start), nil)
	return row
}

// BeginTx начинает транзакцию на обёрнутом соединении
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	return d.db.BeginTx(ctx, opts)
}
