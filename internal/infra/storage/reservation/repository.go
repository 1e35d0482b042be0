package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/pkg/dbmetrics"
	"github.com/flexbook/FlexBook-BookingService/pkg/psqlbuilder"
)

const reservationColumns = "id, room_id, user_id, start_at, end_at, status, created_at, updated_at"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns("room_id", "user_id", "start_at", "end_at", "status").
		Values(res.RoomID, res.UserID, res.StartAt, res.EndAt, res.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "room_id", "user_id", "start_at", "end_at", "status", "created_at", "updated_at",
	).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// FindOverlapping получает подтверждённые бронирования комнаты,
// пересекающие полуоткрытый интервал [start, end).
// Граничные случаи (end_at == start) пересечением не считаются.
// При редактировании excludeID исключает собственное бронирование из проверки.
func (r *Repository) FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "room_id", "user_id", "start_at", "end_at", "status", "created_at", "updated_at",
	).
		From("reservations").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetByUserID получает бронирования пользователя с названием комнаты.
// Опционально фильтрует по статусу. Сортировка по началу (раньше - первые).
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.ReservationWithRoom, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"r.id", "r.room_id", "r.user_id", "r.start_at", "r.end_at", "r.status",
		"r.created_at", "r.updated_at", "COALESCE(rm.name, '')",
	).
		From("reservations r").
		LeftJoin("rooms rm ON rm.id = r.room_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.start_at ASC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ReservationWithRoom, 0)
	for rows.Next() {
		var item domain.ReservationWithRoom
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.RoomID,
			&item.UserID,
			&item.StartAt,
			&item.EndAt,
			&item.Status,
			&createdAt,
			&updatedAt,
			&item.RoomName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByUserID - scan row: %v", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ListUpcoming получает все подтверждённые бронирования, которые ещё не
// закончились. Используется для аугментации листинга комнат
// (текущее и ближайшее бронирование каждой комнаты).
func (r *Repository) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "room_id", "user_id", "start_at", "end_at", "status", "created_at", "updated_at",
	).
		From("reservations").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Gt{"end_at": now}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcoming - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcoming - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateInterval обновляет интервал существующего бронирования (путь
// редактирования). Новый токен при этом не выпускается.
func (r *Repository) UpdateInterval(ctx context.Context, id int64, start, end time.Time) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("start_at", start).
		Set("end_at", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateInterval - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateInterval - execute update: %v", ErrExecQuery, err)
	}

	return res, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ExpireOverdue переводит в expired подтверждённые бронирования,
// закончившиеся к моменту now. Возвращает затронутые бронирования,
// чтобы разослать по ним уведомления об изменении.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.LtOrEq{"end_at": now}).
		Suffix("RETURNING " + reservationColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpireOverdue - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireOverdue - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// scanReservation сканирует одну строку в бронирование
func scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.RoomID,
		&res.UserID,
		&res.StartAt,
		&res.EndAt,
		&res.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.RoomID,
			&res.UserID,
			&res.StartAt,
			&res.EndAt,
			&res.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
