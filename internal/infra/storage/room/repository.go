package room

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/pkg/dbmetrics"
	"github.com/flexbook/FlexBook-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с каталогом комнат
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория комнат
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую комнату
func (r *Repository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rooms").
		Columns("name", "capacity", "equipment", "rules").
		Values(room.Name, room.Capacity, pq.Array(room.Equipment), room.Rules).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&room.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	room.CreatedAt = createdAt.Time
	room.UpdatedAt = updatedAt.Time

	return room, nil
}

// GetByID получает комнату по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "capacity", "equipment", "rules", "created_at", "updated_at",
	).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var room domain.Room
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		pq.Array(&room.Equipment),
		&room.Rules,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan room: %v", ErrScanRow, err)
	}

	room.CreatedAt = createdAt.Time
	room.UpdatedAt = updatedAt.Time

	return &room, nil
}

// List получает все комнаты каталога
func (r *Repository) List(ctx context.Context) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "capacity", "equipment", "rules", "created_at", "updated_at",
	).
		From("rooms").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Capacity,
			pq.Array(&room.Equipment),
			&room.Rules,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		room.CreatedAt = createdAt.Time
		room.UpdatedAt = updatedAt.Time
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return rooms, nil
}

// Update обновляет данные комнаты
func (r *Repository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("rooms").
		Set("name", room.Name).
		Set("capacity", room.Capacity).
		Set("equipment", pq.Array(room.Equipment)).
		Set("rules", room.Rules).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": room.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	room.CreatedAt = createdAt.Time
	room.UpdatedAt = updatedAt.Time

	return room, nil
}

// Delete удаляет комнату из каталога
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRoomNotFound
	}

	return nil
}
