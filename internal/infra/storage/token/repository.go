package token

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/pkg/dbmetrics"
	"github.com/flexbook/FlexBook-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с токенами доступа.
// Токен создается ровно один раз при создании бронирования
// и никогда не изменяется.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория токенов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает токен доступа для бронирования
func (r *Repository) Create(ctx context.Context, tok *domain.AccessToken) (*domain.AccessToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("access_tokens").
		Columns("reservation_id", "token", "valid_to").
		Values(tok.ReservationID, tok.Token, tok.ValidTo).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tok.ID, &createdAt)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tok.CreatedAt = createdAt.Time

	return tok, nil
}

// GetByReservationID получает токен по ID бронирования
func (r *Repository) GetByReservationID(ctx context.Context, reservationID int64) (*domain.AccessToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "reservation_id", "token", "valid_to", "created_at",
	).
		From("access_tokens").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - build select query: %v", ErrBuildQuery, err)
	}

	var tok domain.AccessToken
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tok.ID,
		&tok.ReservationID,
		&tok.Token,
		&tok.ValidTo,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - scan token: %v", ErrScanRow, err)
	}

	tok.CreatedAt = createdAt.Time

	return &tok, nil
}
