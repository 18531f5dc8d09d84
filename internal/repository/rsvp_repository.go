package repository

import (
	"context"
	"errors"
	"fmt"

	"go-gin-rsvp/internal/model"
	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RSVPRepository interface {
	Create(ctx context.Context, rsvp *model.RSVP) (*model.RSVP, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.RSVP, error)
	// ListByEventID 依 created_at 新到舊；statuses 為空時不過濾
	ListByEventID(ctx context.Context, eventID uuid.UUID, statuses []model.AttendanceStatus) ([]*model.RSVP, error)
	// Delete 刪除並回傳被刪除的資料列，供變更通知使用
	Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error)
}

type RSVPRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRSVPRepository(pool *pgxpool.Pool) RSVPRepository {
	return &RSVPRepositoryImpl{
		pool: pool,
	}
}

const rsvpColumns = `id, event_id, guest_name, guest_email, guest_phone, attendance_status,
		number_of_guests, has_plusone, plusone_name, meal_choices, message,
		ip_address, user_agent, created_at`

func scanRSVP(row pgx.Row) (*model.RSVP, error) {
	var rsvp model.RSVP
	err := row.Scan(
		&rsvp.ID,
		&rsvp.EventID,
		&rsvp.GuestName,
		&rsvp.GuestEmail,
		&rsvp.GuestPhone,
		&rsvp.AttendanceStatus,
		&rsvp.NumberOfGuests,
		&rsvp.HasPlusOne,
		&rsvp.PlusOneName,
		&rsvp.MealChoices,
		&rsvp.Message,
		&rsvp.IPAddress,
		&rsvp.UserAgent,
		&rsvp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRSVPNotFound
		}
		return nil, err
	}
	return &rsvp, nil
}

func (r *RSVPRepositoryImpl) Create(ctx context.Context, rsvp *model.RSVP) (*model.RSVP, error) {
	query := `
		INSERT INTO rsvps (
			event_id, guest_name, guest_email, guest_phone, attendance_status,
			number_of_guests, has_plusone, plusone_name, meal_choices, message,
			ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + rsvpColumns

	mealChoices := rsvp.MealChoices
	if mealChoices == nil {
		mealChoices = []string{}
	}

	created, err := scanRSVP(r.pool.QueryRow(ctx, query,
		rsvp.EventID,
		rsvp.GuestName,
		rsvp.GuestEmail,
		rsvp.GuestPhone,
		rsvp.AttendanceStatus,
		rsvp.NumberOfGuests,
		rsvp.HasPlusOne,
		rsvp.PlusOneName,
		mealChoices,
		rsvp.Message,
		rsvp.IPAddress,
		rsvp.UserAgent,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create rsvp: %w", err)
	}

	return created, nil
}

func (r *RSVPRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.RSVP, error) {
	query := `SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE id = $1
	`
	return scanRSVP(r.pool.QueryRow(ctx, query, id))
}

func (r *RSVPRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID, statuses []model.AttendanceStatus) ([]*model.RSVP, error) {
	query := `SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1
	`
	args := []interface{}{eventID}

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query += ` AND attendance_status = ANY($2)`
		args = append(args, values)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rsvps := make([]*model.RSVP, 0)

	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rsvps, nil
}

func (r *RSVPRepositoryImpl) Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error) {
	query := `
		DELETE FROM rsvps
		WHERE id = $1 AND event_id = $2
		RETURNING ` + rsvpColumns

	return scanRSVP(r.pool.QueryRow(ctx, query, id, eventID))
}
