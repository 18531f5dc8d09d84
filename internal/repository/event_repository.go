package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-rsvp/internal/model"
	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Event, error)
	ListActiveByHostEmail(ctx context.Context, hostEmail string) ([]*model.Event, error)
	// UpdateByHost 以 id 與 host_email 同時比對；不相符時影響 0 筆並回傳 ErrEventNotFound
	UpdateByHost(ctx context.Context, id uuid.UUID, hostEmail string, params model.UpdateEventParams) (*model.Event, error)
	DeactivateByHost(ctx context.Context, id uuid.UUID, hostEmail string) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, slug, event_type, title, date, location, location_url, dress_code,
		program_notes, cover_image_url, theme_color, allow_plusone, require_meal_choice,
		meal_options, custom_attendance_options, rsvp_deadline, host_name, host_email,
		is_active, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Slug,
		&event.EventType,
		&event.Title,
		&event.Date,
		&event.Location,
		&event.LocationURL,
		&event.DressCode,
		&event.ProgramNotes,
		&event.CoverImageURL,
		&event.ThemeColor,
		&event.AllowPlusOne,
		&event.RequireMealChoice,
		&event.MealOptions,
		&event.CustomAttendanceOptions,
		&event.RSVPDeadline,
		&event.HostName,
		&event.HostEmail,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			slug, event_type, title, date, location, location_url, dress_code,
			program_notes, cover_image_url, theme_color, allow_plusone, require_meal_choice,
			meal_options, custom_attendance_options, rsvp_deadline, host_name, host_email
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Slug,
		event.EventType,
		event.Title,
		event.Date,
		event.Location,
		event.LocationURL,
		event.DressCode,
		event.ProgramNotes,
		event.CoverImageURL,
		event.ThemeColor,
		event.AllowPlusOne,
		event.RequireMealChoice,
		event.MealOptions,
		event.CustomAttendanceOptions,
		event.RSVPDeadline,
		event.HostName,
		event.HostEmail,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE slug = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, slug))
}

func (r *EventRepositoryImpl) FindActiveBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE slug = $1 AND is_active = TRUE
	`
	return scanEvent(r.pool.QueryRow(ctx, query, slug))
}

func (r *EventRepositoryImpl) ListActiveByHostEmail(ctx context.Context, hostEmail string) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE host_email = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, hostEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) UpdateByHost(ctx context.Context, id uuid.UUID, hostEmail string, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.EventType != nil {
		set("event_type", *params.EventType)
	}
	if params.Title != nil {
		set("title", *params.Title)
	}
	if params.Date != nil {
		set("date", *params.Date)
	}
	if params.Location != nil {
		set("location", *params.Location)
	}
	if params.LocationURL != nil {
		set("location_url", *params.LocationURL)
	}
	if params.DressCode != nil {
		set("dress_code", *params.DressCode)
	}
	if params.ProgramNotes != nil {
		set("program_notes", *params.ProgramNotes)
	}
	if params.CoverImageURL != nil {
		set("cover_image_url", *params.CoverImageURL)
	}
	if params.ThemeColor != nil {
		set("theme_color", *params.ThemeColor)
	}
	if params.AllowPlusOne != nil {
		set("allow_plusone", *params.AllowPlusOne)
	}
	if params.RequireMealChoice != nil {
		set("require_meal_choice", *params.RequireMealChoice)
	}
	if params.MealOptions != nil {
		set("meal_options", params.MealOptions)
	}
	if params.CustomAttendanceOptions != nil {
		set("custom_attendance_options", params.CustomAttendanceOptions)
	}
	if params.RSVPDeadline != nil {
		set("rsvp_deadline", *params.RSVPDeadline)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	set("updated_at", time.Now().UTC())

	// add id, host_email
	args = append(args, id, hostEmail)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d AND host_email = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, argPos+1, eventColumns)

	return scanEvent(r.pool.QueryRow(ctx, query, args...))
}

func (r *EventRepositoryImpl) DeactivateByHost(ctx context.Context, id uuid.UUID, hostEmail string) (*model.Event, error) {
	query := `
		UPDATE events
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2 AND host_email = $3 AND is_active = TRUE
		RETURNING ` + eventColumns

	return scanEvent(r.pool.QueryRow(ctx, query, time.Now().UTC(), id, hostEmail))
}
