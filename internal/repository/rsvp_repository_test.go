package repository_test

import (
	"context"
	"testing"
	"time"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/repository"
	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEventForRSVP(t *testing.T, repo repository.EventRepository) *model.Event {
	t.Helper()
	event, err := repo.Create(context.Background(), newTestEvent("RSVP Event", "host@example.com"))
	require.NoError(t, err)
	return event
}

func TestRSVPRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := getTestDB(t)
	event := createEventForRSVP(t, repository.NewEventRepository(db))
	repo := repository.NewRSVPRepository(db)

	email := "guest@example.com"
	ip := "127.0.0.1"
	created, err := repo.Create(ctx, &model.RSVP{
		EventID:          event.ID,
		GuestName:        "Guest",
		GuestEmail:       &email,
		AttendanceStatus: model.AttendanceAttending,
		NumberOfGuests:   2,
		IPAddress:        &ip,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, event.ID, created.EventID)
	assert.Equal(t, 2, created.NumberOfGuests)
	assert.Equal(t, []string{}, created.MealChoices)
	require.NotNil(t, created.GuestEmail)
	assert.Equal(t, email, *created.GuestEmail)
	assert.Nil(t, created.GuestPhone)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRSVPRepository_Create_UnknownEvent(t *testing.T) {
	repo := repository.NewRSVPRepository(getTestDB(t))

	_, err := repo.Create(context.Background(), &model.RSVP{
		EventID:          uuid.New(),
		GuestName:        "Ghost",
		AttendanceStatus: model.AttendanceAttending,
		NumberOfGuests:   1,
	})

	assert.Error(t, err)
}

func TestRSVPRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	db := getTestDB(t)
	event := createEventForRSVP(t, repository.NewEventRepository(db))
	repo := repository.NewRSVPRepository(db)

	statuses := []model.AttendanceStatus{
		model.AttendanceAttending,
		model.AttendancePending,
		model.AttendanceNotAttending,
	}
	var ids []uuid.UUID
	for _, s := range statuses {
		r, err := repo.Create(ctx, &model.RSVP{
			EventID:          event.ID,
			GuestName:        string(s),
			AttendanceStatus: s,
			NumberOfGuests:   1,
		})
		require.NoError(t, err)
		ids = append(ids, r.ID)
		time.Sleep(10 * time.Millisecond)
	}

	t.Run("CountedStatusesNewestFirst", func(t *testing.T) {
		rows, err := repo.ListByEventID(ctx, event.ID, model.CountedStatuses)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, ids[2], rows[0].ID)
		assert.Equal(t, ids[0], rows[1].ID)
	})

	t.Run("AllStatuses", func(t *testing.T) {
		rows, err := repo.ListByEventID(ctx, event.ID, nil)

		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("OtherEvent", func(t *testing.T) {
		rows, err := repo.ListByEventID(ctx, uuid.New(), nil)

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestRSVPRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := getTestDB(t)
	event := createEventForRSVP(t, repository.NewEventRepository(db))
	repo := repository.NewRSVPRepository(db)

	created, err := repo.Create(ctx, &model.RSVP{
		EventID:          event.ID,
		GuestName:        "Leaving",
		AttendanceStatus: model.AttendanceAttending,
		NumberOfGuests:   1,
	})
	require.NoError(t, err)

	_, err = repo.Delete(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrRSVPNotFound)

	deleted, err := repo.Delete(ctx, event.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrRSVPNotFound)
}
