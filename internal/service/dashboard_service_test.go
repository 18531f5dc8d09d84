package service_test

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"
	"time"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/realtime"
	"go-gin-rsvp/internal/service"
	serviceMocks "go-gin-rsvp/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardRows(eventID uuid.UUID) []*model.RSVP {
	created := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	return []*model.RSVP{
		{ID: uuid.New(), EventID: eventID, GuestName: "Ann", AttendanceStatus: model.AttendanceAttending, NumberOfGuests: 2, CreatedAt: created},
		{ID: uuid.New(), EventID: eventID, GuestName: "Bob", AttendanceStatus: model.AttendanceNotAttending, NumberOfGuests: 1, CreatedAt: created},
	}
}

func TestDashboardService_Snapshot(t *testing.T) {
	ctx := context.Background()
	rsvpService := serviceMocks.NewRSVPServiceMock()
	event := &model.Event{ID: uuid.New(), Slug: "party-abcd1234"}
	rows := newDashboardRows(event.ID)
	rsvpService.On("ListCounted", ctx, event.ID).Return(rows, nil).Once()

	dashboardService := service.NewDashboardService(rsvpService, realtime.NewHub(0), "https://rsvp.example.com/")
	snapshot, err := dashboardService.Snapshot(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, "https://rsvp.example.com/rsvp/party-abcd1234", snapshot.InviteURL)
	assert.Len(t, snapshot.RSVPs, 2)
	assert.Equal(t, 2, snapshot.Stats.TotalResponses)
	assert.Equal(t, 2, snapshot.Stats.AttendingGuests)
	assert.Equal(t, 1, snapshot.Stats.NotAttendingGuests)
	assert.Equal(t, 3, snapshot.Stats.TotalGuests)
	rsvpService.AssertExpectations(t)
}

func TestDashboardService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	rsvpService := serviceMocks.NewRSVPServiceMock()
	event := &model.Event{ID: uuid.New(), Slug: "party-abcd1234"}
	rsvpService.On("ListCounted", ctx, event.ID).Return(newDashboardRows(event.ID), nil).Once()

	var buf bytes.Buffer
	err := service.NewDashboardService(rsvpService, realtime.NewHub(0), "http://localhost:8080").ExportCSV(ctx, event, &buf)

	require.NoError(t, err)
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Name,Status,Guests,Contact,Message,Submitted At", lines[0])
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"Ann","Attending","2"`))
}

func TestDashboardService_QRCode(t *testing.T) {
	dashboardService := service.NewDashboardService(serviceMocks.NewRSVPServiceMock(), realtime.NewHub(0), "http://localhost:8080")

	data, err := dashboardService.QRCode(&model.Event{Slug: "party-abcd1234"}, 240)

	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
}

func TestDashboardService_Subscribe(t *testing.T) {
	hub := realtime.NewHub(4)
	dashboardService := service.NewDashboardService(serviceMocks.NewRSVPServiceMock(), hub, "http://localhost:8080")
	eventID := uuid.New()

	ch, unsubscribe := dashboardService.Subscribe(eventID)
	defer unsubscribe()

	hub.Broadcast(model.RSVPChange{Type: model.ChangeInserted, EventID: eventID, Row: &model.RSVP{ID: uuid.New()}})

	select {
	case change := <-ch:
		assert.Equal(t, model.ChangeInserted, change.Type)
	case <-time.After(time.Second):
		t.Fatal("timeout 未收到異動")
	}
}
