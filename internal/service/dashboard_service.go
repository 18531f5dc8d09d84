package service

import (
	"context"
	"io"
	"strings"

	"go-gin-rsvp/internal/dashboard"
	"go-gin-rsvp/internal/export"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/qrcode"
	"go-gin-rsvp/internal/realtime"

	"github.com/google/uuid"
)

// DashboardSnapshot dashboard 初始畫面
type DashboardSnapshot struct {
	Event     *model.Event    `json:"event"`
	RSVPs     []*model.RSVP   `json:"rsvps"`
	Stats     dashboard.Stats `json:"stats"`
	InviteURL string          `json:"invite_url"`
}

type DashboardService interface {
	Snapshot(ctx context.Context, event *model.Event) (*DashboardSnapshot, error)
	// Subscribe 訂閱該活動的即時異動；回傳的函式用來取消訂閱
	Subscribe(eventID uuid.UUID) (<-chan model.RSVPChange, func())
	ExportCSV(ctx context.Context, event *model.Event, w io.Writer) error
	QRCode(event *model.Event, size int) ([]byte, error)
	InviteURL(event *model.Event) string
	DeleteRSVP(ctx context.Context, event *model.Event, id uuid.UUID) (*model.RSVP, error)
}

type DashboardServiceImpl struct {
	rsvpService RSVPService
	hub         realtime.Hub
	baseURL     string
}

func NewDashboardService(rsvpService RSVPService, hub realtime.Hub, baseURL string) DashboardService {
	return &DashboardServiceImpl{
		rsvpService: rsvpService,
		hub:         hub,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (s *DashboardServiceImpl) Snapshot(ctx context.Context, event *model.Event) (*DashboardSnapshot, error) {
	rows, err := s.rsvpService.ListCounted(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return &DashboardSnapshot{
		Event:     event,
		RSVPs:     rows,
		Stats:     dashboard.ComputeStats(rows),
		InviteURL: s.InviteURL(event),
	}, nil
}

func (s *DashboardServiceImpl) Subscribe(eventID uuid.UUID) (<-chan model.RSVPChange, func()) {
	return s.hub.Subscribe(eventID)
}

// ExportCSV 匯出資料庫中目前的資料，而不是畫面上的狀態
func (s *DashboardServiceImpl) ExportCSV(ctx context.Context, event *model.Event, w io.Writer) error {
	rows, err := s.rsvpService.ListCounted(ctx, event.ID)
	if err != nil {
		return err
	}
	return export.WriteRSVPCSV(w, dashboard.Filter(rows))
}

func (s *DashboardServiceImpl) QRCode(event *model.Event, size int) ([]byte, error) {
	return qrcode.PNG(s.InviteURL(event), size)
}

func (s *DashboardServiceImpl) InviteURL(event *model.Event) string {
	return s.baseURL + "/rsvp/" + event.Slug
}

func (s *DashboardServiceImpl) DeleteRSVP(ctx context.Context, event *model.Event, id uuid.UUID) (*model.RSVP, error) {
	return s.rsvpService.Delete(ctx, event.ID, id)
}
