package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-gin-rsvp/internal/cache"
	"go-gin-rsvp/internal/eventhelper"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/repository"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreviewSlug 預覽中的活動尚未有 slug
const PreviewSlug = "preview"

type EventService interface {
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	// Preview 回傳將要建立的活動，不寫入資料庫
	Preview(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	// GetPublicBySlug 來賓頁面使用，只回傳啟用中的活動 (先查 Redis)
	GetPublicBySlug(ctx context.Context, slug string) (*model.Event, error)
	// GetBySlug dashboard 使用，包含已停用的活動
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateEventRequest) (*model.Event, error)
	Deactivate(ctx context.Context, id uuid.UUID, hostEmail string) (*model.Event, error)
}

type EventServiceImpl struct {
	repo  repository.EventRepository
	cache cache.EventCache
	now   func() time.Time
}

func NewEventService(repo repository.EventRepository, eventCache cache.EventCache) EventService {
	return &EventServiceImpl{repo: repo, cache: eventCache, now: time.Now}
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.Slug = eventhelper.GenerateSlug(req.Title)

	// slug 唯一性由 DB unique index 保證，不預先查詢
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) Preview(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	event.Slug = PreviewSlug
	event.IsActive = true
	event.CreatedAt = now
	event.UpdatedAt = now
	return event, nil
}

func (s *EventServiceImpl) GetPublicBySlug(ctx context.Context, slug string) (*model.Event, error) {
	log := logger.WithComponent("event_service")

	cached, err := s.cache.Get(ctx, slug)
	if err == nil && cached.IsActive {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn("event cache get failed", zap.String("slug", slug), zap.Error(err))
	}

	event, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, event); err != nil {
		log.Warn("event cache set failed", zap.String("slug", slug), zap.Error(err))
	}
	return event, nil
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *EventServiceImpl) Update(ctx context.Context, id uuid.UUID, req model.UpdateEventRequest) (*model.Event, error) {
	params, err := toUpdateParams(req)
	if err != nil {
		return nil, err
	}
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}

	updated, err := s.repo.UpdateByHost(ctx, id, req.HostEmail, params)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.Slug)
	return updated, nil
}

func (s *EventServiceImpl) Deactivate(ctx context.Context, id uuid.UUID, hostEmail string) (*model.Event, error) {
	event, err := s.repo.DeactivateByHost(ctx, id, hostEmail)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, event.Slug)
	return event, nil
}

func (s *EventServiceImpl) invalidate(ctx context.Context, slug string) {
	if err := s.cache.Invalidate(ctx, slug); err != nil {
		logger.WithComponent("event_service").Warn("event cache invalidate failed", zap.String("slug", slug), zap.Error(err))
	}
}

func buildEvent(req model.CreateEventRequest) (*model.Event, error) {
	eventType := req.EventType
	if eventType == "" {
		eventType = model.EventTypeWedding
	}
	if !eventType.IsValid() {
		return nil, apperrors.ErrInvalidEventType
	}

	themeColor := req.ThemeColor
	if themeColor == "" {
		themeColor = model.DefaultThemeColor
	}

	attendanceOptions := compact(req.CustomAttendanceOptions)
	if len(attendanceOptions) == 0 {
		attendanceOptions = append([]string{}, model.DefaultAttendanceOptions...)
	}

	event := &model.Event{
		EventType:               eventType,
		Title:                   req.Title,
		Location:                req.Location,
		LocationURL:             optional(req.LocationURL),
		DressCode:               optional(req.DressCode),
		ProgramNotes:            optional(req.ProgramNotes),
		CoverImageURL:           optional(req.CoverImageURL),
		ThemeColor:              themeColor,
		AllowPlusOne:            req.AllowPlusOne,
		RequireMealChoice:       req.RequireMealChoice,
		MealOptions:             compact(req.MealOptions),
		CustomAttendanceOptions: attendanceOptions,
		RSVPDeadline:            req.RSVPDeadline,
		HostName:                req.HostName,
		HostEmail:               req.HostEmail,
	}
	if req.Date != nil {
		event.Date = req.Date.UTC()
	}
	return event, nil
}

// toUpdateParams host_email 只用來比對，不會出現在更新欄位中
func toUpdateParams(req model.UpdateEventRequest) (model.UpdateEventParams, error) {
	params := model.UpdateEventParams{
		Title:             req.Title,
		Location:          req.Location,
		ThemeColor:        req.ThemeColor,
		AllowPlusOne:      req.AllowPlusOne,
		RequireMealChoice: req.RequireMealChoice,
		RSVPDeadline:      req.RSVPDeadline,
		LocationURL:       nullable(req.LocationURL),
		DressCode:         nullable(req.DressCode),
		ProgramNotes:      nullable(req.ProgramNotes),
		CoverImageURL:     nullable(req.CoverImageURL),
	}

	if req.EventType != nil {
		if !req.EventType.IsValid() {
			return params, apperrors.ErrInvalidEventType
		}
		params.EventType = req.EventType
	}
	if req.Date != nil {
		d := req.Date.UTC()
		params.Date = &d
	}
	if req.MealOptions != nil {
		params.MealOptions = compact(req.MealOptions)
	}
	if req.CustomAttendanceOptions != nil {
		params.CustomAttendanceOptions = compact(req.CustomAttendanceOptions)
	}
	return params, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// nullable 未提供 → 不更新；空字串 → 清空
func nullable(s *string) **string {
	if s == nil {
		return nil
	}
	v := optional(*s)
	return &v
}

// compact 去除空白選項
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
