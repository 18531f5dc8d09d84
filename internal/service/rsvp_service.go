package service

import (
	"context"
	"time"

	"go-gin-rsvp/internal/eventhelper"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/queue"
	"go-gin-rsvp/internal/repository"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RSVPService interface {
	// Submit 來賓送出回覆。欄位限制由 request binding 負責，這裡不再驗證。
	Submit(ctx context.Context, slug string, req model.CreateRSVPRequest, meta model.SubmissionMeta) (*model.RSVP, error)
	// ListCounted dashboard 使用：只列 attending / not_attending，新到舊
	ListCounted(ctx context.Context, eventID uuid.UUID) ([]*model.RSVP, error)
	Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error)
}

type RSVPServiceImpl struct {
	repo         repository.RSVPRepository
	eventService EventService
	changeQueue  queue.ChangeQueue
	now          func() time.Time
}

func NewRSVPService(repo repository.RSVPRepository, eventService EventService, changeQueue queue.ChangeQueue) RSVPService {
	return &RSVPServiceImpl{
		repo:         repo,
		eventService: eventService,
		changeQueue:  changeQueue,
		now:          time.Now,
	}
}

func (s *RSVPServiceImpl) Submit(ctx context.Context, slug string, req model.CreateRSVPRequest, meta model.SubmissionMeta) (*model.RSVP, error) {
	// 寫入前直接讀 DB：快取可能還留著剛停用的活動
	event, err := s.eventService.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.ErrEventNotFound
	}
	if !eventhelper.IsRSVPOpen(event, s.now()) {
		return nil, apperrors.ErrRSVPClosed
	}

	rsvp := &model.RSVP{
		EventID:          event.ID,
		GuestName:        req.GuestName,
		GuestEmail:       optional(req.GuestEmail),
		GuestPhone:       optional(req.GuestPhone),
		AttendanceStatus: req.AttendanceStatus,
		NumberOfGuests:   req.NumberOfGuests,
		HasPlusOne:       req.HasPlusOne,
		PlusOneName:      optional(req.PlusOneName),
		MealChoices:      compact(req.MealChoices),
		Message:          optional(req.Message),
		IPAddress:        optional(meta.IPAddress),
		UserAgent:        optional(meta.UserAgent),
	}

	created, err := s.repo.Create(ctx, rsvp)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.ChangeInserted, created)
	return created, nil
}

func (s *RSVPServiceImpl) ListCounted(ctx context.Context, eventID uuid.UUID) ([]*model.RSVP, error) {
	return s.repo.ListByEventID(ctx, eventID, model.CountedStatuses)
}

func (s *RSVPServiceImpl) Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error) {
	deleted, err := s.repo.Delete(ctx, eventID, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.ChangeDeleted, deleted)
	return deleted, nil
}

// publish 通知失敗只記錄，不影響已完成的寫入
func (s *RSVPServiceImpl) publish(ctx context.Context, changeType model.ChangeType, row *model.RSVP) {
	change := &model.RSVPChange{Type: changeType, EventID: row.EventID, Row: row}
	if err := s.changeQueue.PublishChange(context.WithoutCancel(ctx), change); err != nil {
		logger.WithComponent("rsvp_service").Error("publish rsvp change failed",
			zap.String("type", string(changeType)),
			zap.String("event_id", row.EventID.String()),
			zap.String("rsvp_id", row.ID.String()),
			zap.Error(err),
		)
	}
}
