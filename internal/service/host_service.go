package service

import (
	"context"
	"strings"

	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/repository"
	apperrors "go-gin-rsvp/pkg/app_errors"
)

// LoginResult 只有一場活動時 Event 有值；多場時 Events 列出供選擇
type LoginResult struct {
	Event  *model.Event
	Events []model.EventSummary
}

type HostService interface {
	Login(ctx context.Context, email string) (*LoginResult, error)
	// Select 多場活動時，確認選到的 slug 屬於此 email 且仍啟用
	Select(ctx context.Context, email, slug string) (*model.Event, error)
}

type HostServiceImpl struct {
	repo repository.EventRepository
}

func NewHostService(repo repository.EventRepository) HostService {
	return &HostServiceImpl{repo: repo}
}

func (s *HostServiceImpl) Login(ctx context.Context, email string) (*LoginResult, error) {
	events, err := s.repo.ListActiveByHostEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	switch len(events) {
	case 0:
		return nil, apperrors.ErrNoEventsForHost
	case 1:
		return &LoginResult{Event: events[0]}, nil
	}

	summaries := make([]model.EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, e.Summary())
	}
	return &LoginResult{Events: summaries}, nil
}

func (s *HostServiceImpl) Select(ctx context.Context, email, slug string) (*model.Event, error) {
	event, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !auth.SameEmail(event.HostEmail, email) {
		// 不透露活動存在與否
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}
