package mocks

import (
	"context"

	"go-gin-rsvp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RSVPServiceMock struct {
	mock.Mock
}

func NewRSVPServiceMock() *RSVPServiceMock {
	return &RSVPServiceMock{}
}

func (m *RSVPServiceMock) Submit(ctx context.Context, slug string, req model.CreateRSVPRequest, meta model.SubmissionMeta) (*model.RSVP, error) {
	args := m.Called(ctx, slug, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}

func (m *RSVPServiceMock) ListCounted(ctx context.Context, eventID uuid.UUID) ([]*model.RSVP, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RSVP), args.Error(1)
}

func (m *RSVPServiceMock) Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error) {
	args := m.Called(ctx, eventID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}
