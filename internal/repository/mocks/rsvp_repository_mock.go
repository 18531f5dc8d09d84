package mocks

import (
	"context"

	"go-gin-rsvp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRSVPRepository struct {
	mock.Mock
}

func NewMockRSVPRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRSVPRepository {
	m := &MockRSVPRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRSVPRepository) Create(ctx context.Context, rsvp *model.RSVP) (*model.RSVP, error) {
	args := m.Called(ctx, rsvp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RSVP, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) ListByEventID(ctx context.Context, eventID uuid.UUID, statuses []model.AttendanceStatus) ([]*model.RSVP, error) {
	args := m.Called(ctx, eventID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) Delete(ctx context.Context, eventID uuid.UUID, id uuid.UUID) (*model.RSVP, error) {
	args := m.Called(ctx, eventID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}
