package mocks

import (
	"context"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockChangeQueue struct {
	mock.Mock
}

func NewMockChangeQueue(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChangeQueue {
	m := &MockChangeQueue{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChangeQueue) PublishChange(ctx context.Context, change *model.RSVPChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockChangeQueue) SubscribeChanges(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
