package mocks

import (
	"context"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/service"

	"github.com/stretchr/testify/mock"
)

type HostServiceMock struct {
	mock.Mock
}

func NewHostServiceMock() *HostServiceMock {
	return &HostServiceMock{}
}

func (m *HostServiceMock) Login(ctx context.Context, email string) (*service.LoginResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *HostServiceMock) Select(ctx context.Context, email, slug string) (*model.Event, error) {
	args := m.Called(ctx, email, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}
