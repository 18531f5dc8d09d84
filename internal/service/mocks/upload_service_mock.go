package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type UploadServiceMock struct {
	mock.Mock
}

func NewUploadServiceMock() *UploadServiceMock {
	return &UploadServiceMock{}
}

func (m *UploadServiceMock) UploadCoverImage(ctx context.Context, data []byte, declaredType string) (string, error) {
	args := m.Called(ctx, data, declaredType)
	return args.String(0), args.Error(1)
}
