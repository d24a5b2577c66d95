package mocks

import (
	"context"
	"io"

	"vidapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType, title, description, tags string) (*model.Video, error) {
	args := m.Called(ctx, r, originalFilename, contentType, title, description, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoService) List(ctx context.Context, q string) ([]model.Video, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoService) View(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoService) Stream(ctx context.Context, filename string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}
