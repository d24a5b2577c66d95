package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, extHint string) (string, int64, error) {
	args := m.Called(ctx, r, extHint)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(int64), args.Error(2)
}
