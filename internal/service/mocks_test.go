package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/analysis"
	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Describe(ctx context.Context, imageData []byte, mimeType, prompt string) analysis.Result {
	args := m.Called(ctx, imageData, mimeType, prompt)
	return args.Get(0).(analysis.Result)
}

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMirror) Upload(ctx context.Context, localPath, fileName, contentType string) *domain.CloudMirrorResult {
	args := m.Called(ctx, localPath, fileName, contentType)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.CloudMirrorResult)
}

func (m *MockMirror) List(ctx context.Context) ([]domain.CloudImage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CloudImage), args.Error(1)
}

func (m *MockMirror) Info(ctx context.Context, remoteID string) (*domain.CloudImage, error) {
	args := m.Called(ctx, remoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloudImage), args.Error(1)
}

func (m *MockMirror) Delete(ctx context.Context, remoteID string) error {
	args := m.Called(ctx, remoteID)
	return args.Error(0)
}
