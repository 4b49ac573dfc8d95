package detector

import (
	"context"
	"image"

	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Detect(ctx context.Context, img *image.RGBA) ([]Face, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Face), args.Error(1)
}

func (m *MockSession) Describe(ctx context.Context) (Description, error) {
	args := m.Called(ctx)
	return args.Get(0).(Description), args.Error(1)
}
