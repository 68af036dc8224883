package mocks

import (
	"github.com/stretchr/testify/mock"

	"vendora/internal/port"
)

// MockImageProcessor is a mock implementation of port.ImageProcessor.
type MockImageProcessor struct {
	mock.Mock
}

func (m *MockImageProcessor) Process(buf []byte, opts port.ImageProcessOptions) ([]byte, error) {
	args := m.Called(buf, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// PassthroughImageProcessor returns the input buffer unchanged. Handy when a
// test only cares about storage behavior.
type PassthroughImageProcessor struct{}

func (PassthroughImageProcessor) Process(buf []byte, opts port.ImageProcessOptions) ([]byte, error) {
	return buf, nil
}
