package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fmtbot/fmtbot/internal/event"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Run(ctx context.Context, rc *event.RunContext, opts RunOptions) error {
	args := m.Called(ctx, rc, opts)
	return args.Error(0)
}

func (m *MockManager) Check(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	changed, _ := args.Get(0).([]string)
	return changed, args.Error(1)
}

func (m *MockManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	args := m.Called(ctx, readyChan)
	return args.Error(0)
}
