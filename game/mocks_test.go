package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/veselink1/quick-draw/domain"
)

// --- StateWriter ---

type MockStateWriter struct {
	mock.Mock
}

func (m *MockStateWriter) SetRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error {
	args := m.Called(ctx, roomID, state, expectedVersion)
	return args.Error(0)
}

func (m *MockStateWriter) SetTurnPlayer(ctx context.Context, roomID, playerID string) error {
	args := m.Called(ctx, roomID, playerID)
	return args.Error(0)
}
