package client_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/veselink1/quick-draw/domain"
)

type MockRoomMutator struct {
	mock.Mock
}

func (m *MockRoomMutator) ReplaceRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error {
	args := m.Called(ctx, roomID, state, expectedVersion)
	return args.Error(0)
}

func (m *MockRoomMutator) ReplacePlayerState(ctx context.Context, roomID, playerID string, state domain.PlayerState) error {
	args := m.Called(ctx, roomID, playerID, state)
	return args.Error(0)
}

func (m *MockRoomMutator) ReplaceTurnPlayer(ctx context.Context, roomID, playerID string) error {
	args := m.Called(ctx, roomID, playerID)
	return args.Error(0)
}

func (m *MockRoomMutator) FreezeRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}
