package roomsync

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/veselink1/quick-draw/domain"
)

// --- RoomStore ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) FetchRoom(ctx context.Context, roomID string, sinceVersion int64) (*domain.Room, error) {
	args := m.Called(ctx, roomID, sinceVersion)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
