package client

import (
	"context"

	"github.com/veselink1/quick-draw/domain"
)

// Identity is the calling player's id and bearer credential.
type Identity struct {
	PlayerID string
	Name     string
	Token    string
}

// RoomStore fetches room snapshots. FetchRoom returns domain.ErrUnchanged
// when nothing changed since the given version, domain.ErrRoomNotFound when
// the room is gone, and a domain.ErrTransient-wrapped error for anything
// retryable.
type RoomStore interface {
	FetchRoom(ctx context.Context, roomID string, sinceVersion int64) (*domain.Room, error)
}

// RoomMutator issues whole-value replacing writes against a room. A write
// guarded by expectedVersion fails with domain.ErrConflict when the room
// moved on in the meantime.
type RoomMutator interface {
	ReplaceRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error
	ReplacePlayerState(ctx context.Context, roomID, playerID string, state domain.PlayerState) error
	ReplaceTurnPlayer(ctx context.Context, roomID, playerID string) error
	FreezeRoom(ctx context.Context, roomID string) error
}
