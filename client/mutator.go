package client

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/veselink1/quick-draw/domain"
	"github.com/veselink1/quick-draw/drawing"
)

// Mutator wraps a RoomMutator with the submission helpers the game flow
// needs. Every call is a full-value replace and fire-and-forget from the
// caller's perspective: a failure is reported and logged, local belief is
// never rolled back, and the next poll observing (or not observing) the
// new value is the only confirmation.
type Mutator struct {
	api  RoomMutator
	self Identity
	log  zerolog.Logger
}

func NewMutator(api RoomMutator, self Identity, log zerolog.Logger) *Mutator {
	return &Mutator{api: api, self: self, log: log}
}

// StartGame freezes the room and writes the initial drawing state. Only
// meaningful for the room owner.
//
// The seed write is deliberately unguarded: a concurrent join between the
// caller's snapshot and the freeze would make any expected version stale,
// and a freeze that succeeds without its seed leaves the room stuck
// (frozen, no state, nothing for the stage machine to act on). The seed
// is a fixed turn-zero state, so writing it unguarded is idempotent.
func (m *Mutator) StartGame(ctx context.Context, room *domain.Room) error {
	if err := m.api.FreezeRoom(ctx, room.ID); err != nil {
		m.log.Warn().Err(err).Str("room_id", room.ID).Msg("freeze failed")
		return err
	}
	return m.SeedState(ctx, room.ID)
}

// SeedState writes the initial drawing state. Used by StartGame and as
// the recovery path for a room observed frozen but never seeded.
func (m *Mutator) SeedState(ctx context.Context, roomID string) error {
	return m.SetRoomState(ctx, roomID, *domain.NewRoomState(time.Now()), 0)
}

// SetRoomState replaces the room's shared game state.
func (m *Mutator) SetRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error {
	err := m.api.ReplaceRoomState(ctx, roomID, state, expectedVersion)
	if err != nil {
		m.log.Warn().Err(err).Str("room_id", roomID).Int("turn", state.Turn).Msg("room state write failed")
	}
	return err
}

// SetTurnPlayer replaces the room's turn pointer.
func (m *Mutator) SetTurnPlayer(ctx context.Context, roomID, playerID string) error {
	err := m.api.ReplaceTurnPlayer(ctx, roomID, playerID)
	if err != nil {
		m.log.Warn().Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("turn write failed")
	}
	return err
}

// SubmitDrawing publishes the caller's image for the current turn.
func (m *Mutator) SubmitDrawing(ctx context.Context, room *domain.Room, image, description string) error {
	if !room.Started() {
		return domain.ErrNotStarted
	}
	return m.replaceOwnState(ctx, room.ID, domain.PlayerState{
		Turn:        room.State.Turn,
		Image:       image,
		Description: description,
	})
}

// SubmitCanvas compresses raw canvas save data and publishes it as the
// caller's drawing.
func (m *Mutator) SubmitCanvas(ctx context.Context, room *domain.Room, data drawing.SaveData, description string) error {
	image, err := drawing.Compress(data)
	if err != nil {
		return err
	}
	return m.SubmitDrawing(ctx, room, image, description)
}

// SubmitGuess publishes the caller's guess for the current turn.
func (m *Mutator) SubmitGuess(ctx context.Context, room *domain.Room, guess string) error {
	if !room.Started() {
		return domain.ErrNotStarted
	}
	return m.replaceOwnState(ctx, room.ID, domain.PlayerState{
		Turn:  room.State.Turn,
		Guess: guess,
	})
}

// SubmitScores publishes the turn player's score sheet for the current
// turn. An empty map is a valid sheet: it ends the turn with no points.
func (m *Mutator) SubmitScores(ctx context.Context, room *domain.Room, scores map[string]int) error {
	if !room.Started() {
		return domain.ErrNotStarted
	}
	if scores == nil {
		scores = map[string]int{}
	}
	return m.replaceOwnState(ctx, room.ID, domain.PlayerState{
		Turn:   room.State.Turn,
		Scores: scores,
	})
}

func (m *Mutator) replaceOwnState(ctx context.Context, roomID string, state domain.PlayerState) error {
	err := m.api.ReplacePlayerState(ctx, roomID, m.self.PlayerID, state)
	if err != nil {
		m.log.Warn().Err(err).Str("room_id", roomID).Int("turn", state.Turn).Msg("player state write failed")
	}
	return err
}
