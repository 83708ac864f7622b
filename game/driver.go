package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/veselink1/quick-draw/domain"
)

// StateWriter is the slice of the mutation client the driver needs.
type StateWriter interface {
	SetRoomState(ctx context.Context, roomID string, state domain.RoomState, expectedVersion int64) error
	SetTurnPlayer(ctx context.Context, roomID, playerID string) error
}

// Driver runs the stage machine on behalf of one client. Only the room
// owner's driver ever writes; every other client's driver is a no-op and
// the room progresses for them through polling alone.
//
// Apply holds a lock for the whole read, decide and write cycle, so a single
// driver can never have two evaluations in flight. That is the cooperative
// guarantee against double turn-advance; the server-side version check
// catches the cross-client races this cannot.
type Driver struct {
	selfID string
	writer StateWriter
	log    zerolog.Logger

	mu sync.Mutex
}

func NewDriver(selfID string, writer StateWriter, log zerolog.Logger) *Driver {
	return &Driver{selfID: selfID, writer: writer, log: log}
}

// Apply evaluates one snapshot and issues the resulting writes, if any.
// Write failures are reported but never rolled back: the next poll is the
// sole reconciliation mechanism.
func (d *Driver) Apply(ctx context.Context, room *domain.Room, now time.Time) error {
	if room.OwnerID != d.selfID {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	decision := Evaluate(room, now)

	switch decision.Kind {
	case DecideNone:
		return nil

	case DecideHalt:
		d.log.Error().
			Str("room_id", room.ID).
			Str("stage", string(room.State.Stage)).
			Msg("stage machine halted on unrecognized stage")
		return domain.ErrUnknownStage

	case DecideAdvanceStage, DecideEndTurn:
		// The guarded state write goes first. If it loses the race nothing
		// has changed; if it wins and the turn write below fails, the room
		// is in the next turn's drawing stage with a stale turn player,
		// and that player producing no image lets the drawing deadline
		// force the rotation on a later evaluation. Turn pointer first
		// would instead strand a scoring stage, which never times out.
		if err := d.writer.SetRoomState(ctx, room.ID, *decision.Next, room.Version); err != nil {
			d.log.Warn().Err(err).
				Str("room_id", room.ID).
				Int("turn", decision.Next.Turn).
				Str("stage", string(decision.Next.Stage)).
				Msg("stage transition write failed, reconciling on next poll")
			return err
		}
		if decision.NextTurnPlayerID != "" && decision.NextTurnPlayerID != room.TurnPlayerID {
			if err := d.writer.SetTurnPlayer(ctx, room.ID, decision.NextTurnPlayerID); err != nil {
				d.log.Warn().Err(err).
					Str("room_id", room.ID).
					Str("turn_player_id", decision.NextTurnPlayerID).
					Msg("turn rotation write failed, reconciling on next poll")
				return err
			}
		}
		d.log.Debug().
			Str("room_id", room.ID).
			Int("turn", decision.Next.Turn).
			Str("stage", string(decision.Next.Stage)).
			Msg("stage transition written")
		return nil
	}

	return nil
}
