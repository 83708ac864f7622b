package game

import (
	"time"

	"github.com/veselink1/quick-draw/domain"
)

type DecisionKind int

const (
	// DecideNone means no transition is due yet.
	DecideNone DecisionKind = iota
	// DecideAdvanceStage moves the game to the next stage of the same turn.
	DecideAdvanceStage
	// DecideEndTurn folds scores, rotates the turn player and starts the
	// next turn's drawing stage.
	DecideEndTurn
	// DecideHalt is a defensive stop on a state the machine does not
	// recognize. It is a programming error, not a game condition.
	DecideHalt
)

// Decision is the outcome of evaluating one room snapshot. Next is a full
// replacement RoomState so that two racing evaluations of the same snapshot
// converge to the same fixed point instead of compounding.
type Decision struct {
	Kind             DecisionKind
	Next             *domain.RoomState
	NextTurnPlayerID string
}

// Evaluate maps (snapshot, now) to the transition that is due, if any.
// It is pure: no clocks, no writes, no hidden state. Only the room owner
// should act on the result; everyone else renders the current stage.
func Evaluate(room *domain.Room, now time.Time) Decision {
	if !room.Started() {
		return Decision{Kind: DecideNone}
	}

	state := room.State
	turnPlayer, _ := room.TurnPlayer()

	switch state.Stage {
	case domain.StageDrawing:
		return evaluateDrawing(room, state, turnPlayer, now)
	case domain.StageGuessing:
		return evaluateGuessing(room, state, now)
	case domain.StageScoring:
		return evaluateScoring(room, state, turnPlayer, now)
	default:
		return Decision{Kind: DecideHalt}
	}
}

func evaluateDrawing(room *domain.Room, state *domain.RoomState, turnPlayer domain.Player, now time.Time) Decision {
	if sub := turnPlayer.StateFor(state.Turn); sub != nil && sub.Image != "" {
		return Decision{
			Kind: DecideAdvanceStage,
			Next: &domain.RoomState{
				Stage:     domain.StageGuessing,
				Turn:      state.Turn,
				Timestamp: now.UnixMilli(),
				Timeout:   domain.GuessingTimeoutMillis,
				Scores:    state.CloneScores(),
			},
		}
	}
	if state.Expired(now) {
		// Nothing was drawn in time: skip the whole turn with no score
		// change. The write bumps Turn, so the next evaluation sees a
		// fresh deadline rather than re-firing this forced advance.
		return endTurn(room, state, nil, now)
	}
	return Decision{Kind: DecideNone}
}

func evaluateGuessing(room *domain.Room, state *domain.RoomState, now time.Time) Decision {
	needed := len(room.Players) - 1
	submitted := 0
	for _, p := range room.Players {
		if p.ID == room.TurnPlayerID {
			continue
		}
		if sub := p.StateFor(state.Turn); sub != nil && sub.Guess != "" {
			submitted++
		}
	}
	if submitted >= needed || state.Expired(now) {
		return Decision{
			Kind: DecideAdvanceStage,
			Next: &domain.RoomState{
				Stage:     domain.StageScoring,
				Turn:      state.Turn,
				Timestamp: now.UnixMilli(),
				Timeout:   0,
				Scores:    state.CloneScores(),
			},
		}
	}
	return Decision{Kind: DecideNone}
}

func evaluateScoring(room *domain.Room, state *domain.RoomState, turnPlayer domain.Player, now time.Time) Decision {
	sub := turnPlayer.StateFor(state.Turn)
	if sub == nil || sub.Scores == nil {
		return Decision{Kind: DecideNone}
	}
	return endTurn(room, state, sub.Scores, now)
}

func endTurn(room *domain.Room, state *domain.RoomState, deltas map[string]int, now time.Time) Decision {
	return Decision{
		Kind:             DecideEndTurn,
		NextTurnPlayerID: NextTurnPlayer(room.Players, room.TurnPlayerID),
		Next: &domain.RoomState{
			Stage:     domain.StageDrawing,
			Turn:      state.Turn + 1,
			Timestamp: now.UnixMilli(),
			Timeout:   domain.DrawingTimeoutMillis,
			Scores:    FoldScores(state.Scores, deltas, room.Players),
		},
	}
}
