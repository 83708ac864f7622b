package game

import (
	"time"

	"github.com/veselink1/quick-draw/domain"
)

// Guess is one non-turn player's answer for the current turn.
type Guess struct {
	PlayerID string
	Name     string
	Guess    string
}

// View is what a rendering layer needs to draw the sub-screen for the
// observed stage. It is recomputed from scratch on every snapshot change.
type View struct {
	Stage            domain.Stage
	Turn             int
	RemainingSeconds int
	IsTurnPlayer     bool
	// Image is empty when the turn player never produced one. That is a
	// legitimate outcome of a forced advance, not an error.
	Image       string
	Description string
	Guesses     []Guess
	Scores      map[string]int
}

// BuildView derives the player-facing view of a started room for selfID.
func BuildView(room *domain.Room, selfID string, now time.Time) (View, bool) {
	if !room.Started() {
		return View{}, false
	}
	state := room.State

	view := View{
		Stage:        state.Stage,
		Turn:         state.Turn,
		IsTurnPlayer: room.TurnPlayerID == selfID,
		Scores:       state.CloneScores(),
	}

	if state.Timeout > 0 {
		remaining := state.Deadline().Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		view.RemainingSeconds = int(remaining / time.Second)
	}

	if turnPlayer, ok := room.TurnPlayer(); ok {
		if sub := turnPlayer.StateFor(state.Turn); sub != nil {
			view.Image = sub.Image
			// The description is the answer. Guessers only see it once
			// the guessing stage is over.
			if view.IsTurnPlayer || state.Stage == domain.StageScoring {
				view.Description = sub.Description
			}
		}
	}

	for _, p := range room.Players {
		if p.ID == room.TurnPlayerID {
			continue
		}
		if sub := p.StateFor(state.Turn); sub != nil && sub.Guess != "" {
			view.Guesses = append(view.Guesses, Guess{PlayerID: p.ID, Name: p.Name, Guess: sub.Guess})
		}
	}

	return view, true
}
