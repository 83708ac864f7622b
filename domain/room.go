package domain

import "time"

// Stage is one phase of a turn.
type Stage string

const (
	StageDrawing  Stage = "drawing"
	StageGuessing Stage = "guessing"
	StageScoring  Stage = "scoring"
)

// Stage timeouts in milliseconds. Scoring has no deadline: the turn player
// may take as long as they need to grade the guesses.
const (
	DrawingTimeoutMillis  int64 = 30000
	GuessingTimeoutMillis int64 = 15000
)

// Room is a point-in-time snapshot of a game room and its players.
// Snapshots are never mutated in place; every change arrives as a whole
// new snapshot with a higher Version.
type Room struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	TurnPlayerID string    `json:"turn_player_id,omitempty"`
	Frozen       bool      `json:"frozen"`
	Players      []Player  `json:"players"`
	State        *RoomState `json:"state"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Player is a member of a room. State holds the player's submission for
// the current turn only and must be read through StateFor.
type Player struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	State *PlayerState `json:"state"`
}

// RoomState is the shared per-game progress, replaced wholesale on every
// stage transition. Timestamp and Timeout are in unix milliseconds.
type RoomState struct {
	Stage     Stage            `json:"stage"`
	Turn      int              `json:"turn"`
	Timestamp int64            `json:"timestamp"`
	Timeout   int64            `json:"timeout"`
	Scores    map[string]int   `json:"scores"`
}

// PlayerState is one player's submission for a single turn. A submission
// from a previous turn is stale and must be ignored, never deleted.
type PlayerState struct {
	Turn        int            `json:"turn"`
	Image       string         `json:"image,omitempty"`
	Description string         `json:"description,omitempty"`
	Guess       string         `json:"guess,omitempty"`
	// No omitempty: an empty sheet is a valid submission and must survive
	// the wire distinct from "not submitted yet" (nil).
	Scores      map[string]int `json:"scores"`
}

// Started reports whether the owner has started the game.
func (r *Room) Started() bool {
	return r.Frozen && r.State != nil
}

// PlayerByID returns the player with the given id, if present.
func (r *Room) PlayerByID(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// TurnPlayer returns the player whose turn it currently is.
func (r *Room) TurnPlayer() (Player, bool) {
	if r.TurnPlayerID == "" {
		return Player{}, false
	}
	return r.PlayerByID(r.TurnPlayerID)
}

// StateFor returns the player's submission for the given turn, filtering
// out stale submissions left over from earlier turns.
func (p Player) StateFor(turn int) *PlayerState {
	if p.State == nil || p.State.Turn != turn {
		return nil
	}
	return p.State
}

// Deadline is the instant after which the stage is eligible for forced
// advancement.
func (s *RoomState) Deadline() time.Time {
	return time.UnixMilli(s.Timestamp + s.Timeout)
}

// Expired reports whether the stage deadline has passed. Stages with a
// non-positive timeout never expire.
func (s *RoomState) Expired(now time.Time) bool {
	if s.Timeout <= 0 {
		return false
	}
	return now.After(s.Deadline())
}

// CloneScores returns a copy of the cumulative score map, never nil.
func (s *RoomState) CloneScores() map[string]int {
	scores := make(map[string]int, len(s.Scores))
	for id, v := range s.Scores {
		scores[id] = v
	}
	return scores
}

// NewRoomState builds the initial state written when the owner starts
// the game.
func NewRoomState(now time.Time) *RoomState {
	return &RoomState{
		Stage:     StageDrawing,
		Turn:      0,
		Timestamp: now.UnixMilli(),
		Timeout:   DrawingTimeoutMillis,
		Scores:    map[string]int{},
	}
}
