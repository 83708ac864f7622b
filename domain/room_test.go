package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/veselink1/quick-draw/domain"
)

func TestStateForFiltersStaleTurns(t *testing.T) {
	p := domain.Player{ID: "a", State: &domain.PlayerState{Turn: 2, Guess: "a cat"}}

	assert.Nil(t, p.StateFor(3), "submission from an earlier turn is invisible")
	assert.Nil(t, p.StateFor(1))
	assert.NotNil(t, p.StateFor(2))

	none := domain.Player{ID: "b"}
	assert.Nil(t, none.StateFor(0))
}

func TestExpired(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	state := &domain.RoomState{Timestamp: base.UnixMilli(), Timeout: 30000}

	assert.False(t, state.Expired(base))
	assert.False(t, state.Expired(base.Add(30*time.Second)), "deadline itself has not passed yet")
	assert.True(t, state.Expired(base.Add(30*time.Second+time.Millisecond)))

	unbounded := &domain.RoomState{Timestamp: base.UnixMilli(), Timeout: 0}
	assert.False(t, unbounded.Expired(base.Add(24*time.Hour)))
}

func TestStarted(t *testing.T) {
	room := &domain.Room{Frozen: false}
	assert.False(t, room.Started())

	room.Frozen = true
	assert.False(t, room.Started(), "frozen but not yet seeded")

	room.State = domain.NewRoomState(time.Now())
	assert.True(t, room.Started())
}

func TestCloneScoresIsolation(t *testing.T) {
	state := &domain.RoomState{Scores: map[string]int{"a": 5}}

	cloned := state.CloneScores()
	cloned["a"] = 999
	assert.Equal(t, 5, state.Scores["a"])

	empty := (&domain.RoomState{}).CloneScores()
	assert.NotNil(t, empty)
}
