package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veselink1/quick-draw/domain"
	"github.com/veselink1/quick-draw/server"
)

func testClock() time.Time {
	return time.UnixMilli(1_700_000_000_000)
}

var (
	ana = domain.Player{ID: "p-ana", Name: "ana"}
	ben = domain.Player{ID: "p-ben", Name: "ben"}
	cat = domain.Player{ID: "p-cat", Name: "cat"}
)

func TestCreateAndGet(t *testing.T) {
	store := server.NewStore()

	room := store.CreateRoom(ana)
	require.Len(t, room.ID, 5)
	assert.Equal(t, "p-ana", room.OwnerID)
	assert.Equal(t, int64(1), room.Version)
	assert.False(t, room.Frozen)

	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)

	_, err = store.Get("NOPE!", 0)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestGetSinceVersion(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)

	_, err := store.Get(room.ID, room.Version)
	assert.ErrorIs(t, err, domain.ErrUnchanged)

	require.NoError(t, store.Join(room.ID, ben))

	got, err := store.Get(room.ID, room.Version)
	require.NoError(t, err)
	assert.Equal(t, room.Version+1, got.Version)
}

func TestEveryMutationBumpsVersion(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)

	require.NoError(t, store.Join(room.ID, ben))
	require.NoError(t, store.Freeze(room.ID, "p-ana"))
	require.NoError(t, store.SetState(room.ID, "p-ana", *domain.NewRoomState(testClock()), 0))
	require.NoError(t, store.SetPlayerState(room.ID, "p-ben", domain.PlayerState{Turn: 0, Guess: "a dog"}))
	require.NoError(t, store.SetTurnPlayer(room.ID, "p-ana", "p-ben"))

	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Version)
}

func TestJoinRules(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)

	assert.ErrorIs(t, store.Join(room.ID, ana), server.ErrAlreadyJoined)
	require.NoError(t, store.Join(room.ID, ben))

	require.NoError(t, store.Freeze(room.ID, "p-ana"))
	assert.ErrorIs(t, store.Join(room.ID, cat), domain.ErrRoomFrozen)
}

func TestFreezeHandsTurnToOwner(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Join(room.ID, ben))

	assert.ErrorIs(t, store.Freeze(room.ID, "p-ben"), domain.ErrNotOwner)

	require.NoError(t, store.Freeze(room.ID, "p-ana"))
	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.True(t, got.Frozen)
	assert.Equal(t, "p-ana", got.TurnPlayerID)
}

func TestSetStateVersionGuard(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Freeze(room.ID, "p-ana"))

	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)

	// A concurrent change lands between the read and the guarded write.
	require.NoError(t, store.SetPlayerState(room.ID, "p-ana", domain.PlayerState{Turn: 0, Image: "img"}))

	err = store.SetState(room.ID, "p-ana", *domain.NewRoomState(testClock()), got.Version)
	assert.ErrorIs(t, err, domain.ErrConflict)

	latest, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, latest.State, "rejected write must not apply")

	// Retrying against the current version succeeds, and so does an
	// unguarded write.
	require.NoError(t, store.SetState(room.ID, "p-ana", *domain.NewRoomState(testClock()), latest.Version))
	require.NoError(t, store.SetState(room.ID, "p-ana", *domain.NewRoomState(testClock()), 0))
}

func TestSetStateOwnerOnly(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Join(room.ID, ben))

	err := store.SetState(room.ID, "p-ben", *domain.NewRoomState(testClock()), 0)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestSetPlayerStateUnknownPlayer(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)

	err := store.SetPlayerState(room.ID, "p-ghost", domain.PlayerState{Turn: 0})
	assert.ErrorIs(t, err, domain.ErrNotInRoom)
}

func TestSetTurnPlayerRules(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Join(room.ID, ben))

	assert.ErrorIs(t, store.SetTurnPlayer(room.ID, "p-ben", "p-ben"), domain.ErrNotOwner)
	assert.ErrorIs(t, store.SetTurnPlayer(room.ID, "p-ana", "p-ghost"), domain.ErrNotInRoom)

	require.NoError(t, store.SetTurnPlayer(room.ID, "p-ana", "p-ben"))
	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "p-ben", got.TurnPlayerID)
}

func TestLeave(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Join(room.ID, ben))

	require.NoError(t, store.Leave(room.ID, "p-ben"))
	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got.Players, 1)

	assert.ErrorIs(t, store.Leave(room.ID, "p-ghost"), domain.ErrNotInRoom)

	require.NoError(t, store.Leave(room.ID, "p-ana"))
	_, err = store.Get(room.ID, 0)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := server.NewStore()
	room := store.CreateRoom(ana)
	require.NoError(t, store.Freeze(room.ID, "p-ana"))

	state := domain.NewRoomState(testClock())
	state.Scores["p-ana"] = 5
	require.NoError(t, store.SetState(room.ID, "p-ana", *state, 0))
	require.NoError(t, store.SetPlayerState(room.ID, "p-ana", domain.PlayerState{
		Turn:   0,
		Scores: map[string]int{"p-ana": 5},
	}))

	got, err := store.Get(room.ID, 0)
	require.NoError(t, err)

	// Scribbling over a snapshot must not leak into the store.
	got.State.Scores["p-ana"] = 999
	got.Players[0].State.Scores["p-ana"] = 999
	got.Players[0].Name = "mallory"

	fresh, err := store.Get(room.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.State.Scores["p-ana"])
	assert.Equal(t, 5, fresh.Players[0].State.Scores["p-ana"])
	assert.Equal(t, "ana", fresh.Players[0].Name)
}
