package server

import (
	"errors"
	"sync"
	"time"

	"github.com/veselink1/quick-draw/domain"
)

var ErrAlreadyJoined = errors.New("already-joined")

// Store keeps rooms in memory. Every successful mutation bumps the room's
// Version, which doubles as the conditional-fetch marker and the
// optimistic concurrency token for state writes. Reads hand out deep
// copies so callers always hold immutable snapshots.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	idgen *Idgen
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*domain.Room),
		idgen: NewIdgen(),
	}
}

// CreateRoom makes a new room owned by the given player.
func (s *Store) CreateRoom(owner domain.Player) *domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	room := &domain.Room{
		ID:        s.idgen.Generate(),
		OwnerID:   owner.ID,
		Players:   []domain.Player{owner},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.rooms[room.ID] = room
	return copyRoom(room)
}

// Get returns a snapshot of the room, or domain.ErrUnchanged when the
// room hasn't moved past sinceVersion.
func (s *Store) Get(id string, sinceVersion int64) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if sinceVersion > 0 && room.Version <= sinceVersion {
		return nil, domain.ErrUnchanged
	}
	return copyRoom(room), nil
}

// List returns snapshots of all rooms.
func (s *Store) List() []*domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*domain.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, copyRoom(room))
	}
	return rooms
}

// Join adds a player to a non-frozen room.
func (s *Store) Join(id string, player domain.Player) error {
	return s.mutate(id, func(room *domain.Room) error {
		if room.Frozen {
			return domain.ErrRoomFrozen
		}
		if _, ok := room.PlayerByID(player.ID); ok {
			return ErrAlreadyJoined
		}
		room.Players = append(room.Players, player)
		return nil
	})
}

// Freeze marks the room as no longer accepting joins and hands the first
// turn to the owner.
func (s *Store) Freeze(id, callerID string) error {
	return s.mutate(id, func(room *domain.Room) error {
		if room.OwnerID != callerID {
			return domain.ErrNotOwner
		}
		room.Frozen = true
		room.TurnPlayerID = room.OwnerID
		return nil
	})
}

// SetState replaces the room's game state. A non-zero expectedVersion
// that doesn't match the room's current version means the caller decided
// from a stale snapshot; the write is rejected and nothing changes.
func (s *Store) SetState(id, callerID string, state domain.RoomState, expectedVersion int64) error {
	return s.mutate(id, func(room *domain.Room) error {
		if room.OwnerID != callerID {
			return domain.ErrNotOwner
		}
		if expectedVersion > 0 && room.Version != expectedVersion {
			return domain.ErrConflict
		}
		copied := state
		copied.Scores = cloneScoreMap(state.Scores)
		room.State = &copied
		return nil
	})
}

// SetPlayerState replaces one player's per-turn submission.
func (s *Store) SetPlayerState(id, playerID string, state domain.PlayerState) error {
	return s.mutate(id, func(room *domain.Room) error {
		for i := range room.Players {
			if room.Players[i].ID == playerID {
				copied := state
				copied.Scores = cloneScoreMap(state.Scores)
				room.Players[i].State = &copied
				return nil
			}
		}
		return domain.ErrNotInRoom
	})
}

// SetTurnPlayer points the turn at another member of the room.
func (s *Store) SetTurnPlayer(id, callerID, playerID string) error {
	return s.mutate(id, func(room *domain.Room) error {
		if room.OwnerID != callerID {
			return domain.ErrNotOwner
		}
		if _, ok := room.PlayerByID(playerID); !ok {
			return domain.ErrNotInRoom
		}
		room.TurnPlayerID = playerID
		return nil
	})
}

// Leave removes the caller from the room. The owner leaving deletes the
// room outright.
func (s *Store) Leave(id, callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.OwnerID == callerID {
		delete(s.rooms, id)
		s.idgen.Dispose(id)
		return nil
	}
	for i := range room.Players {
		if room.Players[i].ID == callerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			room.Version++
			room.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotInRoom
}

func (s *Store) mutate(id string, fn func(room *domain.Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := fn(room); err != nil {
		return err
	}
	room.Version++
	room.UpdatedAt = time.Now()
	return nil
}

func copyRoom(room *domain.Room) *domain.Room {
	copied := *room
	copied.Players = make([]domain.Player, len(room.Players))
	for i, p := range room.Players {
		copied.Players[i] = p
		if p.State != nil {
			state := *p.State
			state.Scores = cloneScoreMap(p.State.Scores)
			copied.Players[i].State = &state
		}
	}
	if room.State != nil {
		state := *room.State
		state.Scores = cloneScoreMap(room.State.Scores)
		copied.State = &state
	}
	return &copied
}

func cloneScoreMap(scores map[string]int) map[string]int {
	if scores == nil {
		return nil
	}
	cloned := make(map[string]int, len(scores))
	for id, v := range scores {
		cloned[id] = v
	}
	return cloned
}
