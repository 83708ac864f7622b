package roomsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/veselink1/quick-draw/client"
	"github.com/veselink1/quick-draw/domain"
)

// DefaultPeriod is the room-level poll interval.
const DefaultPeriod = time.Second

// Event is one synchronizer emission: a fresh snapshot or a fetch error.
// Unchanged responses are suppressed and produce no event at all.
type Event struct {
	Room *domain.Room
	Err  error
}

// Synchronizer polls one room at a fixed period and surfaces snapshots and
// errors to a single consumer. It never issues two fetches at once: a tick
// that fires while a fetch is still in flight is skipped. Transient errors
// are surfaced without terminating the loop; a missing room is terminal.
type Synchronizer struct {
	store   client.RoomStore
	roomID  string
	period  time.Duration
	tickers PeriodicTickerChannelCreator
	log     zerolog.Logger

	events   chan Event
	fetching atomic.Bool

	mu     sync.RWMutex
	latest *domain.Room
}

func NewSynchronizer(store client.RoomStore, roomID string, period time.Duration, tickers PeriodicTickerChannelCreator, log zerolog.Logger) *Synchronizer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Synchronizer{
		store:   store,
		roomID:  roomID,
		period:  period,
		tickers: tickers,
		log:     log,
		events:  make(chan Event, 16),
	}
}

// Events is the stream of snapshots and errors. Closed when Run returns.
func (s *Synchronizer) Events() <-chan Event {
	return s.events
}

// Snapshot returns the last successfully fetched room, if any.
func (s *Synchronizer) Snapshot() *domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Fetching reports whether a fetch is currently in flight.
func (s *Synchronizer) Fetching() bool {
	return s.fetching.Load()
}

type fetchResult struct {
	room *domain.Room
	err  error
}

// Run polls until the context is cancelled or the room disappears. The
// first fetch is issued immediately, then one per tick.
func (s *Synchronizer) Run(ctx context.Context) error {
	defer close(s.events)

	tick := s.tickers.Create(s.period)
	results := make(chan fetchResult, 1)

	var since int64
	s.startFetch(ctx, since, results)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tick:
			if s.fetching.Load() {
				// Previous fetch hasn't settled: skip this tick.
				continue
			}
			s.startFetch(ctx, since, results)

		case res := <-results:
			s.fetching.Store(false)

			switch {
			case errors.Is(res.err, domain.ErrUnchanged):
				// Nothing new; the consumer keeps its prior snapshot.

			case errors.Is(res.err, domain.ErrRoomNotFound):
				s.log.Info().Str("room_id", s.roomID).Msg("room gone, stopping synchronizer")
				if !s.emit(ctx, Event{Err: res.err}) {
					return ctx.Err()
				}
				return res.err

			case res.err != nil:
				s.log.Warn().Err(res.err).Str("room_id", s.roomID).Msg("poll failed, retrying on next tick")
				if !s.emit(ctx, Event{Err: res.err}) {
					return ctx.Err()
				}

			default:
				since = res.room.Version
				s.mu.Lock()
				s.latest = res.room
				s.mu.Unlock()
				if !s.emit(ctx, Event{Room: res.room}) {
					return ctx.Err()
				}
			}
		}
	}
}

func (s *Synchronizer) startFetch(ctx context.Context, since int64, results chan<- fetchResult) {
	s.fetching.Store(true)
	go func() {
		room, err := s.store.FetchRoom(ctx, s.roomID, since)
		results <- fetchResult{room: room, err: err}
	}()
}

func (s *Synchronizer) emit(ctx context.Context, ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
