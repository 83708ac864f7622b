package roomsync

import "time"

// PeriodicTickerChannelCreator lets tests drive the poll loop by hand
// instead of sleeping.
type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

type ticker struct{}

func (t ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}

func NewTickerGen() PeriodicTickerChannelCreator {
	return ticker{}
}
