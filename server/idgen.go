package server

import (
	"math/rand"
	"sync"
)

const roomIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomIDLength = 5

// Idgen hands out short, unique, human-typable room codes.
type Idgen struct {
	ids    map[string]struct{}
	locker sync.Mutex
}

func NewIdgen() *Idgen {
	return &Idgen{ids: make(map[string]struct{})}
}

func (g *Idgen) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()

	for {
		b := make([]byte, roomIDLength)
		for i := range b {
			b[i] = roomIDCharset[rand.Intn(len(roomIDCharset))]
		}
		id := string(b)
		if _, taken := g.ids[id]; !taken {
			g.ids[id] = struct{}{}
			return id
		}
	}
}

func (g *Idgen) Dispose(id string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	delete(g.ids, id)
}
