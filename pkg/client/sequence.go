package client

import (
	"errors"
	"sync"
)

// ErrStaleResponse marks a list response that arrived after a newer fetch
// for the same resource had already been applied. Callers should discard
// the result and keep whatever they last rendered.
var ErrStaleResponse = errors.New("stale response superseded by a newer fetch")

// sequenceGuard hands out monotonically increasing tickets per resource and
// only lets the newest outstanding ticket commit. Slow responses from
// earlier fetches lose the race and are dropped.
type sequenceGuard struct {
	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
}

func newSequenceGuard() *sequenceGuard {
	return &sequenceGuard{
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
	}
}

func (g *sequenceGuard) begin(resource string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued[resource]++
	return g.issued[resource]
}

func (g *sequenceGuard) commit(resource string, ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ticket <= g.applied[resource] {
		return false
	}
	g.applied[resource] = ticket
	return true
}
