package worker

import "sync"

// Gate is the admission-control counter bounding how many tasks a worker
// runs locally at once. Both operations are atomic relative to each other;
// the in-flight count never exceeds the limit and never goes below zero.
type Gate struct {
	mu       sync.Mutex
	limit    int
	inFlight int
}

// NewGate creates a gate with the given concurrency ceiling.
// Limits below one are clamped to one.
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{limit: limit}
}

// TryAcquire claims a slot if one is free and reports whether it succeeded.
// It never blocks: a full gate returns false immediately, leaving the state
// unchanged. Every true return must be paired with exactly one Release.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight >= g.limit {
		return false
	}
	g.inFlight++
	return true
}

// Release returns a slot to the gate. The count is floored at zero so an
// unpaired Release cannot corrupt admission accounting.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight > 0 {
		g.inFlight--
	}
}

// InFlight returns the current number of admitted, unfinished tasks.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Limit returns the concurrency ceiling.
func (g *Gate) Limit() int {
	return g.limit
}
