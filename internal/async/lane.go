package async

import (
	"sync"
)

// Policy decides what happens to results that complete out of order on a lane.
type Policy int

const (
	// LastCompletedWins applies every result in completion order, so a slow
	// response may overwrite a newer one.
	LastCompletedWins Policy = iota
	// LatestIssuedWins applies a result only if no newer request was issued
	// on the lane since it was submitted.
	LatestIssuedWins
)

func (p Policy) String() string {
	switch p {
	case LastCompletedWins:
		return "last-completed-wins"
	case LatestIssuedWins:
		return "latest-issued-wins"
	default:
		return "unknown"
	}
}

// Lane sequences the requests that target one destination, typically a list.
type Lane struct {
	name             string
	policy           Policy
	cancelSuperseded bool

	mu      sync.Mutex
	latest  uint64
	current *Handle
}

type LaneOption func(*Lane)

// CancelSuperseded makes a new submission cancel the previous in-flight one.
func CancelSuperseded() LaneOption {
	return func(l *Lane) {
		l.cancelSuperseded = true
	}
}

func NewLane(name string, policy Policy, opts ...LaneOption) *Lane {
	l := &Lane{name: name, policy: policy}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lane) Name() string {
	return l.name
}

func (l *Lane) Policy() Policy {
	return l.policy
}

// Latest returns the sequence number of the most recently issued request.
func (l *Lane) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

func (l *Lane) issue(h *Handle) {
	l.mu.Lock()
	l.latest++
	h.seq = l.latest
	prev := l.current
	l.current = h
	l.mu.Unlock()

	if l.cancelSuperseded && prev != nil {
		prev.Cancel()
	}
}

func (l *Lane) accepts(h *Handle) bool {
	if l.policy != LatestIssuedWins {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return h.seq == l.latest
}
