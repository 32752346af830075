package services

import (
	"sync"

	"github.com/google/uuid"
)

// PollLocker serializes mutations per poll. Every state-changing path through
// a poll (vote transaction, option replacement, delete) takes the poll's lock
// so ledger and tallies never diverge mid-flight. Share one instance between
// the poll and vote services.
type PollLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewPollLocker() *PollLocker {
	return &PollLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the per-poll mutex and returns the release function.
func (l *PollLocker) Lock(pollID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[pollID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[pollID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Forget drops the lock entry for a deleted poll.
func (l *PollLocker) Forget(pollID uuid.UUID) {
	l.mu.Lock()
	delete(l.locks, pollID)
	l.mu.Unlock()
}
