// Package pending holds short-lived per-user conversational state, such as
// a delete awaiting confirmation. Entries expire after a TTL and are
// reaped by a background sweep.
package pending

import (
	"sync"
	"time"
)

// Kind of pending interaction.
type Kind string

const (
	KindDeleteConfirmation Kind = "delete_confirmation"
)

// Entry is one pending interaction for one user. Payload carries whatever
// the follow-up handler needs (e.g. the transaction uuid to delete).
type Entry struct {
	Kind      Kind
	Payload   map[string]string
	ExpiresAt time.Time
}

// Store is a keyed user-id → pending-entry map. One entry per user: putting
// a new one replaces whatever was pending before.
type Store struct {
	mu      sync.Mutex
	entries map[int64]Entry
	ttl     time.Duration
	done    chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[int64]Entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *Store) Put(userID int64, kind Kind, payload map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = Entry{Kind: kind, Payload: payload, ExpiresAt: time.Now().Add(s.ttl)}
}

// Take removes and returns the user's pending entry, if one exists and has
// not expired. A consumed entry cannot be replayed.
func (s *Store) Take(userID int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok {
		return Entry{}, false
	}
	delete(s.entries, userID)
	if time.Now().After(entry.ExpiresAt) {
		return Entry{}, false
	}
	return entry, true
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

func (s *Store) Close() {
	close(s.done)
}

func (s *Store) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for userID, entry := range s.entries {
				if now.After(entry.ExpiresAt) {
					delete(s.entries, userID)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
