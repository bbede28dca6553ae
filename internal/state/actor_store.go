package state

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type ActorStore struct {
	mu     sync.RWMutex
	actors map[string]Actor
}

type Actor struct {
	Name      string
	FirstSeen time.Time
	LastSeen  time.Time
	Replies   int
}

func NewActorStore() *ActorStore {
	return &ActorStore{actors: map[string]Actor{}}
}

// Touch records a reply from actor.
func (s *ActorStore) Touch(actor string, now time.Time) {
	if actor == "" {
		return
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	key := strings.ToLower(actor)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actors[key]
	if !ok {
		a = Actor{Name: actor, FirstSeen: now}
	}
	a.LastSeen = now
	a.Replies++
	s.actors[key] = a
}

func (s *ActorStore) Get(actor string) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[strings.ToLower(actor)]
	return a, ok
}

func (s *ActorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

// SweepStale removes actors not heard from within maxAge.
// Returns the names removed in this sweep, sorted.
func (s *ActorStore) SweepStale(now time.Time, maxAge time.Duration) []string {
	if maxAge <= 0 {
		return nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []string
	for key, a := range s.actors {
		if now.Sub(a.LastSeen) >= maxAge {
			delete(s.actors, key)
			stale = append(stale, a.Name)
		}
	}
	sort.Strings(stale)
	return stale
}
