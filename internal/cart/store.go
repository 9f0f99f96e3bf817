// Package cart keeps the set of course ids a visitor intends to buy.
// The set survives page reloads through a key-value persistence layer;
// the in-memory copy stays authoritative when persistence misbehaves.
package cart

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// DefaultKey is the fixed name the cart is persisted under, matching the
// single browser-storage key the web client uses.
const DefaultKey = "cart"

// Persistence stores one serialized value per key. Load returns nil data
// and no error when the key is absent.
type Persistence interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Store is an ordered, duplicate-free set of course ids. Every mutation
// re-persists the full set before returning; persistence failures are
// logged and swallowed so the current page keeps working.
type Store struct {
	key string
	p   Persistence

	mu  sync.Mutex
	ids []string
}

// NewStore loads any previously persisted cart for key. Absent or
// malformed data yields an empty cart, never an error.
func NewStore(p Persistence, key string) *Store {
	s := &Store{key: key, p: p}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.p.Load(s.key)
	if err != nil {
		log.Warnf("loading cart %q: %v", s.key, err)
		return
	}
	if data == nil {
		return
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warnf("discarding malformed cart %q: %v", s.key, err)
		return
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		s.ids = append(s.ids, id)
	}
}

// Add appends courseID preserving insertion order. Adding an id already
// present is a no-op.
func (s *Store) Add(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.ids {
		if id == courseID {
			return
		}
	}

	s.ids = append(s.ids, courseID)
	s.persist()
}

// Remove drops courseID from the set; removing an absent id is a no-op.
func (s *Store) Remove(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.ids {
		if id == courseID {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clear empties the set. Called after a completed checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return
	}
	s.ids = nil
	s.persist()
}

// Items returns the course ids in insertion order.
func (s *Store) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether courseID is in the cart.
func (s *Store) Contains(courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.ids {
		if id == courseID {
			return true
		}
	}
	return false
}

// persist writes the full set; callers hold s.mu. The empty cart is stored
// as an empty array so readers never see a stale previous set.
func (s *Store) persist() {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		log.Errorf("serializing cart %q: %v", s.key, err)
		return
	}

	if err := s.p.Save(s.key, data); err != nil {
		log.Warnf("persisting cart %q: %v", s.key, err)
	}
}
