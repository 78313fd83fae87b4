package demo

import (
	"sort"
	"sync"
)

// Pet is a stored pet.
type Pet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

// Store keeps pets in memory.
type Store struct {
	mu     sync.Mutex
	pets   map[int64]Pet
	nextID int64
}

// NewStore returns a store holding pets, renumbered from 1.
func NewStore(pets ...Pet) *Store {
	s := &Store{pets: make(map[int64]Pet)}
	for _, p := range pets {
		s.Add(p)
	}
	return s
}

// List returns up to limit pets ordered by id. limit <= 0 means all.
func (s *Store) List(limit int) []Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pet, 0, len(s.pets))
	for _, p := range s.pets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Add stores p under a fresh id and returns the stored pet.
func (s *Store) Add(p Pet) Pet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.pets[p.ID] = p
	return p
}

func (s *Store) Get(id int64) (Pet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	return p, ok
}

func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[id]; !ok {
		return false
	}
	delete(s.pets, id)
	return true
}
