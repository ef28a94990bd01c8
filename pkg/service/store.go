package service

import (
	"sync"
)

// Store interface defines the recording storage operations
type Store interface {
	Create(*Recording) error
	Get(string) (*Recording, error)
	Update(*Recording) error
	Delete(string) error
	List() []*Recording
}

// MemoryStore implements Store interface using in-memory storage
type MemoryStore struct {
	recordings map[string]*Recording
	mu         sync.RWMutex
}

// NewMemoryStore creates a new in-memory recording store
func NewMemoryStore() Store {
	return &MemoryStore{
		recordings: make(map[string]*Recording),
	}
}

func (s *MemoryStore) Create(rec *Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recordings[rec.ID]; exists {
		return ErrSessionExists
	}

	s.recordings[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Get(id string) (*Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.recordings[id]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return rec.Clone(), nil
}

func (s *MemoryStore) Update(rec *Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recordings[rec.ID]; !exists {
		return ErrSessionNotFound
	}

	s.recordings[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recordings[id]; !exists {
		return ErrSessionNotFound
	}

	delete(s.recordings, id)
	return nil
}

func (s *MemoryStore) List() []*Recording {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recordings := make([]*Recording, 0, len(s.recordings))
	for _, rec := range s.recordings {
		recordings = append(recordings, rec.Clone())
	}
	return recordings
}
