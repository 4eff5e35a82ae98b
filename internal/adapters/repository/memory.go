package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// MemoryStore implements Store with in-process maps. It backs tests
// and deployments that run without a document database.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]model.CountryScore // keyed by upper-cased code
	events map[string]model.ACLEDEvent   // keyed by event id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scores: make(map[string]model.CountryScore),
		events: make(map[string]model.ACLEDEvent),
	}
}

// UpsertMany overwrites any existing score with the same code.
func (s *MemoryStore) UpsertMany(_ context.Context, scores []model.CountryScore) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, score := range scores {
		s.scores[strings.ToUpper(score.Code)] = score
	}
	return len(scores), nil
}

// GetAll returns up to limit scores ordered by code.
func (s *MemoryStore) GetAll(_ context.Context, limit int, includeDetails bool) ([]model.CountryScore, error) {
	s.mu.RLock()
	out := make([]model.CountryScore, 0, len(s.scores))
	for _, score := range s.scores {
		out = append(out, score)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	if !includeDetails {
		for i := range out {
			out[i] = stripDetails(out[i])
		}
	}
	return out, nil
}

// GetByCode matches the code case-insensitively.
func (s *MemoryStore) GetByCode(_ context.Context, code string) (model.CountryScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.scores[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return model.CountryScore{}, ErrNotFound
	}
	return score, nil
}

// UpsertACLEDEvents overwrites any existing event with the same id.
func (s *MemoryStore) UpsertACLEDEvents(_ context.Context, events []model.ACLEDEvent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events[ev.EventID] = ev
	}
	return len(events), nil
}

// RecentACLEDEvents returns up to limit events, newest first.
func (s *MemoryStore) RecentACLEDEvents(_ context.Context, limit int) ([]model.ACLEDEvent, error) {
	s.mu.RLock()
	out := make([]model.ACLEDEvent, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].EventDate != out[j].EventDate {
			return out[i].EventDate > out[j].EventDate
		}
		return out[i].EventID < out[j].EventID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of persisted country scores.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error { return nil }
