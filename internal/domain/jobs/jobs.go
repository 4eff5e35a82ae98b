// Package jobs tracks scoring-run job records so callers can poll the
// outcome of asynchronous pipeline runs.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State enumerates the lifecycle of a pipeline run.
type State string

// Job states.
const (
	StateStarted   State = "started"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Record is one job's observable state.
type Record struct {
	ID        string    `json:"job_id"`
	State     State     `json:"state"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker stores job records in memory. Records live for the process
// lifetime; the run history is small (one record per triggered run).
type Tracker struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewTracker creates an empty job tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]Record)}
}

// Start creates a new job record in the started state and returns its id.
func (t *Tracker) Start(_ context.Context) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	t.mu.Lock()
	t.records[id] = Record{
		ID:        id,
		State:     StateStarted,
		StartedAt: now,
		UpdatedAt: now,
	}
	t.mu.Unlock()
	return id
}

// Update moves a job to the given state with progress and message.
// Unknown ids are ignored.
func (t *Tracker) Update(_ context.Context, id string, state State, progress float64, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[id]
	if !ok {
		return
	}
	rec.State = state
	rec.Progress = progress
	rec.Message = message
	rec.UpdatedAt = time.Now().UTC()
	t.records[id] = rec
}

// Get returns the record for id, and whether it exists.
func (t *Tracker) Get(_ context.Context, id string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[id]
	return rec, ok
}

// Len returns the number of tracked jobs.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
