// Package repository defines the score store interface and its
// document-database and in-memory implementations.
package repository

import (
	"context"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// Store provides read/write access to persisted scores and events.
type Store interface {
	// UpsertMany writes scores keyed by country code in one bulk
	// operation, overwriting existing records for the same code.
	// Returns the number of scores written.
	UpsertMany(ctx context.Context, scores []model.CountryScore) (int, error)

	// GetAll returns up to limit scores ordered by code. When
	// includeDetails is false, description, event_count and avg_tone
	// are stripped from each result (a projection, not a deletion).
	GetAll(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error)

	// GetByCode returns the score for a country code, matched
	// case-insensitively. Returns ErrNotFound when absent.
	GetByCode(ctx context.Context, code string) (model.CountryScore, error)

	// UpsertACLEDEvents writes per-event intensity records keyed by
	// event id, upserting duplicates.
	UpsertACLEDEvents(ctx context.Context, events []model.ACLEDEvent) (int, error)

	// RecentACLEDEvents returns up to limit events, newest first.
	RecentACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error)

	// Count returns the number of persisted country scores.
	Count(ctx context.Context) (int, error)

	// Close releases any underlying connections.
	Close(ctx context.Context) error
}

// stripDetails applies the includeDetails=false projection to a score.
func stripDetails(s model.CountryScore) model.CountryScore {
	s.Description = ""
	s.EventCount = 0
	s.AvgTone = 0
	return s
}
