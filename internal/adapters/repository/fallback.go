package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/pkg/logger"
	"github.com/sgmproject/sgm/pkg/metrics"
)

// Fallback wraps a Store so that read failures degrade to the built-in
// seed dataset instead of surfacing errors, and write failures are
// reported as ErrStoreUnavailable without crashing the pipeline.
// Not-found is a normal outcome and passes through untouched.
type Fallback struct {
	inner Store
	log   logger.Logger
}

// NewFallback wraps inner with sample-data degradation.
func NewFallback(inner Store, log logger.Logger) *Fallback {
	return &Fallback{inner: inner, log: log}
}

// UpsertMany delegates to the inner store, translating failures to
// ErrStoreUnavailable so callers can report a soft failure.
func (f *Fallback) UpsertMany(ctx context.Context, scores []model.CountryScore) (int, error) {
	n, err := f.inner.UpsertMany(ctx, scores)
	if err != nil {
		f.log.Error(ctx, "score upsert failed; scores deferred to next run", logger.Error(err))
		metrics.RecordStoreError()
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return n, nil
}

// GetAll falls back to the seed dataset when the inner store errors.
func (f *Fallback) GetAll(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error) {
	scores, err := f.inner.GetAll(ctx, limit, includeDetails)
	if err != nil {
		f.log.Warn(ctx, "store unreachable; serving sample scores", logger.Error(err))
		metrics.RecordStoreFallback()
		return sampleScoresProjected(limit, includeDetails), nil
	}
	return scores, nil
}

// GetByCode searches the seed dataset when the inner store errors.
func (f *Fallback) GetByCode(ctx context.Context, code string) (model.CountryScore, error) {
	score, err := f.inner.GetByCode(ctx, code)
	if err == nil || errors.Is(err, ErrNotFound) {
		return score, err
	}
	f.log.Warn(ctx, "store unreachable; searching sample scores", logger.Error(err))
	metrics.RecordStoreFallback()
	for _, s := range sampleScores() {
		if strings.EqualFold(s.Code, strings.TrimSpace(code)) {
			return s, nil
		}
	}
	return model.CountryScore{}, ErrNotFound
}

// UpsertACLEDEvents mirrors UpsertMany's soft-failure semantics.
func (f *Fallback) UpsertACLEDEvents(ctx context.Context, events []model.ACLEDEvent) (int, error) {
	n, err := f.inner.UpsertACLEDEvents(ctx, events)
	if err != nil {
		f.log.Error(ctx, "event upsert failed; events deferred to next run", logger.Error(err))
		metrics.RecordStoreError()
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return n, nil
}

// RecentACLEDEvents falls back to the seed events on store errors.
func (f *Fallback) RecentACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error) {
	events, err := f.inner.RecentACLEDEvents(ctx, limit)
	if err != nil {
		f.log.Warn(ctx, "store unreachable; serving sample events", logger.Error(err))
		metrics.RecordStoreFallback()
		events = sampleACLEDEvents()
		if limit > 0 && limit < len(events) {
			events = events[:limit]
		}
		return events, nil
	}
	return events, nil
}

// Count reports zero when the inner store errors.
func (f *Fallback) Count(ctx context.Context) (int, error) {
	n, err := f.inner.Count(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return 0, nil
	}
	return n, nil
}

// Close closes the inner store.
func (f *Fallback) Close(ctx context.Context) error {
	return f.inner.Close(ctx)
}
