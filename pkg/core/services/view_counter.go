package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/domain"
)

// maxConcurrentIncrements bounds the in-flight counter updates of one bulk read.
const maxConcurrentIncrements = 8

// IncrementFunc bumps the persisted view counter of one item.
type IncrementFunc func(ctx context.Context, id int64) error

// ViewCounter records reads against persisted popularity counters. Callers wait for the
// increments to settle so the response can include its own view.
type ViewCounter struct {
	logger *slog.Logger
}

func NewViewCounter(logger *slog.Logger) *ViewCounter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewCounter{logger: logger}
}

// Record increments one counter. A failure is logged and reported as false; it never fails the read.
func (v *ViewCounter) Record(ctx context.Context, kind string, id int64, inc IncrementFunc) bool {
	if err := inc(ctx, id); err != nil {
		v.logger.ErrorContext(ctx, "failed to record view", "kind", kind, "id", id, "error", err)
		return false
	}
	return true
}

// RecordAll increments every id concurrently, once each. One failure does not stop the others;
// the outcome of each id is returned in input order.
func (v *ViewCounter) RecordAll(ctx context.Context, kind string, ids []int64, inc IncrementFunc) []domain.ViewResult {
	results := make([]domain.ViewResult, len(ids))

	var g errgroup.Group
	g.SetLimit(maxConcurrentIncrements)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = domain.ViewResult{ID: id, Err: inc(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			v.logger.ErrorContext(ctx, "failed to record view", "kind", kind, "id", r.ID, "error", r.Err)
		}
	}
	return results
}
