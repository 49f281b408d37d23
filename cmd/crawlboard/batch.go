package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// runBatch calls fn for every item with at most limit calls in flight and
// returns the per-item errors in input order. One failure does not stop
// the others; only cancellation of ctx does.
func runBatch[T any](ctx context.Context, items []T, limit int, fn func(context.Context, int, T) error) []error {
	errs := make([]error, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i, item)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// countFailures returns an error summarising errs, or nil when all passed.
func countFailures(errs []error, what string) error {
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed", failed, len(errs), what)
}

// parseIDs parses result ids given as arguments, accepting an optional
// leading "#".
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid result id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
