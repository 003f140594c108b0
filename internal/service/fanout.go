package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type tierCall func(ctx context.Context, src DataSource) error

// fanOut runs call against remote and local concurrently and waits for both.
// A failing child does not cancel its sibling. Errors are logged, metered and
// handed to the write observer, never returned.
func (r *Repository) fanOut(ctx context.Context, op, id string, call tierCall) WriteOutcome {
	out := WriteOutcome{Operation: op, ID: id}
	start := time.Now()

	var g errgroup.Group
	g.Go(func() error {
		out.RemoteErr = r.timed(ctx, op+".remote", func() error { return call(ctx, r.remote) })
		return nil
	})
	g.Go(func() error {
		out.LocalErr = r.timed(ctx, op+".local", func() error { return call(ctx, r.local) })
		return nil
	})
	_ = g.Wait()
	out.Duration = time.Since(start)

	for tier, err := range map[string]error{"remote": out.RemoteErr, "local": out.LocalErr} {
		if err != nil {
			r.log.Warn().Err(err).Str("op", op).Str("tier", tier).Str("id", id).Msg("fan-out write failed")
		}
	}
	if r.observer != nil {
		r.observer(out)
	}
	return out
}

func (r *Repository) timed(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.metrics.Observe(ctx, op, err == nil, time.Since(start))
	return err
}
