package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/cache"
	"github.com/jask/jaskwallet/internal/metrics"
	"github.com/jask/jaskwallet/internal/record"
)

// errLocalEmpty marks a local fallback that succeeded with nothing to offer.
var errLocalEmpty = errors.New("local store is empty")

// Repository reconciles the cache, local and remote tiers behind one
// read/write surface. Reads go cache, then remote, then local. Writes update
// the cache first and then fan out to remote and local.
type Repository struct {
	remote DataSource
	local  DataSource
	cache  *cache.Store

	log      zerolog.Logger
	metrics  metrics.Recorder
	newID    func() string
	observer func(WriteOutcome)
}

func NewRepository(remote, local DataSource, c *cache.Store, opts ...Option) *Repository {
	if c == nil {
		c = cache.New()
	}
	r := &Repository{
		remote:  remote,
		local:   local,
		cache:   c,
		log:     zerolog.Nop(),
		metrics: metrics.Nop{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchAll returns every record sorted by id.
//
// A populated cache answers non-forced calls without I/O. Otherwise the remote
// is asked first; on success local is overwritten and the cache repopulated.
// A forced call never falls back to local.
func (r *Repository) FetchAll(ctx context.Context, forceRefresh bool) record.Result[[]record.Record] {
	if !forceRefresh && r.cache.Populated() {
		r.metrics.Observe(ctx, "fetch_all.cache", true, 0)
		return record.Success(record.Sorted(r.cache.All()))
	}

	start := time.Now()
	res := r.remote.GetAll(ctx)
	r.metrics.Observe(ctx, "fetch_all.remote", res.IsSuccess(), time.Since(start))
	if res.IsSuccess() {
		list := res.Value()
		r.refreshLocal(ctx, list)
		r.cache.Replace(list)
		return record.Success(record.Sorted(list))
	}

	remoteErr := res.Err()
	if forceRefresh {
		r.log.Warn().Err(remoteErr).Msg("forced refresh failed")
		return record.Error[[]record.Record](wrap(record.ErrRemoteUnavailable, remoteErr))
	}

	start = time.Now()
	lres := r.local.GetAll(ctx)
	localErr := lres.Err()
	if localErr == nil && len(lres.Value()) == 0 {
		localErr = errLocalEmpty
	}
	r.metrics.Observe(ctx, "fetch_all.local", localErr == nil, time.Since(start))
	if localErr == nil {
		r.log.Info().Err(remoteErr).Int("count", len(lres.Value())).Msg("serving local records")
		return record.Success(record.Sorted(lres.Value()))
	}
	return record.Error[[]record.Record](fmt.Errorf("%w: remote: %v; local: %v", record.ErrSourcesExhausted, remoteErr, localErr))
}

// FetchOne returns a single record. Only that id's cache entry is touched.
func (r *Repository) FetchOne(ctx context.Context, id string, forceRefresh bool) record.Result[record.Record] {
	if !forceRefresh {
		if rec, ok := r.cache.Get(id); ok {
			r.metrics.Observe(ctx, "fetch_one.cache", true, 0)
			return record.Success(rec)
		}
	}

	start := time.Now()
	res := r.remote.GetOne(ctx, id)
	r.metrics.Observe(ctx, "fetch_one.remote", res.IsSuccess(), time.Since(start))
	if res.IsSuccess() {
		rec := res.Value()
		if err := r.timed(ctx, "fetch_one.save_local", func() error { return r.local.Save(ctx, rec) }); err != nil {
			r.log.Warn().Err(err).Str("id", id).Msg("local save after remote read failed")
		}
		r.cache.Put(rec)
		return record.Success(rec)
	}

	remoteErr := res.Err()
	if forceRefresh {
		if errors.Is(remoteErr, record.ErrNotFound) {
			return record.Error[record.Record](wrap(record.ErrNotFound, remoteErr))
		}
		return record.Error[record.Record](wrap(record.ErrRemoteUnavailable, remoteErr))
	}

	start = time.Now()
	lres := r.local.GetOne(ctx, id)
	r.metrics.Observe(ctx, "fetch_one.local", lres.IsSuccess(), time.Since(start))
	if lres.IsSuccess() {
		rec := lres.Value()
		r.cache.Put(rec)
		return record.Success(rec)
	}

	localErr := lres.Err()
	if errors.Is(remoteErr, record.ErrNotFound) && errors.Is(localErr, record.ErrNotFound) {
		return record.Error[record.Record](fmt.Errorf("%w: %s", record.ErrNotFound, id))
	}
	return record.Error[record.Record](fmt.Errorf("%w: remote: %v; local: %v", record.ErrSourcesExhausted, remoteErr, localErr))
}

// Save writes rec to every tier, assigning an id when it has none. The only
// error is ErrEmptyRecord; tier failures are swallowed.
func (r *Repository) Save(ctx context.Context, rec record.Record) (record.Record, error) {
	if rec.IsEmpty() {
		return rec, record.ErrEmptyRecord
	}
	rec = record.EnsureID(rec, r.newID)
	r.cache.Put(rec)
	r.fanOut(ctx, "save", rec.ID, func(ctx context.Context, src DataSource) error {
		return src.Save(ctx, rec)
	})
	return rec, nil
}

func (r *Repository) MarkCompleted(ctx context.Context, rec record.Record) {
	r.setCompleted(ctx, rec, true)
}

// MarkCompletedByID is a no-op for ids the cache does not hold.
func (r *Repository) MarkCompletedByID(ctx context.Context, id string) {
	r.setCompletedByID(ctx, id, true)
}

func (r *Repository) MarkActive(ctx context.Context, rec record.Record) {
	r.setCompleted(ctx, rec, false)
}

// MarkActiveByID is a no-op for ids the cache does not hold.
func (r *Repository) MarkActiveByID(ctx context.Context, id string) {
	r.setCompletedByID(ctx, id, false)
}

// ClearCompleted removes completed records everywhere. The cache is pruned
// after both tiers return.
func (r *Repository) ClearCompleted(ctx context.Context) {
	r.fanOut(ctx, "clear_completed", "", func(ctx context.Context, src DataSource) error {
		return src.ClearCompleted(ctx)
	})
	n := r.cache.RemoveWhere(func(rec record.Record) bool { return rec.Completed })
	r.log.Debug().Int("removed", n).Msg("cleared completed from cache")
}

// DeleteAll empties every tier. The cache stays populated, so a following
// non-forced FetchAll answers with an empty list.
func (r *Repository) DeleteAll(ctx context.Context) {
	r.fanOut(ctx, "delete_all", "", func(ctx context.Context, src DataSource) error {
		return src.DeleteAll(ctx)
	})
	r.cache.Clear()
}

// DeleteOne drops id from the cache immediately, then from both tiers.
func (r *Repository) DeleteOne(ctx context.Context, id string) {
	r.cache.Remove(id)
	r.fanOut(ctx, "delete", id, func(ctx context.Context, src DataSource) error {
		return src.Delete(ctx, id)
	})
}

func (r *Repository) setCompleted(ctx context.Context, rec record.Record, completed bool) {
	rec.Completed = completed
	r.cache.Put(rec)
	r.fanOutCompleted(ctx, rec, completed)
}

// setCompletedByID flips the cached flag under one lock, then fans out the
// updated record.
func (r *Repository) setCompletedByID(ctx context.Context, id string, completed bool) {
	rec, ok := r.cache.Update(id, func(rec *record.Record) { rec.Completed = completed })
	if !ok {
		return
	}
	r.fanOutCompleted(ctx, rec, completed)
}

func (r *Repository) fanOutCompleted(ctx context.Context, rec record.Record, completed bool) {
	op := "mark_active"
	if completed {
		op = "mark_completed"
	}
	r.fanOut(ctx, op, rec.ID, func(ctx context.Context, src DataSource) error {
		if completed {
			return src.MarkCompleted(ctx, rec)
		}
		return src.MarkActive(ctx, rec)
	})
}

// refreshLocal overwrites local with list. Failures leave local stale and are
// only logged.
func (r *Repository) refreshLocal(ctx context.Context, list []record.Record) {
	err := r.timed(ctx, "fetch_all.refresh_local", func() error {
		if rep, ok := r.local.(Replacer); ok {
			return rep.ReplaceAll(ctx, list)
		}
		if err := r.local.DeleteAll(ctx); err != nil {
			return err
		}
		var errs []error
		for _, rec := range list {
			if err := r.local.Save(ctx, rec); err != nil {
				errs = append(errs, fmt.Errorf("save %s: %w", rec.ID, err))
			}
		}
		return errors.Join(errs...)
	})
	if err != nil {
		r.log.Warn().Err(err).Int("count", len(list)).Msg("local refresh failed")
	}
}

func wrap(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
