package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/record"
)

// Source reads the price list over HTTP. Writes have no wire contract, so
// they land in an in-process mirror that GetOne consults first until the
// next GetAll replaces them.
type Source struct {
	client  *Client
	latency time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	mirror  map[string]record.Record
	fetched map[string]record.Record
}

// New builds the tier. Single-record lookups wait the client's configured
// latency.
func New(client *Client, log zerolog.Logger) *Source {
	return &Source{
		client:  client,
		latency: client.latency,
		log:     log.With().Str("tier", "remote").Logger(),
		mirror:  make(map[string]record.Record),
		fetched: make(map[string]record.Record),
	}
}

// GetAll fetches the full list. Rows without an id get the stable pair id.
// Rows sharing an id collapse into one: the last row wins and keeps the
// position of the first. Mirror entries for ids the server has served,
// now or in the previous fetch, are dropped so the fresh list wins.
func (s *Source) GetAll(ctx context.Context) record.Result[[]record.Record] {
	list, err := s.client.Prices(ctx)
	if err != nil {
		return record.Error[[]record.Record](fmt.Errorf("%w: %w", record.ErrRemoteUnavailable, err))
	}
	out := make([]record.Record, 0, len(list))
	index := make(map[string]int, len(list))
	for _, r := range list {
		if r.ID == "" {
			r.ID = record.StableID(r.Base, r.Counter)
		}
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if dup := len(list) - len(out); dup > 0 {
		s.log.Warn().Int("duplicates", dup).Msg("collapsed rows sharing an id")
	}

	s.mu.Lock()
	for id := range s.fetched {
		delete(s.mirror, id)
	}
	s.fetched = make(map[string]record.Record, len(out))
	for _, r := range out {
		delete(s.mirror, r.ID)
		s.fetched[r.ID] = r
	}
	s.mu.Unlock()

	s.log.Debug().Int("count", len(out)).Msg("fetched prices")
	return record.Success(out)
}

// GetOne waits the simulated latency, then looks in the write mirror and
// the last fetched list.
func (s *Source) GetOne(ctx context.Context, id string) record.Result[record.Record] {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return record.Error[record.Record](fmt.Errorf("%w: %w", record.ErrRemoteUnavailable, ctx.Err()))
		case <-t.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.mirror[id]; ok {
		return record.Success(r)
	}
	if r, ok := s.fetched[id]; ok {
		return record.Success(r)
	}
	return record.Error[record.Record](fmt.Errorf("%w: %s", record.ErrNotFound, id))
}

func (s *Source) Save(_ context.Context, r record.Record) error {
	s.put(r)
	return nil
}

func (s *Source) MarkCompleted(_ context.Context, r record.Record) error {
	r.Completed = true
	s.put(r)
	return nil
}

func (s *Source) MarkCompletedByID(_ context.Context, id string) error {
	s.setCompleted(id, true)
	return nil
}

func (s *Source) MarkActive(_ context.Context, r record.Record) error {
	r.Completed = false
	s.put(r)
	return nil
}

func (s *Source) MarkActiveByID(_ context.Context, id string) error {
	s.setCompleted(id, false)
	return nil
}

func (s *Source) ClearCompleted(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range []map[string]record.Record{s.mirror, s.fetched} {
		for id, r := range m {
			if r.Completed {
				delete(m, id)
			}
		}
	}
	return nil
}

func (s *Source) DeleteAll(context.Context) error {
	s.mu.Lock()
	s.mirror = make(map[string]record.Record)
	s.fetched = make(map[string]record.Record)
	s.mu.Unlock()
	return nil
}

func (s *Source) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.mirror, id)
	delete(s.fetched, id)
	s.mu.Unlock()
	return nil
}

// put writes r to the mirror and refreshes any fetched copy, so a later
// ClearCompleted sees the same flag in both.
func (s *Source) put(r record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror[r.ID] = r
	if _, ok := s.fetched[r.ID]; ok {
		s.fetched[r.ID] = r
	}
}

// setCompleted flips the flag wherever id is known. Unknown ids are ignored.
func (s *Source) setCompleted(id string, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range []map[string]record.Record{s.mirror, s.fetched} {
		if r, ok := m[id]; ok {
			r.Completed = completed
			m[id] = r
		}
	}
}
