package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jask/jaskwallet/internal/record"
)

// fakeSource is an in-memory DataSource that records every call.
type fakeSource struct {
	name string

	mu       sync.Mutex
	items    map[string]record.Record
	calls    []string
	readErr  error
	writeErr error
	// hook runs at the start of every write with the method name.
	hook func(ctx context.Context, method string) error
}

func newFake(name string, list ...record.Record) *fakeSource {
	f := &fakeSource{name: name, items: make(map[string]record.Record)}
	for _, r := range list {
		f.items[r.ID] = r
	}
	return f
}

func (f *fakeSource) record(method string) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()
}

func (f *fakeSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeSource) Snapshot() []record.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]record.Record, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	return record.Sorted(out)
}

func (f *fakeSource) write(ctx context.Context, method string, fn func()) error {
	f.record(method)
	if f.hook != nil {
		if err := f.hook(ctx, method); err != nil {
			return err
		}
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	fn()
	f.mu.Unlock()
	return nil
}

func (f *fakeSource) GetAll(context.Context) record.Result[[]record.Record] {
	f.record("GetAll")
	if f.readErr != nil {
		return record.Error[[]record.Record](f.readErr)
	}
	return record.Success(f.Snapshot())
}

func (f *fakeSource) GetOne(_ context.Context, id string) record.Result[record.Record] {
	f.record("GetOne")
	if f.readErr != nil {
		return record.Error[record.Record](f.readErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.items[id]; ok {
		return record.Success(r)
	}
	return record.Error[record.Record](fmt.Errorf("%w: %s in %s", record.ErrNotFound, id, f.name))
}

func (f *fakeSource) Save(ctx context.Context, r record.Record) error {
	return f.write(ctx, "Save", func() { f.items[r.ID] = r })
}

func (f *fakeSource) MarkCompleted(ctx context.Context, r record.Record) error {
	return f.write(ctx, "MarkCompleted", func() { r.Completed = true; f.items[r.ID] = r })
}

func (f *fakeSource) MarkCompletedByID(ctx context.Context, id string) error {
	return f.write(ctx, "MarkCompletedByID", func() { f.setCompleted(id, true) })
}

func (f *fakeSource) MarkActive(ctx context.Context, r record.Record) error {
	return f.write(ctx, "MarkActive", func() { r.Completed = false; f.items[r.ID] = r })
}

func (f *fakeSource) MarkActiveByID(ctx context.Context, id string) error {
	return f.write(ctx, "MarkActiveByID", func() { f.setCompleted(id, false) })
}

func (f *fakeSource) ClearCompleted(ctx context.Context) error {
	return f.write(ctx, "ClearCompleted", func() {
		for id, r := range f.items {
			if r.Completed {
				delete(f.items, id)
			}
		}
	})
}

func (f *fakeSource) DeleteAll(ctx context.Context) error {
	return f.write(ctx, "DeleteAll", func() { f.items = make(map[string]record.Record) })
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	return f.write(ctx, "Delete", func() { delete(f.items, id) })
}

func (f *fakeSource) setCompleted(id string, completed bool) {
	if r, ok := f.items[id]; ok {
		r.Completed = completed
		f.items[id] = r
	}
}
