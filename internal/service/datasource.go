package service

import (
	"context"

	"github.com/jask/jaskwallet/internal/record"
)

// DataSource is one durable tier. Reads return a Result; write errors are
// only observed, never surfaced to Repository callers.
type DataSource interface {
	GetAll(ctx context.Context) record.Result[[]record.Record]
	GetOne(ctx context.Context, id string) record.Result[record.Record]
	Save(ctx context.Context, r record.Record) error
	MarkCompleted(ctx context.Context, r record.Record) error
	MarkCompletedByID(ctx context.Context, id string) error
	MarkActive(ctx context.Context, r record.Record) error
	MarkActiveByID(ctx context.Context, id string) error
	ClearCompleted(ctx context.Context) error
	DeleteAll(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// Replacer is implemented by sources that can swap their whole contents
// atomically. Repository uses it for the local refresh after a successful
// remote read, and falls back to DeleteAll plus Save otherwise.
type Replacer interface {
	ReplaceAll(ctx context.Context, list []record.Record) error
}
