// Package local is the durable tier: records persisted in sqlite.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/database"
	"github.com/jask/jaskwallet/internal/database/repository"
	"github.com/jask/jaskwallet/internal/record"
)

// Source reads and writes records through repository.RecordRepo.
type Source struct {
	db   *sql.DB
	repo *repository.RecordRepo
	log  zerolog.Logger
}

// New wraps an opened, migrated database.
func New(db *sql.DB, log zerolog.Logger) *Source {
	return &Source{
		db:   db,
		repo: repository.NewRecordRepo(db),
		log:  log.With().Str("tier", "local").Logger(),
	}
}

func (s *Source) GetAll(ctx context.Context) record.Result[[]record.Record] {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return record.Error[[]record.Record](fmt.Errorf("list records: %w", err))
	}
	out := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return record.Success(out)
}

func (s *Source) GetOne(ctx context.Context, id string) record.Result[record.Record] {
	row, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Error[record.Record](fmt.Errorf("%w: %s", record.ErrNotFound, id))
	}
	if err != nil {
		return record.Error[record.Record](fmt.Errorf("get record %s: %w", id, err))
	}
	return record.Success(fromRow(row))
}

func (s *Source) Save(ctx context.Context, r record.Record) error {
	return s.repo.Upsert(ctx, toRow(r))
}

// ReplaceAll swaps the whole table for list in one transaction.
func (s *Source) ReplaceAll(ctx context.Context, list []record.Record) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := repository.NewRecordRepo(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		for _, r := range list {
			if err := repo.Upsert(ctx, toRow(r)); err != nil {
				return fmt.Errorf("upsert %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// MarkCompleted stores r with the flag set, so a record unknown to this tier
// is inserted rather than dropped.
func (s *Source) MarkCompleted(ctx context.Context, r record.Record) error {
	r.Completed = true
	return s.repo.Upsert(ctx, toRow(r))
}

func (s *Source) MarkCompletedByID(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, true)
}

func (s *Source) MarkActive(ctx context.Context, r record.Record) error {
	r.Completed = false
	return s.repo.Upsert(ctx, toRow(r))
}

func (s *Source) MarkActiveByID(ctx context.Context, id string) error {
	return s.setCompleted(ctx, id, false)
}

func (s *Source) ClearCompleted(ctx context.Context) error {
	n, err := s.repo.DeleteCompleted(ctx)
	if err != nil {
		return err
	}
	s.log.Debug().Int64("deleted", n).Msg("cleared completed")
	return nil
}

func (s *Source) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *Source) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Source) setCompleted(ctx context.Context, id string, completed bool) error {
	n, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		return err
	}
	if n == 0 {
		s.log.Debug().Str("id", id).Msg("completed toggle matched no row")
	}
	return nil
}

func fromRow(row repository.RecordRow) record.Record {
	return record.Record{
		ID:          row.ID,
		Base:        row.Base,
		Counter:     row.Counter,
		BuyPrice:    row.BuyPrice,
		SellPrice:   row.SellPrice,
		Icon:        row.Icon,
		DisplayName: row.DisplayName,
		Completed:   row.Completed,
	}
}

func toRow(r record.Record) repository.RecordRow {
	return repository.RecordRow{
		ID:          r.ID,
		Base:        r.Base,
		Counter:     r.Counter,
		BuyPrice:    r.BuyPrice,
		SellPrice:   r.SellPrice,
		Icon:        r.Icon,
		DisplayName: r.DisplayName,
		Completed:   r.Completed,
	}
}
