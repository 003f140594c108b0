package repository

import "context"

// RecordRepo handles price records.
type RecordRepo struct {
	db DBTX
}

func NewRecordRepo(db DBTX) *RecordRepo { return &RecordRepo{db: db} }

const recordColumns = `id, base, counter, buy_price, sell_price, icon, display_name, completed, created_at, updated_at`

func (r *RecordRepo) Upsert(ctx context.Context, rec RecordRow) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO records(id, base, counter, buy_price, sell_price, icon, display_name, completed, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 base=excluded.base,
	 counter=excluded.counter,
	 buy_price=excluded.buy_price,
	 sell_price=excluded.sell_price,
	 icon=excluded.icon,
	 display_name=excluded.display_name,
	 completed=excluded.completed,
	 updated_at=CURRENT_TIMESTAMP;
	`, rec.ID, rec.Base, rec.Counter, rec.BuyPrice, rec.SellPrice, rec.Icon, rec.DisplayName, rec.Completed)
	return err
}

func (r *RecordRepo) List(ctx context.Context) ([]RecordRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecordRow
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns sql.ErrNoRows when id is absent.
func (r *RecordRepo) Get(ctx context.Context, id string) (RecordRow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	return scanRecord(row)
}

// SetCompleted updates the flag and reports how many rows matched.
func (r *RecordRepo) SetCompleted(ctx context.Context, id string, completed bool) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE records SET completed = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, completed, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RecordRepo) DeleteCompleted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE completed = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RecordRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records`)
	return err
}

func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (RecordRow, error) {
	var rec RecordRow
	err := s.Scan(&rec.ID, &rec.Base, &rec.Counter, &rec.BuyPrice, &rec.SellPrice, &rec.Icon,
		&rec.DisplayName, &rec.Completed, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}
