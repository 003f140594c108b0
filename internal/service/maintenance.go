package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/jaskwallet/internal/database"
)

// MaintenanceService houses destructive/ops actions on the local store.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes every local record. It keeps the schema intact so the app can
// continue running, and the next refresh repopulates from remote.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var deleted int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM records")
		if err != nil {
			return fmt.Errorf("reset table records: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return deleted, nil
}
