package postgres

import (
	"context"
	"database/sql"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"

	"github.com/google/uuid"
)

type conditionLogRepository struct {
	db *sql.DB
}

func NewConditionLogRepository(db *sql.DB) repository.ConditionLogRepository {
	return &conditionLogRepository{db: db}
}

func (r *conditionLogRepository) Append(ctx context.Context, e *domain.ConditionLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO condition_log (id, asset_id, condition, description, source, photo_url, recorded_by, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.AssetID, e.Condition, e.Description, e.Source, e.PhotoURL, e.RecordedBy, e.CreatedOn)
	return err
}

func (r *conditionLogRepository) ListByAsset(ctx context.Context, assetID string) ([]domain.ConditionLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, asset_id, condition, description, source, photo_url, recorded_by, created_on
		 FROM condition_log WHERE asset_id = $1 ORDER BY created_on DESC`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ConditionLogEntry
	for rows.Next() {
		var e domain.ConditionLogEntry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Condition, &e.Description, &e.Source,
			&e.PhotoURL, &e.RecordedBy, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
