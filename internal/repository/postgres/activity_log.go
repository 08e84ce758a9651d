package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"

	"github.com/google/uuid"
)

type activityLogRepository struct {
	db *sql.DB
}

func NewActivityLogRepository(db *sql.DB) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, e *domain.ActivityLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedOn = time.Now().UTC()

	before, err := marshalNullable(e.DataBefore)
	if err != nil {
		return err
	}
	after, err := marshalNullable(e.DataAfter)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, actor_id, action, module, description, data_before, data_after, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ActorID, e.Action, e.Module, e.Description, before, after, e.CreatedOn)
	return err
}

func (r *activityLogRepository) List(ctx context.Context, page, pageSize int32) ([]domain.ActivityLogEntry, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM activity_log`).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, action, module, description, data_before, data_after, created_on
		 FROM activity_log ORDER BY created_on DESC LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.ActivityLogEntry
	for rows.Next() {
		var e domain.ActivityLogEntry
		var before, after []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Module, &e.Description, &before, &after, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(before) > 0 {
			if err := json.Unmarshal(before, &e.DataBefore); err != nil {
				return nil, 0, err
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &e.DataAfter); err != nil {
				return nil, 0, err
			}
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}

func marshalNullable(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return b, nil
}
