package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"

	"github.com/google/uuid"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, l *domain.Location) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (id, name, floor, remarks, created_on) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.Name, l.Floor, l.Remarks, l.CreatedOn)
	return err
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	l := &domain.Location{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, floor, remarks, created_on FROM locations WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Floor, &l.Remarks, &l.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, floor, remarks, created_on FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Floor, &l.Remarks, &l.CreatedOn); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}
