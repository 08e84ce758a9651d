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

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, code, name, category_id, location_id, total_units, available_units, condition, acquisition_date, photo_url, is_active, created_on, updated_on`

func scanAsset(row interface{ Scan(...any) error }) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.CategoryID, &a.LocationID,
		&a.TotalUnits, &a.AvailableUnits, &a.Condition, &a.AcquisitionDate,
		&a.PhotoURL, &a.IsActive, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now
	query := `INSERT INTO assets (` + assetColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Code, a.Name, a.CategoryID, a.LocationID,
		a.TotalUnits, a.AvailableUnits, a.Condition, a.AcquisitionDate, a.PhotoURL,
		a.IsActive, a.CreatedOn, a.UpdatedOn)
	return err
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return scanAsset(r.db.QueryRowContext(ctx, query, id))
}

func (r *assetRepository) ListActive(ctx context.Context) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE is_active = TRUE ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets
	          SET name=$1, category_id=$2, location_id=$3, total_units=$4, available_units=$5,
	              condition=$6, acquisition_date=$7, photo_url=$8, updated_on=$9
	          WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, a.Name, a.CategoryID, a.LocationID,
		a.TotalUnits, a.AvailableUnits, a.Condition, a.AcquisitionDate, a.PhotoURL,
		time.Now().UTC(), a.ID)
	return err
}

func (r *assetRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE assets SET is_active = FALSE, updated_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	return err
}

func (r *assetRepository) FindActiveSibling(ctx context.Context, name, categoryID, locationID string, condition domain.AssetCondition) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
	          WHERE name = $1 AND category_id = $2 AND location_id = $3 AND condition = $4 AND is_active = TRUE
	          LIMIT 1`
	return scanAsset(r.db.QueryRowContext(ctx, query, name, categoryID, locationID, condition))
}

// ReserveUnits is the "decrement iff sufficient" primitive approval relies
// on. The WHERE clause carries the stock check so two racing approvers
// cannot both win the same units.
func (r *assetRepository) ReserveUnits(ctx context.Context, id string, qty int32) error {
	query := `UPDATE assets
	          SET available_units = available_units - $1, updated_on = $2
	          WHERE id = $3 AND is_active = TRUE AND available_units >= $1`
	return execExpectingRow(ctx, r.db, query, qty, time.Now().UTC(), id)
}

func (r *assetRepository) ReleaseUnits(ctx context.Context, id string, qty int32) error {
	query := `UPDATE assets
	          SET available_units = available_units + $1, updated_on = $2
	          WHERE id = $3`
	return execExpectingRow(ctx, r.db, query, qty, time.Now().UTC(), id)
}

func (r *assetRepository) ShrinkLot(ctx context.Context, id string, qty int32) error {
	query := `UPDATE assets
	          SET total_units = total_units - $1, updated_on = $2
	          WHERE id = $3 AND total_units > $1`
	return execExpectingRow(ctx, r.db, query, qty, time.Now().UTC(), id)
}

func (r *assetRepository) GrowLot(ctx context.Context, id string, qty int32) error {
	query := `UPDATE assets
	          SET total_units = total_units + $1, available_units = available_units + $1, updated_on = $2
	          WHERE id = $3 AND is_active = TRUE`
	return execExpectingRow(ctx, r.db, query, qty, time.Now().UTC(), id)
}

func (r *assetRepository) Reclassify(ctx context.Context, id string, condition domain.AssetCondition, returnedQty int32) error {
	query := `UPDATE assets
	          SET condition = $1, available_units = available_units + $2, updated_on = $3
	          WHERE id = $4`
	return execExpectingRow(ctx, r.db, query, condition, returnedQty, time.Now().UTC(), id)
}

func (r *assetRepository) AbsorbLot(ctx context.Context, targetID, sourceID string, returnedQty int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var total, available int32
	err = tx.QueryRowContext(ctx,
		`SELECT total_units, available_units FROM assets WHERE id = $1`, sourceID).
		Scan(&total, &available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE assets
		 SET total_units = total_units + $1, available_units = available_units + $2, updated_on = $3
		 WHERE id = $4 AND is_active = TRUE`,
		total, available+returnedQty, now, targetID)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE assets
		 SET is_active = FALSE, total_units = 0, available_units = 0, updated_on = $1
		 WHERE id = $2`, now, sourceID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// execExpectingRow runs a conditional update and maps "no row matched" to
// domain.ErrNotFound so callers can tell a failed condition apart from a
// transport error.
func execExpectingRow(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
