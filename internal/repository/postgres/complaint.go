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

type complaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) repository.ComplaintRepository {
	return &complaintRepository{db: db}
}

const complaintColumns = `id, reporter_id, title, description, location, asset_id, loan_id, photo_url, priority, status, created_on, updated_on`

func scanComplaint(row interface{ Scan(...any) error }) (*domain.Complaint, error) {
	c := &domain.Complaint{}
	err := row.Scan(&c.ID, &c.ReporterID, &c.Title, &c.Description, &c.Location,
		&c.AssetID, &c.LoanID, &c.PhotoURL, &c.Priority, &c.Status, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO complaints (`+complaintColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.ReporterID, c.Title, c.Description, c.Location, c.AssetID, c.LoanID,
		c.PhotoURL, c.Priority, c.Status, c.CreatedOn, c.UpdatedOn)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return scanComplaint(r.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
}

func (r *complaintRepository) List(ctx context.Context, reporterID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	if reporterID != "" {
		query += ` WHERE reporter_id = $1`
		args = append(args, reporterID)
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *c)
	}
	return complaints, rows.Err()
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE complaints SET status = $1, updated_on = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
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
