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

type returnRepository struct {
	db *sql.DB
}

func NewReturnRepository(db *sql.DB) repository.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.Return) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if ret.ID == "" {
		ret.ID = uuid.NewString()
	}
	ret.CreatedOn = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO returns (id, loan_id, handler_id, returned_on, notes, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ret.ID, ret.LoanID, ret.HandlerID, ret.ReturnedOn, ret.Notes, ret.CreatedOn)
	if err != nil {
		return err
	}

	for i := range ret.Items {
		item := &ret.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ReturnID = ret.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO return_items (id, return_id, asset_id, quantity, condition, notes, photo_url, damage_detected)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.ReturnID, item.AssetID, item.Quantity, item.Condition,
			item.Notes, item.PhotoURL, item.DamageDetected)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *returnRepository) scanItems(ctx context.Context, ret *domain.Return) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, return_id, asset_id, quantity, condition, notes, photo_url, damage_detected
		 FROM return_items WHERE return_id = $1 ORDER BY id`, ret.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.ReturnItem
		if err := rows.Scan(&item.ID, &item.ReturnID, &item.AssetID, &item.Quantity,
			&item.Condition, &item.Notes, &item.PhotoURL, &item.DamageDetected); err != nil {
			return err
		}
		ret.Items = append(ret.Items, item)
	}
	return rows.Err()
}

func (r *returnRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Return, error) {
	ret := &domain.Return{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, loan_id, handler_id, returned_on, notes, created_on
		 FROM returns WHERE loan_id = $1`, loanID).
		Scan(&ret.ID, &ret.LoanID, &ret.HandlerID, &ret.ReturnedOn, &ret.Notes, &ret.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.scanItems(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *returnRepository) List(ctx context.Context) ([]domain.Return, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, loan_id, handler_id, returned_on, notes, created_on
		 FROM returns ORDER BY returned_on DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var returns []domain.Return
	for rows.Next() {
		var ret domain.Return
		if err := rows.Scan(&ret.ID, &ret.LoanID, &ret.HandlerID, &ret.ReturnedOn, &ret.Notes, &ret.CreatedOn); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range returns {
		if err := r.scanItems(ctx, &returns[i]); err != nil {
			return nil, err
		}
	}
	return returns, nil
}
