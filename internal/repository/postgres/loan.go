package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, code, requester_id, approver_id, loan_date, estimated_return_date, actual_return_date, approval_date, purpose, status, rejection_reason, created_on, updated_on`

func scanLoan(row interface{ Scan(...any) error }) (*domain.Loan, error) {
	l := &domain.Loan{}
	err := row.Scan(&l.ID, &l.Code, &l.RequesterID, &l.ApproverID, &l.LoanDate,
		&l.EstimatedReturnDate, &l.ActualReturnDate, &l.ApprovalDate, &l.Purpose,
		&l.Status, &l.RejectionReason, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedOn = now
	l.UpdatedOn = now

	_, err = tx.ExecContext(ctx,
		`INSERT INTO loans (`+loanColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.Code, l.RequesterID, l.ApproverID, l.LoanDate, l.EstimatedReturnDate,
		l.ActualReturnDate, l.ApprovalDate, l.Purpose, l.Status, l.RejectionReason,
		l.CreatedOn, l.UpdatedOn)
	if err != nil {
		return err
	}

	for i := range l.Items {
		item := &l.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.LoanID = l.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO loan_items (id, loan_id, asset_id, quantity, loan_condition)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.LoanID, item.AssetID, item.Quantity, item.LoanCondition)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *loanRepository) loadItems(ctx context.Context, loans ...*domain.Loan) error {
	for _, l := range loans {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, loan_id, asset_id, quantity, loan_condition FROM loan_items WHERE loan_id = $1 ORDER BY id`,
			l.ID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var item domain.LoanItem
			if err := rows.Scan(&item.ID, &item.LoanID, &item.AssetID, &item.Quantity, &item.LoanCondition); err != nil {
				rows.Close()
				return err
			}
			l.Items = append(l.Items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	l, err := scanLoan(r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) GetByCode(ctx context.Context, code string, statuses []domain.LoanStatus) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE code = $1`
	args := []any{code}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		ss := make([]string, len(statuses))
		for i, s := range statuses {
			ss[i] = string(s)
		}
		args = append(args, pq.Array(ss))
	}
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) List(ctx context.Context, requesterID string, status domain.LoanStatus) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	var args []any
	var where []string
	if requesterID != "" {
		args = append(args, requesterID)
		where = append(where, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range loans {
		if err := r.loadItems(ctx, &loans[i]); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

func (r *loanRepository) SumPendingQuantity(ctx context.Context, assetID string) (int32, error) {
	var total int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(li.quantity), 0)
		 FROM loan_items li
		 JOIN loans l ON l.id = li.loan_id
		 WHERE li.asset_id = $1 AND l.status = $2`,
		assetID, domain.LoanStatusWaiting).Scan(&total)
	return total, err
}

// Approve runs the stock decrement and the status transition in one
// transaction, each as a conditional update. Either both apply or
// neither does; which update matched no row decides the error.
func (r *loanRepository) Approve(ctx context.Context, loanID, approverID, assetID string, qty int32, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE loans
		 SET status = $1, approver_id = $2, approval_date = $3, updated_on = $3
		 WHERE id = $4 AND status = $5`,
		domain.LoanStatusApproved, approverID, now, loanID, domain.LoanStatusWaiting)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		cur, err := scanLoan(tx.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
		if err != nil {
			return err
		}
		return &domain.InvalidStateError{LoanID: loanID, Current: cur.Status, Expected: []domain.LoanStatus{domain.LoanStatusWaiting}}
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE assets
		 SET available_units = available_units - $1, updated_on = $2
		 WHERE id = $3 AND is_active = TRUE AND available_units >= $1`,
		qty, now, assetID)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		var available int32
		if err := tx.QueryRowContext(ctx, `SELECT available_units FROM assets WHERE id = $1`, assetID).Scan(&available); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return &domain.StockInsufficientError{AssetID: assetID, Available: available, Requested: qty}
	}

	return tx.Commit()
}

func (r *loanRepository) Reject(ctx context.Context, loanID, approverID, reason string, now time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE loans
		 SET status = $1, approver_id = $2, approval_date = $3, rejection_reason = $4, updated_on = $3
		 WHERE id = $5 AND status = $6`,
		domain.LoanStatusRejected, approverID, now, reason, loanID, domain.LoanStatusWaiting)
	if err != nil {
		return err
	}
	return r.requireTransition(ctx, result, loanID, domain.LoanStatusWaiting)
}

func (r *loanRepository) Cancel(ctx context.Context, loanID, requesterID string, now time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE loans
		 SET status = $1, updated_on = $2
		 WHERE id = $3 AND requester_id = $4 AND status = $5`,
		domain.LoanStatusCancelled, now, loanID, requesterID, domain.LoanStatusWaiting)
	if err != nil {
		return err
	}
	return r.requireTransition(ctx, result, loanID, domain.LoanStatusWaiting)
}

func (r *loanRepository) MarkReturned(ctx context.Context, loanID string, now time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE loans
		 SET status = $1, actual_return_date = $2, updated_on = $2
		 WHERE id = $3 AND status = ANY($4)`,
		domain.LoanStatusReturned, now, loanID,
		pq.Array([]string{string(domain.LoanStatusApproved), string(domain.LoanStatusBorrowed)}))
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		cur, err := scanLoan(r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
		if err != nil {
			return err
		}
		return &domain.InvalidStateError{
			LoanID:   loanID,
			Current:  cur.Status,
			Expected: []domain.LoanStatus{domain.LoanStatusApproved, domain.LoanStatusBorrowed},
		}
	}
	return nil
}

func (r *loanRepository) MarkBorrowed(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`UPDATE loans
		 SET status = $1, updated_on = $2
		 WHERE status = $3 AND loan_date <= $2
		 RETURNING id`,
		domain.LoanStatusBorrowed, cutoff, domain.LoanStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *loanRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans
		 WHERE status = ANY($1) AND estimated_return_date < $2
		 ORDER BY estimated_return_date`,
		pq.Array([]string{string(domain.LoanStatusApproved), string(domain.LoanStatusBorrowed)}), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) requireTransition(ctx context.Context, result sql.Result, loanID string, expected domain.LoanStatus) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	cur, err := scanLoan(r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, loanID))
	if err != nil {
		return err
	}
	return &domain.InvalidStateError{LoanID: loanID, Current: cur.Status, Expected: []domain.LoanStatus{expected}}
}
