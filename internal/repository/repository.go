package repository

import (
	"context"
	"time"

	"sarpras-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type CategoryRepository interface {
	Create(ctx context.Context, cat *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
}

// AssetRepository persists inventory lots. The mutating stock operations
// are each a single conditional UPDATE checked by affected-row count, so
// concurrency correctness comes from the database row, not from
// application-level locks.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListActive(ctx context.Context) ([]domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Deactivate(ctx context.Context, id string) error

	// FindActiveSibling returns the active lot sharing name, category,
	// location and condition, or domain.ErrNotFound.
	FindActiveSibling(ctx context.Context, name, categoryID, locationID string, condition domain.AssetCondition) (*domain.Asset, error)

	// ReserveUnits decrements available_units by qty iff enough units are
	// available. Returns domain.ErrNotFound when the row did not match;
	// callers translate that into a StockInsufficientError.
	ReserveUnits(ctx context.Context, id string, qty int32) error

	// ReleaseUnits increments available_units by qty.
	ReleaseUnits(ctx context.Context, id string, qty int32) error

	// ShrinkLot moves qty units out of the lot: total_units -= qty. Only
	// applies while qty is strictly less than total_units; returns
	// domain.ErrNotFound otherwise so callers fall back to whole-lot
	// reclassification.
	ShrinkLot(ctx context.Context, id string, qty int32) error

	// GrowLot merges qty units into the lot: total_units += qty,
	// available_units += qty.
	GrowLot(ctx context.Context, id string, qty int32) error

	// Reclassify relabels the whole lot with a new condition and returns
	// returnedQty units to its available pool in the same statement.
	Reclassify(ctx context.Context, id string, condition domain.AssetCondition, returnedQty int32) error

	// AbsorbLot merges the source lot plus returnedQty freshly returned
	// units into the target lot and deactivates the source, as one
	// transaction. Used when a whole-lot reclassification would collide
	// with an existing active sibling.
	AbsorbLot(ctx context.Context, targetID, sourceID string, returnedQty int32) error
}

// LoanRepository persists loan requests and their line items.
type LoanRepository interface {
	// Create inserts the loan and its items in one transaction.
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	// GetByCode looks up a loan by its human-readable code, restricted to
	// the given statuses when any are passed.
	GetByCode(ctx context.Context, code string, statuses []domain.LoanStatus) (*domain.Loan, error)
	List(ctx context.Context, requesterID string, status domain.LoanStatus) ([]domain.Loan, error)

	// SumPendingQuantity sums requested quantities across WAITING loans
	// for the asset.
	SumPendingQuantity(ctx context.Context, assetID string) (int32, error)

	// Approve applies the stock decrement and the WAITING -> APPROVED
	// transition as one transaction of two conditional updates. It
	// returns *domain.StockInsufficientError or *domain.InvalidStateError
	// when the respective update matched no row.
	Approve(ctx context.Context, loanID, approverID, assetID string, qty int32, now time.Time) error

	// Reject transitions WAITING -> REJECTED; *domain.InvalidStateError
	// when the loan is not waiting.
	Reject(ctx context.Context, loanID, approverID, reason string, now time.Time) error

	// Cancel transitions WAITING -> CANCELLED for the requester's own
	// loan.
	Cancel(ctx context.Context, loanID, requesterID string, now time.Time) error

	// MarkReturned transitions APPROVED|BORROWED -> RETURNED and stamps
	// the actual return date. The conditional update is the concurrency
	// gate for return processing; *domain.InvalidStateError when the loan
	// was not outstanding.
	MarkReturned(ctx context.Context, loanID string, now time.Time) error

	// MarkBorrowed transitions APPROVED -> BORROWED for loans whose loan
	// date has arrived; used by the scheduler. Returns the affected ids.
	MarkBorrowed(ctx context.Context, cutoff time.Time) ([]string, error)

	// ListOverdue returns outstanding loans past their estimated return
	// date.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Loan, error)
}

type ReturnRepository interface {
	// Create inserts the return header and its items in one transaction.
	Create(ctx context.Context, ret *domain.Return) error
	GetByLoanID(ctx context.Context, loanID string) (*domain.Return, error)
	List(ctx context.Context) ([]domain.Return, error)
}

// ConditionLogRepository is the append-only condition history ledger. No
// business logic: a plain insert that only fails on storage errors.
type ConditionLogRepository interface {
	Append(ctx context.Context, entry *domain.ConditionLogEntry) error
	ListByAsset(ctx context.Context, assetID string) ([]domain.ConditionLogEntry, error)
}

type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, reporterID string) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLogEntry) error
	List(ctx context.Context, page, pageSize int32) ([]domain.ActivityLogEntry, int32, error)
}
