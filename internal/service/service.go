package service

import (
	"context"
	"time"

	"sarpras-backend/internal/domain"
)

type AuthService interface {
	// Login verifies credentials and returns the user plus a signed
	// access token.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	Register(ctx context.Context, actor domain.Actor, username, password, fullName, email string, role domain.Role) (*domain.User, error)
}

type AssetService interface {
	CreateAsset(ctx context.Context, actor domain.Actor, in CreateAssetInput) (*domain.Asset, error)
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	UpdateAsset(ctx context.Context, actor domain.Actor, asset *domain.Asset) error
	DeleteAsset(ctx context.Context, actor domain.Actor, id string) error

	// GetEffectiveStock reports how many units of the asset can still be
	// promised to a new request, given waiting requests.
	GetEffectiveStock(ctx context.Context, assetID string) (*domain.EffectiveStock, error)

	ListConditionHistory(ctx context.Context, assetID string) ([]domain.ConditionLogEntry, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, actor domain.Actor, name, description string) (*domain.Category, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	CreateLocation(ctx context.Context, actor domain.Actor, name, floor, remarks string) (*domain.Location, error)
}

type LoanService interface {
	Submit(ctx context.Context, actor domain.Actor, in SubmitLoanInput) (*domain.Loan, error)
	Approve(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error)
	Reject(ctx context.Context, actor domain.Actor, loanID, reason string) (*domain.Loan, error)
	Cancel(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error)
	Get(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error)
	// GetOutstandingByCode looks up an approved or borrowed loan by its
	// code, as the return desk does.
	GetOutstandingByCode(ctx context.Context, code string) (*domain.Loan, error)
	List(ctx context.Context, actor domain.Actor, status domain.LoanStatus) ([]domain.Loan, error)
}

type ReturnService interface {
	// ProcessReturn runs the condition-split reconciliation for a loan.
	ProcessReturn(ctx context.Context, actor domain.Actor, in ProcessReturnInput) (*domain.Return, error)
	ListReturns(ctx context.Context, actor domain.Actor) ([]domain.Return, error)
}

type ComplaintService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateComplaintInput) (*domain.Complaint, error)
	// CreateFromLostItem is the side-effecting call return processing
	// makes for every LOST line. Its failure must never roll back a
	// return.
	CreateFromLostItem(ctx context.Context, assetID, borrowerID, loanID string) (*domain.Complaint, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ComplaintStatus) error
}

// ActivityService is the audit sink. Record is fire and forget: failures
// are logged, never propagated.
type ActivityService interface {
	Record(ctx context.Context, entry domain.ActivityLogEntry)
	List(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.ActivityLogEntry, int32, error)
}

type EmailService interface {
	SendLoanApproved(ctx context.Context, email, name, loanCode, assetName string) error
	SendLoanRejected(ctx context.Context, email, name, loanCode, reason string) error
	SendOverdueReminder(ctx context.Context, email, name, loanCode string, dueDate time.Time) error
}

type CreateAssetInput struct {
	Name            string
	CategoryID      string
	LocationID      string
	TotalUnits      int32
	Condition       domain.AssetCondition
	AcquisitionDate *time.Time
	PhotoURL        string
}

type SubmitLoanInput struct {
	AssetID             string
	Quantity            int32
	LoanDate            time.Time
	EstimatedReturnDate time.Time
	Purpose             string
}

type ReturnItemInput struct {
	Condition domain.AssetCondition
	Quantity  int32
	Notes     string
	PhotoURL  string
}

type ProcessReturnInput struct {
	LoanID string
	Notes  string
	Items  []ReturnItemInput
}

type CreateComplaintInput struct {
	Title       string
	Description string
	Location    string
	AssetID     string
	PhotoURL    string
	Priority    domain.ComplaintPriority
}
