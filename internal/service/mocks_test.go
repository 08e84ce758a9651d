package service_test

import (
	"context"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockCategoryRepo struct{ mock.Mock }

func (m *MockCategoryRepo) Create(ctx context.Context, cat *domain.Category) error {
	return m.Called(ctx, cat).Error(0)
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockLocationRepo struct{ mock.Mock }

func (m *MockLocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *MockLocationRepo) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Location), args.Error(1)
}

type MockAssetRepo struct{ mock.Mock }

func (m *MockAssetRepo) Create(ctx context.Context, asset *domain.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) ListActive(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) Update(ctx context.Context, asset *domain.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepo) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssetRepo) FindActiveSibling(ctx context.Context, name, categoryID, locationID string, condition domain.AssetCondition) (*domain.Asset, error) {
	args := m.Called(ctx, name, categoryID, locationID, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) ReserveUnits(ctx context.Context, id string, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockAssetRepo) ReleaseUnits(ctx context.Context, id string, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockAssetRepo) ShrinkLot(ctx context.Context, id string, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockAssetRepo) GrowLot(ctx context.Context, id string, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockAssetRepo) Reclassify(ctx context.Context, id string, condition domain.AssetCondition, returnedQty int32) error {
	return m.Called(ctx, id, condition, returnedQty).Error(0)
}

func (m *MockAssetRepo) AbsorbLot(ctx context.Context, targetID, sourceID string, returnedQty int32) error {
	return m.Called(ctx, targetID, sourceID, returnedQty).Error(0)
}

type MockLoanRepo struct{ mock.Mock }

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *MockLoanRepo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepo) GetByCode(ctx context.Context, code string, statuses []domain.LoanStatus) (*domain.Loan, error) {
	args := m.Called(ctx, code, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepo) List(ctx context.Context, requesterID string, status domain.LoanStatus) ([]domain.Loan, error) {
	args := m.Called(ctx, requesterID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepo) SumPendingQuantity(ctx context.Context, assetID string) (int32, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockLoanRepo) Approve(ctx context.Context, loanID, approverID, assetID string, qty int32, now time.Time) error {
	return m.Called(ctx, loanID, approverID, assetID, qty, now).Error(0)
}

func (m *MockLoanRepo) Reject(ctx context.Context, loanID, approverID, reason string, now time.Time) error {
	return m.Called(ctx, loanID, approverID, reason, now).Error(0)
}

func (m *MockLoanRepo) Cancel(ctx context.Context, loanID, requesterID string, now time.Time) error {
	return m.Called(ctx, loanID, requesterID, now).Error(0)
}

func (m *MockLoanRepo) MarkReturned(ctx context.Context, loanID string, now time.Time) error {
	return m.Called(ctx, loanID, now).Error(0)
}

func (m *MockLoanRepo) MarkBorrowed(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLoanRepo) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

type MockReturnRepo struct{ mock.Mock }

func (m *MockReturnRepo) Create(ctx context.Context, ret *domain.Return) error {
	return m.Called(ctx, ret).Error(0)
}

func (m *MockReturnRepo) GetByLoanID(ctx context.Context, loanID string) (*domain.Return, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}

func (m *MockReturnRepo) List(ctx context.Context) ([]domain.Return, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Return), args.Error(1)
}

type MockConditionLogRepo struct{ mock.Mock }

func (m *MockConditionLogRepo) Append(ctx context.Context, entry *domain.ConditionLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockConditionLogRepo) ListByAsset(ctx context.Context, assetID string) ([]domain.ConditionLogEntry, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConditionLogEntry), args.Error(1)
}

type MockComplaintRepo struct{ mock.Mock }

func (m *MockComplaintRepo) Create(ctx context.Context, c *domain.Complaint) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepo) List(ctx context.Context, reporterID string) ([]domain.Complaint, error) {
	args := m.Called(ctx, reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *MockComplaintRepo) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendLoanApproved(ctx context.Context, email, name, loanCode, assetName string) error {
	return m.Called(ctx, email, name, loanCode, assetName).Error(0)
}

func (m *MockEmailService) SendLoanRejected(ctx context.Context, email, name, loanCode, reason string) error {
	return m.Called(ctx, email, name, loanCode, reason).Error(0)
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, loanCode string, dueDate time.Time) error {
	return m.Called(ctx, email, name, loanCode, dueDate).Error(0)
}

type MockComplaintService struct{ mock.Mock }

func (m *MockComplaintService) Create(ctx context.Context, actor domain.Actor, in service.CreateComplaintInput) (*domain.Complaint, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) CreateFromLostItem(ctx context.Context, assetID, borrowerID, loanID string) (*domain.Complaint, error) {
	args := m.Called(ctx, assetID, borrowerID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) List(ctx context.Context, actor domain.Actor) ([]domain.Complaint, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *MockComplaintService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ComplaintStatus) error {
	return m.Called(ctx, actor, id, status).Error(0)
}

// stubActivity satisfies service.ActivityService without asserting on
// audit writes; tests that care about the audit trail use their own mock.
type stubActivity struct{}

func (stubActivity) Record(ctx context.Context, entry domain.ActivityLogEntry) {}

func (stubActivity) List(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.ActivityLogEntry, int32, error) {
	return nil, 0, nil
}
