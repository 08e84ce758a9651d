package service

import (
	"context"
	"fmt"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/repository"
	"sarpras-backend/internal/utils"
)

type loanService struct {
	loanRepo    repository.LoanRepository
	assetRepo   repository.AssetRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	activitySvc ActivityService
	now         func() time.Time
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	assetRepo repository.AssetRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	activitySvc ActivityService,
) LoanService {
	return &loanService{
		loanRepo:    loanRepo,
		assetRepo:   assetRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		activitySvc: activitySvc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates against effective stock recomputed at submission time.
// The check is advisory: two racing submissions may both pass, which is
// accepted because approval re-validates against the lot row before any
// stock is committed.
func (s *loanService) Submit(ctx context.Context, actor domain.Actor, in SubmitLoanInput) (*domain.Loan, error) {
	if in.Quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if in.EstimatedReturnDate.Before(in.LoanDate) {
		return nil, &domain.ValidationError{Field: "estimated_return_date", Reason: "must not be before loan date"}
	}

	asset, err := s.assetRepo.GetByID(ctx, in.AssetID)
	if err != nil {
		return nil, err
	}
	if !asset.IsActive {
		return nil, domain.ErrNotFound
	}

	pending, err := s.loanRepo.SumPendingQuantity(ctx, in.AssetID)
	if err != nil {
		return nil, err
	}
	effective := asset.AvailableUnits - pending
	if in.Quantity > effective {
		return nil, &domain.StockInsufficientError{
			AssetID:   in.AssetID,
			Available: asset.AvailableUnits,
			Pending:   pending,
			Effective: effective,
			Requested: in.Quantity,
		}
	}

	loan := &domain.Loan{
		Code:                utils.GenerateLoanCode(),
		RequesterID:         actor.ID,
		LoanDate:            in.LoanDate,
		EstimatedReturnDate: in.EstimatedReturnDate,
		Purpose:             in.Purpose,
		Status:              domain.LoanStatusWaiting,
		Items: []domain.LoanItem{{
			AssetID:       asset.ID,
			Quantity:      in.Quantity,
			LoanCondition: asset.Condition,
		}},
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "CREATE_LOAN",
		Module:      "LOAN",
		Description: fmt.Sprintf("Loan %s submitted for %d unit(s) of %s", loan.Code, in.Quantity, asset.Name),
		DataAfter:   map[string]any{"loan_id": loan.ID, "asset_id": asset.ID, "quantity": in.Quantity},
	})
	return loan, nil
}

func (s *loanService) Approve(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusWaiting {
		return nil, &domain.InvalidStateError{LoanID: loanID, Current: loan.Status, Expected: []domain.LoanStatus{domain.LoanStatusWaiting}}
	}
	item, err := singleItem(loan)
	if err != nil {
		return nil, err
	}

	// The decrement-iff-sufficient and the status transition commit
	// together; a racing approver loses on one of the two conditional
	// updates and the whole transaction rolls back.
	if err := s.loanRepo.Approve(ctx, loanID, actor.ID, item.AssetID, item.Quantity, s.now()); err != nil {
		return nil, err
	}

	loan, err = s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "APPROVE_LOAN",
		Module:      "LOAN",
		Description: fmt.Sprintf("Loan %s approved", loan.Code),
		DataAfter:   map[string]any{"loan_id": loan.ID, "status": loan.Status},
	})
	s.notifyRequester(ctx, loan, "")
	return loan, nil
}

func (s *loanService) Reject(ctx context.Context, actor domain.Actor, loanID, reason string) (*domain.Loan, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Reason: "must not be empty"}
	}

	if err := s.loanRepo.Reject(ctx, loanID, actor.ID, reason, s.now()); err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "REJECT_LOAN",
		Module:      "LOAN",
		Description: fmt.Sprintf("Loan %s rejected: %s", loan.Code, reason),
		DataAfter:   map[string]any{"loan_id": loan.ID, "status": loan.Status, "reason": reason},
	})
	s.notifyRequester(ctx, loan, reason)
	return loan, nil
}

// Cancel is the requester withdrawing their own waiting request. Stock
// was never decremented for a waiting loan, so there is no stock side
// effect.
func (s *loanService) Cancel(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error) {
	if err := s.loanRepo.Cancel(ctx, loanID, actor.ID, s.now()); err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "CANCEL_LOAN",
		Module:      "LOAN",
		Description: fmt.Sprintf("Loan %s cancelled by requester", loan.Code),
		DataAfter:   map[string]any{"loan_id": loan.ID, "status": loan.Status},
	})
	return loan, nil
}

func (s *loanService) Get(ctx context.Context, actor domain.Actor, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Privileged() && loan.RequesterID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return loan, nil
}

func (s *loanService) GetOutstandingByCode(ctx context.Context, code string) (*domain.Loan, error) {
	return s.loanRepo.GetByCode(ctx, code,
		[]domain.LoanStatus{domain.LoanStatusApproved, domain.LoanStatusBorrowed})
}

func (s *loanService) List(ctx context.Context, actor domain.Actor, status domain.LoanStatus) ([]domain.Loan, error) {
	requesterID := ""
	if !actor.Role.Privileged() {
		requesterID = actor.ID
	}
	return s.loanRepo.List(ctx, requesterID, status)
}

func (s *loanService) notifyRequester(ctx context.Context, loan *domain.Loan, reason string) {
	requester, err := s.userRepo.GetByID(ctx, loan.RequesterID)
	if err != nil || requester.Email == "" {
		return
	}
	assetName := ""
	if len(loan.Items) > 0 {
		if asset, err := s.assetRepo.GetByID(ctx, loan.Items[0].AssetID); err == nil {
			assetName = asset.Name
		}
	}
	switch loan.Status {
	case domain.LoanStatusApproved:
		err = s.emailSvc.SendLoanApproved(ctx, requester.Email, requester.FullName, loan.Code, assetName)
	case domain.LoanStatusRejected:
		err = s.emailSvc.SendLoanRejected(ctx, requester.Email, requester.FullName, loan.Code, reason)
	default:
		return
	}
	if err != nil {
		logger.Warn("loan notification email failed", "loan", loan.Code, "error", err)
	}
}

// singleItem enforces the one-lot-per-loan limitation of the
// reconciliation flow. The data model allows several items; processing
// does not, so a multi-item loan is reported instead of mishandled.
func singleItem(loan *domain.Loan) (*domain.LoanItem, error) {
	if len(loan.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "loan has no line items"}
	}
	if len(loan.Items) > 1 {
		return nil, &domain.ValidationError{Field: "items", Reason: "multi-item loans are not supported"}
	}
	return &loan.Items[0], nil
}
