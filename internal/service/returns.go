package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/repository"
	"sarpras-backend/internal/utils"
)

// returnService implements the condition-split reconciliation that runs
// when borrowed units come back. Returned units re-enter circulation in
// whatever lot matches their observed condition: unchanged units go back
// to the originating lot, changed units move to (or create) a sibling lot
// of the new condition, and a whole-lot change simply relabels the lot.
type returnService struct {
	loanRepo     repository.LoanRepository
	assetRepo    repository.AssetRepository
	returnRepo   repository.ReturnRepository
	logRepo      repository.ConditionLogRepository
	categoryRepo repository.CategoryRepository
	complaintSvc ComplaintService
	activitySvc  ActivityService
	now          func() time.Time
}

func NewReturnService(
	loanRepo repository.LoanRepository,
	assetRepo repository.AssetRepository,
	returnRepo repository.ReturnRepository,
	logRepo repository.ConditionLogRepository,
	categoryRepo repository.CategoryRepository,
	complaintSvc ComplaintService,
	activitySvc ActivityService,
) ReturnService {
	return &returnService{
		loanRepo:     loanRepo,
		assetRepo:    assetRepo,
		returnRepo:   returnRepo,
		logRepo:      logRepo,
		categoryRepo: categoryRepo,
		complaintSvc: complaintSvc,
		activitySvc:  activitySvc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *returnService) ProcessReturn(ctx context.Context, actor domain.Actor, in ProcessReturnInput) (*domain.Return, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "breakdown must not be empty"}
	}

	loan, err := s.loanRepo.GetByID(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}
	if !loan.Status.Outstanding() {
		return nil, &domain.InvalidStateError{
			LoanID:   loan.ID,
			Current:  loan.Status,
			Expected: []domain.LoanStatus{domain.LoanStatusApproved, domain.LoanStatusBorrowed},
		}
	}
	item, err := singleItem(loan)
	if err != nil {
		return nil, err
	}

	// All structural validation happens before any mutation.
	var returned int32
	for _, li := range in.Items {
		if li.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
		if !domain.ValidCondition(li.Condition) {
			return nil, &domain.ValidationError{Field: "condition", Reason: fmt.Sprintf("unknown condition %q", li.Condition)}
		}
		returned += li.Quantity
	}
	if returned != item.Quantity {
		return nil, &domain.QuantityMismatchError{LoanID: loan.ID, Loaned: item.Quantity, Returned: returned}
	}

	lot, err := s.assetRepo.GetByID(ctx, item.AssetID)
	if err != nil {
		return nil, err
	}

	// The status transition doubles as the concurrency gate: of two
	// racing return submissions only one wins the conditional update,
	// so lot mutations below run at most once per loan.
	now := s.now()
	if err := s.loanRepo.MarkReturned(ctx, loan.ID, now); err != nil {
		return nil, err
	}

	if err := s.reconcile(ctx, lot, in.Items); err != nil {
		return nil, fmt.Errorf("reconcile return for loan %s: %w", loan.Code, err)
	}

	// Record writes follow the lot mutations so a storage failure here
	// never leaves history describing stock that was not moved.
	ret := &domain.Return{
		LoanID:     loan.ID,
		HandlerID:  actor.ID,
		ReturnedOn: now,
		Notes:      in.Notes,
	}
	for _, li := range in.Items {
		ret.Items = append(ret.Items, domain.ReturnItem{
			AssetID:        lot.ID,
			Quantity:       li.Quantity,
			Condition:      li.Condition,
			Notes:          li.Notes,
			PhotoURL:       li.PhotoURL,
			DamageDetected: li.Condition != domain.ConditionGood,
		})
	}
	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}

	// History always targets the originating lot: it tells that lot's
	// story even when units moved to a split-off sibling.
	for _, li := range in.Items {
		entry := &domain.ConditionLogEntry{
			AssetID:     lot.ID,
			Condition:   li.Condition,
			Description: li.Notes,
			Source:      fmt.Sprintf("Return %s", loan.Code),
			PhotoURL:    li.PhotoURL,
			RecordedBy:  actor.ID,
		}
		if err := s.logRepo.Append(ctx, entry); err != nil {
			return nil, err
		}
	}

	for _, li := range in.Items {
		if li.Condition != domain.ConditionLost {
			continue
		}
		// Lost units spawn a complaint, but a failed complaint never
		// rolls back the return.
		if _, err := s.complaintSvc.CreateFromLostItem(ctx, lot.ID, loan.RequesterID, loan.ID); err != nil {
			logger.Error("complaint creation for lost item failed", "loan", loan.Code, "asset", lot.ID, "error", err)
		}
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "PROCESS_RETURN",
		Module:      "RETURN",
		Description: fmt.Sprintf("Return processed for loan %s", loan.Code),
		DataAfter:   map[string]any{"loan_id": loan.ID, "items": len(in.Items)},
	})
	return ret, nil
}

// reconcile applies the per-line lot arithmetic. For a line of quantity q
// against the originating lot L (T = L.total at that point):
//
//	condition unchanged   available += q
//	changed, q == T       relabel L, available += q (merge into an
//	                      existing sibling instead if one exists)
//	changed, q <  T       total -= q on L; sibling total += q,
//	                      available += q (created if missing)
//
// Unchanged-condition lines are applied first so that a breakdown like
// [good 2, damaged 8] against a 10-unit lot shrinks the lot rather than
// relabelling units that just came back as good. The group-wide sums of
// total and available across (name, category, location) are preserved by
// every branch.
func (s *returnService) reconcile(ctx context.Context, lot *domain.Asset, items []ReturnItemInput) error {
	remainingTotal := lot.TotalUnits

	categoryName := ""
	if cat, err := s.categoryRepo.GetByID(ctx, lot.CategoryID); err == nil {
		categoryName = cat.Name
	}

	ordered := make([]ReturnItemInput, 0, len(items))
	for _, li := range items {
		if li.Condition == lot.Condition {
			ordered = append(ordered, li)
		}
	}
	for _, li := range items {
		if li.Condition != lot.Condition {
			ordered = append(ordered, li)
		}
	}

	for _, li := range ordered {
		if li.Condition == lot.Condition {
			if err := s.assetRepo.ReleaseUnits(ctx, lot.ID, li.Quantity); err != nil {
				return err
			}
			continue
		}

		if li.Quantity >= remainingTotal {
			// Whole-lot reclassification. If an active sibling already
			// carries the new condition, relabelling would leave two
			// active lots with identical identity, so merge instead.
			sibling, err := s.assetRepo.FindActiveSibling(ctx, lot.Name, lot.CategoryID, lot.LocationID, li.Condition)
			switch {
			case err == nil:
				if err := s.assetRepo.AbsorbLot(ctx, sibling.ID, lot.ID, li.Quantity); err != nil {
					return err
				}
			case errors.Is(err, domain.ErrNotFound):
				if err := s.assetRepo.Reclassify(ctx, lot.ID, li.Condition, li.Quantity); err != nil {
					return err
				}
			default:
				return err
			}
			remainingTotal = 0
			continue
		}

		// Partial split: move the units out of L, then into the sibling
		// lot of the new condition.
		if err := s.assetRepo.ShrinkLot(ctx, lot.ID, li.Quantity); err != nil {
			return err
		}
		remainingTotal -= li.Quantity

		sibling, err := s.assetRepo.FindActiveSibling(ctx, lot.Name, lot.CategoryID, lot.LocationID, li.Condition)
		switch {
		case err == nil:
			if err := s.assetRepo.GrowLot(ctx, sibling.ID, li.Quantity); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			split := &domain.Asset{
				Code:            utils.GenerateAssetCode(lot.Name, categoryName, li.Condition),
				Name:            lot.Name,
				CategoryID:      lot.CategoryID,
				LocationID:      lot.LocationID,
				TotalUnits:      li.Quantity,
				AvailableUnits:  li.Quantity,
				Condition:       li.Condition,
				AcquisitionDate: lot.AcquisitionDate,
				PhotoURL:        lot.PhotoURL,
				IsActive:        true,
			}
			if err := s.assetRepo.Create(ctx, split); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

func (s *returnService) ListReturns(ctx context.Context, actor domain.Actor) ([]domain.Return, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	return s.returnRepo.List(ctx)
}
