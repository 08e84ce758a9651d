package service_test

import (
	"context"
	"errors"
	"testing"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type returnFixture struct {
	loanRepo     *MockLoanRepo
	assetRepo    *MockAssetRepo
	returnRepo   *MockReturnRepo
	logRepo      *MockConditionLogRepo
	categoryRepo *MockCategoryRepo
	complaintSvc *MockComplaintService
	svc          service.ReturnService
}

func newReturnFixture() *returnFixture {
	f := &returnFixture{
		loanRepo:     new(MockLoanRepo),
		assetRepo:    new(MockAssetRepo),
		returnRepo:   new(MockReturnRepo),
		logRepo:      new(MockConditionLogRepo),
		categoryRepo: new(MockCategoryRepo),
		complaintSvc: new(MockComplaintService),
	}
	f.svc = service.NewReturnService(f.loanRepo, f.assetRepo, f.returnRepo, f.logRepo, f.categoryRepo, f.complaintSvc, stubActivity{})
	f.categoryRepo.On("GetByID", mock.Anything, "cat-1").
		Return(&domain.Category{ID: "cat-1", Name: "Elektronik"}, nil).Maybe()
	return f
}

func outstandingLoan(qty int32) *domain.Loan {
	return &domain.Loan{
		ID:          "l-1",
		Code:        "PJM-20260901-AAAA",
		RequesterID: "u-req",
		Status:      domain.LoanStatusApproved,
		Items:       []domain.LoanItem{{AssetID: "a-1", Quantity: qty, LoanCondition: domain.ConditionGood}},
	}
}

func breakdown(items ...service.ReturnItemInput) service.ProcessReturnInput {
	return service.ProcessReturnInput{LoanID: "l-1", Items: items}
}

func (f *returnFixture) expectRecordWrites() {
	f.returnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Return")).Return(nil)
	f.logRepo.On("Append", mock.Anything, mock.AnythingOfType("*domain.ConditionLogEntry")).Return(nil)
}

func TestProcessReturnValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("breakdown must sum to the loaned quantity", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 3},
		))
		var qtyErr *domain.QuantityMismatchError
		require.ErrorAs(t, err, &qtyErr)
		assert.Equal(t, int32(4), qtyErr.Loaned)
		assert.Equal(t, int32(3), qtyErr.Returned)
		f.loanRepo.AssertNotCalled(t, "MarkReturned")
	})

	t.Run("waiting loan cannot be returned", func(t *testing.T) {
		f := newReturnFixture()
		waiting := outstandingLoan(4)
		waiting.Status = domain.LoanStatusWaiting
		f.loanRepo.On("GetByID", ctx, "l-1").Return(waiting, nil).Once()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 4},
		))
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.LoanStatusWaiting, stateErr.Current)
	})

	t.Run("unknown condition is rejected before any mutation", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: "SOAKED", Quantity: 4},
		))
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		f.loanRepo.AssertNotCalled(t, "MarkReturned")
		f.assetRepo.AssertNotCalled(t, "ReleaseUnits")
	})

	t.Run("requester role cannot process returns", func(t *testing.T) {
		f := newReturnFixture()
		_, err := f.svc.ProcessReturn(ctx, requester, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 4},
		))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("losing the status race stops processing", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).
			Return(&domain.InvalidStateError{LoanID: "l-1", Current: domain.LoanStatusReturned}).Once()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 4},
		))
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		f.assetRepo.AssertNotCalled(t, "ReleaseUnits")
		f.returnRepo.AssertNotCalled(t, "Create")
	})
}

func TestProcessReturnSameCondition(t *testing.T) {
	ctx := context.Background()
	f := newReturnFixture()

	f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
	f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
	f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	f.assetRepo.On("ReleaseUnits", ctx, "a-1", int32(4)).Return(nil).Once()
	f.expectRecordWrites()

	ret, err := f.svc.ProcessReturn(ctx, staff, breakdown(
		service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 4},
	))
	require.NoError(t, err)
	assert.Equal(t, "u-staff", ret.HandlerID)
	require.Len(t, ret.Items, 1)
	assert.False(t, ret.Items[0].DamageDetected)

	f.assetRepo.AssertExpectations(t)
	f.assetRepo.AssertNotCalled(t, "ShrinkLot")
	f.assetRepo.AssertNotCalled(t, "Reclassify")
}

func TestProcessReturnPartialSplit(t *testing.T) {
	ctx := context.Background()

	t.Run("spawns a sibling lot for the damaged units", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		f.assetRepo.On("ReleaseUnits", ctx, "a-1", int32(2)).Return(nil).Once()
		f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(2)).Return(nil).Once()
		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMinorDamage).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Asset) bool {
			return a.Condition == domain.ConditionMinorDamage &&
				a.TotalUnits == 2 && a.AvailableUnits == 2 &&
				a.Name == "Projector" && a.CategoryID == "cat-1" && a.LocationID == "loc-1" &&
				a.IsActive && a.Code != "" && a.Code != "ELK-PRO-BK-20240101-AAAA"
		})).Return(nil).Once()
		f.expectRecordWrites()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 2},
			service.ReturnItemInput{Condition: domain.ConditionMinorDamage, Quantity: 2},
		))
		require.NoError(t, err)
		f.assetRepo.AssertExpectations(t)
	})

	t.Run("merges into an existing sibling lot", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		sibling := projectorLot(3, 3)
		sibling.ID = "a-2"
		sibling.Condition = domain.ConditionMinorDamage

		f.assetRepo.On("ReleaseUnits", ctx, "a-1", int32(2)).Return(nil).Once()
		f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(2)).Return(nil).Once()
		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMinorDamage).
			Return(sibling, nil).Once()
		f.assetRepo.On("GrowLot", ctx, "a-2", int32(2)).Return(nil).Once()
		f.expectRecordWrites()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 2},
			service.ReturnItemInput{Condition: domain.ConditionMinorDamage, Quantity: 2},
		))
		require.NoError(t, err)
		f.assetRepo.AssertExpectations(t)
		f.assetRepo.AssertNotCalled(t, "Create")
	})
}

func TestProcessReturnWholeLotReclassification(t *testing.T) {
	ctx := context.Background()

	t.Run("relabels the lot in place", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(10), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 0), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMajorDamage).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Reclassify", ctx, "a-1", domain.ConditionMajorDamage, int32(10)).Return(nil).Once()
		f.expectRecordWrites()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionMajorDamage, Quantity: 10},
		))
		require.NoError(t, err)
		f.assetRepo.AssertExpectations(t)
		f.assetRepo.AssertNotCalled(t, "ShrinkLot")
		f.assetRepo.AssertNotCalled(t, "Create")
	})

	t.Run("collision with an active sibling merges instead", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(10), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 0), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		sibling := projectorLot(5, 5)
		sibling.ID = "a-2"
		sibling.Condition = domain.ConditionMajorDamage

		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMajorDamage).
			Return(sibling, nil).Once()
		f.assetRepo.On("AbsorbLot", ctx, "a-2", "a-1", int32(10)).Return(nil).Once()
		f.expectRecordWrites()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionMajorDamage, Quantity: 10},
		))
		require.NoError(t, err)
		f.assetRepo.AssertExpectations(t)
		f.assetRepo.AssertNotCalled(t, "Reclassify")
	})

	t.Run("a split followed by the remainder reclassifies the rest", func(t *testing.T) {
		// Lot of 10, all loaned, returned as 5 minor + 5 major: the first
		// line splits 5 off, the second covers everything left in the lot.
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(10), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 0), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(5)).Return(nil).Once()
		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMinorDamage).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).Return(nil).Once()

		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMajorDamage).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Reclassify", ctx, "a-1", domain.ConditionMajorDamage, int32(5)).Return(nil).Once()
		f.expectRecordWrites()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionMinorDamage, Quantity: 5},
			service.ReturnItemInput{Condition: domain.ConditionMajorDamage, Quantity: 5},
		))
		require.NoError(t, err)
		f.assetRepo.AssertExpectations(t)
	})
}

func TestProcessReturnLostItems(t *testing.T) {
	ctx := context.Background()

	t.Run("spawns a complaint for the borrower", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		f.assetRepo.On("ReleaseUnits", ctx, "a-1", int32(3)).Return(nil).Once()
		f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(1)).Return(nil).Once()
		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionLost).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).Return(nil).Once()
		f.expectRecordWrites()
		f.complaintSvc.On("CreateFromLostItem", ctx, "a-1", "u-req", "l-1").
			Return(&domain.Complaint{ID: "c-1", Priority: domain.PriorityHigh}, nil).Once()

		_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 3},
			service.ReturnItemInput{Condition: domain.ConditionLost, Quantity: 1},
		))
		require.NoError(t, err)
		f.complaintSvc.AssertExpectations(t)
	})

	t.Run("a failed complaint never rolls back the return", func(t *testing.T) {
		f := newReturnFixture()
		f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
		f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
		f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

		f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(4)).Return(nil).Once()
		f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionLost).
			Return(nil, domain.ErrNotFound).Once()
		f.assetRepo.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).Return(nil).Once()
		f.expectRecordWrites()
		f.complaintSvc.On("CreateFromLostItem", ctx, "a-1", "u-req", "l-1").
			Return(nil, errors.New("complaint store down")).Once()

		ret, err := f.svc.ProcessReturn(ctx, staff, breakdown(
			service.ReturnItemInput{Condition: domain.ConditionLost, Quantity: 4},
		))
		require.NoError(t, err)
		assert.NotNil(t, ret)
	})
}

func TestProcessReturnConditionLedger(t *testing.T) {
	ctx := context.Background()
	f := newReturnFixture()
	f.loanRepo.On("GetByID", ctx, "l-1").Return(outstandingLoan(4), nil).Once()
	f.assetRepo.On("GetByID", ctx, "a-1").Return(projectorLot(10, 6), nil).Once()
	f.loanRepo.On("MarkReturned", ctx, "l-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	f.assetRepo.On("ReleaseUnits", ctx, "a-1", int32(2)).Return(nil).Once()
	f.assetRepo.On("ShrinkLot", ctx, "a-1", int32(2)).Return(nil).Once()
	f.assetRepo.On("FindActiveSibling", ctx, "Projector", "cat-1", "loc-1", domain.ConditionMinorDamage).
		Return(nil, domain.ErrNotFound).Once()
	f.assetRepo.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).Return(nil).Once()
	f.returnRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Return")).Return(nil)

	var entries []*domain.ConditionLogEntry
	f.logRepo.On("Append", mock.Anything, mock.AnythingOfType("*domain.ConditionLogEntry")).
		Run(func(args mock.Arguments) {
			entries = append(entries, args.Get(1).(*domain.ConditionLogEntry))
		}).Return(nil)

	_, err := f.svc.ProcessReturn(ctx, staff, breakdown(
		service.ReturnItemInput{Condition: domain.ConditionGood, Quantity: 2, Notes: "fine"},
		service.ReturnItemInput{Condition: domain.ConditionMinorDamage, Quantity: 2, Notes: "scratched lens"},
	))
	require.NoError(t, err)

	// One ledger entry per breakdown line, all against the originating lot.
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "a-1", e.AssetID)
		assert.Equal(t, "Return PJM-20260901-AAAA", e.Source)
		assert.Equal(t, "u-staff", e.RecordedBy)
	}
	assert.Equal(t, domain.ConditionGood, entries[0].Condition)
	assert.Equal(t, domain.ConditionMinorDamage, entries[1].Condition)
}
