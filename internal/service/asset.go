package service

import (
	"context"
	"fmt"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"
	"sarpras-backend/internal/utils"
)

type assetService struct {
	assetRepo    repository.AssetRepository
	loanRepo     repository.LoanRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	logRepo      repository.ConditionLogRepository
	activitySvc  ActivityService
}

func NewAssetService(
	assetRepo repository.AssetRepository,
	loanRepo repository.LoanRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	logRepo repository.ConditionLogRepository,
	activitySvc ActivityService,
) AssetService {
	return &assetService{
		assetRepo:    assetRepo,
		loanRepo:     loanRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		logRepo:      logRepo,
		activitySvc:  activitySvc,
	}
}

func (s *assetService) CreateAsset(ctx context.Context, actor domain.Actor, in CreateAssetInput) (*domain.Asset, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.TotalUnits < 0 {
		return nil, &domain.ValidationError{Field: "total_units", Reason: "must not be negative"}
	}
	if in.Condition == "" {
		in.Condition = domain.ConditionGood
	}
	if !domain.ValidCondition(in.Condition) {
		return nil, &domain.ValidationError{Field: "condition", Reason: fmt.Sprintf("unknown condition %q", in.Condition)}
	}

	cat, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category lookup: %w", err)
	}
	if _, err := s.locationRepo.GetByID(ctx, in.LocationID); err != nil {
		return nil, fmt.Errorf("location lookup: %w", err)
	}

	asset := &domain.Asset{
		Code:            utils.GenerateAssetCode(in.Name, cat.Name, in.Condition),
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		LocationID:      in.LocationID,
		TotalUnits:      in.TotalUnits,
		AvailableUnits:  in.TotalUnits,
		Condition:       in.Condition,
		AcquisitionDate: in.AcquisitionDate,
		PhotoURL:        in.PhotoURL,
		IsActive:        true,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "CREATE_ASSET",
		Module:      "ASSET",
		Description: fmt.Sprintf("Asset %s (%s) registered with %d units", asset.Name, asset.Code, asset.TotalUnits),
		DataAfter:   map[string]any{"asset_id": asset.ID, "total_units": asset.TotalUnits},
	})
	return asset, nil
}

func (s *assetService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

func (s *assetService) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.assetRepo.ListActive(ctx)
}

func (s *assetService) UpdateAsset(ctx context.Context, actor domain.Actor, asset *domain.Asset) error {
	if !actor.Role.Privileged() {
		return domain.ErrForbidden
	}
	if asset.AvailableUnits < 0 || asset.AvailableUnits > asset.TotalUnits {
		return &domain.ValidationError{Field: "available_units", Reason: "must be between 0 and total_units"}
	}
	if !domain.ValidCondition(asset.Condition) {
		return &domain.ValidationError{Field: "condition", Reason: fmt.Sprintf("unknown condition %q", asset.Condition)}
	}
	return s.assetRepo.Update(ctx, asset)
}

func (s *assetService) DeleteAsset(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Role.Privileged() {
		return domain.ErrForbidden
	}
	if err := s.assetRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "DELETE_ASSET",
		Module:      "ASSET",
		Description: fmt.Sprintf("Asset %s deactivated", id),
		DataBefore:  map[string]any{"asset_id": id},
	})
	return nil
}

// GetEffectiveStock computes available - pending for the asset, where
// pending is the sum over waiting requests. The figure is advisory: it
// can go stale (or negative) between read and approval, so approval
// re-validates against the lot row itself.
func (s *assetService) GetEffectiveStock(ctx context.Context, assetID string) (*domain.EffectiveStock, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	pending, err := s.loanRepo.SumPendingQuantity(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return &domain.EffectiveStock{
		AssetID:   assetID,
		Available: asset.AvailableUnits,
		Pending:   pending,
		Effective: asset.AvailableUnits - pending,
	}, nil
}

func (s *assetService) ListConditionHistory(ctx context.Context, assetID string) ([]domain.ConditionLogEntry, error) {
	return s.logRepo.ListByAsset(ctx, assetID)
}

func (s *assetService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *assetService) CreateCategory(ctx context.Context, actor domain.Actor, name, description string) (*domain.Category, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	cat := &domain.Category{Name: name, Description: description}
	if err := s.categoryRepo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *assetService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *assetService) CreateLocation(ctx context.Context, actor domain.Actor, name, floor, remarks string) (*domain.Location, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	loc := &domain.Location{Name: name, Floor: floor, Remarks: remarks}
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}
