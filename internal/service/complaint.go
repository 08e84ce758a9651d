package service

import (
	"context"
	"fmt"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"
)

type complaintService struct {
	complaintRepo repository.ComplaintRepository
	assetRepo     repository.AssetRepository
	activitySvc   ActivityService
}

func NewComplaintService(complaintRepo repository.ComplaintRepository, assetRepo repository.AssetRepository, activitySvc ActivityService) ComplaintService {
	return &complaintService{
		complaintRepo: complaintRepo,
		assetRepo:     assetRepo,
		activitySvc:   activitySvc,
	}
}

func (s *complaintService) Create(ctx context.Context, actor domain.Actor, in CreateComplaintInput) (*domain.Complaint, error) {
	if in.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.Description == "" {
		return nil, &domain.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	c := &domain.Complaint{
		ReporterID:  actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		PhotoURL:    in.PhotoURL,
		Priority:    priority,
		Status:      domain.ComplaintStatusWaiting,
	}
	if in.AssetID != "" {
		if _, err := s.assetRepo.GetByID(ctx, in.AssetID); err != nil {
			return nil, err
		}
		c.AssetID = &in.AssetID
	}
	if err := s.complaintRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "CREATE_COMPLAINT",
		Module:      "COMPLAINT",
		Description: fmt.Sprintf("Complaint %q filed", c.Title),
	})
	return c, nil
}

// CreateFromLostItem files the complaint spawned when a return reports
// units as lost. It is attributed to the borrower, not the handler, so
// the follow-up lands with the person who lost the units.
func (s *complaintService) CreateFromLostItem(ctx context.Context, assetID, borrowerID, loanID string) (*domain.Complaint, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	c := &domain.Complaint{
		ReporterID:  borrowerID,
		Title:       fmt.Sprintf("Lost item: %s", asset.Name),
		Description: fmt.Sprintf("Units of %s (%s) were reported lost during loan return.", asset.Name, asset.Code),
		AssetID:     &assetID,
		LoanID:      &loanID,
		Priority:    domain.PriorityHigh,
		Status:      domain.ComplaintStatusWaiting,
	}
	if err := s.complaintRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *complaintService) List(ctx context.Context, actor domain.Actor) ([]domain.Complaint, error) {
	if actor.Role.Privileged() {
		return s.complaintRepo.List(ctx, "")
	}
	return s.complaintRepo.List(ctx, actor.ID)
}

func (s *complaintService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ComplaintStatus) error {
	if !actor.Role.Privileged() {
		return domain.ErrForbidden
	}
	switch status {
	case domain.ComplaintStatusWaiting, domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved, domain.ComplaintStatusRejected:
	default:
		return &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}
	if err := s.complaintRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "UPDATE_COMPLAINT",
		Module:      "COMPLAINT",
		Description: fmt.Sprintf("Complaint %s moved to %s", id, status),
	})
	return nil
}
