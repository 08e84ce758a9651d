package service

import (
	"context"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/repository"
)

type activityService struct {
	repo repository.ActivityLogRepository
}

func NewActivityService(repo repository.ActivityLogRepository) ActivityService {
	return &activityService{repo: repo}
}

// Record writes an audit entry. A failed write is logged and swallowed:
// audit is best effort and must never fail the operation it describes.
func (s *activityService) Record(ctx context.Context, entry domain.ActivityLogEntry) {
	if err := s.repo.Create(ctx, &entry); err != nil {
		logger.Warn("activity log write failed", "action", entry.Action, "module", entry.Module, "error", err)
	}
}

func (s *activityService) List(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.ActivityLogEntry, int32, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, 0, domain.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(ctx, page, pageSize)
}
