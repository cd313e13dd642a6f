package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ActivityService records administrative actions. Recording is
// fire-and-forget: failures are logged and never surfaced to the caller.
type ActivityService struct {
	logs   repository.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(logs repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{logs: logs, logger: logger}
}

// Record persists an activity entry in the background. The returned control
// flow never depends on the write succeeding.
func (s *ActivityService) Record(userID, action, details, ipAddress string) {
	entry := &domain.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.logs.Create(ctx, entry); err != nil {
			s.logger.Error("activity log write failed",
				zap.String("action", action),
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}()
}

// List returns activity entries newest first.
func (s *ActivityService) List(ctx context.Context, limit, offset int) ([]domain.ActivityLog, int64, error) {
	entries, total, err := s.logs.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return entries, total, nil
}
