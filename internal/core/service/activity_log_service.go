package service

import (
	"context"
	"fmt"

	"github.com/rl1809/cims/internal/core/dto"
	"github.com/rl1809/cims/internal/port"
)

type ActivityLogService struct {
	repo port.ActivityLogRepository
	notifier
}

func NewActivityLogService(repo port.ActivityLogRepository, events port.EventPublisher) *ActivityLogService {
	return &ActivityLogService{repo: repo, notifier: newNotifier(events)}
}

func (s *ActivityLogService) List(ctx context.Context) ([]dto.ActivityLog, error) {
	logs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return dto.ToActivityLogs(logs), nil
}

// Record appends an entry to a user's activity log.
func (s *ActivityLogService) Record(ctx context.Context, in dto.ActivityLog) (dto.ActivityLog, error) {
	err := check(in,
		requiredString("userId", in.UserID),
		requiredString("action", in.Action),
		requiredString("category", in.Category),
	)
	if err != nil {
		return dto.ActivityLog{}, err
	}

	entry := dto.ActivityLogFromDTO(in)
	entry.ID = ""
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now()
	}

	saved, err := s.repo.Save(ctx, entry)
	if err != nil {
		return dto.ActivityLog{}, fmt.Errorf("record activity log: %w", err)
	}

	s.notify(ctx, entityActivityLog, saved.ID, port.ChangeCreated)
	return dto.ToActivityLog(*saved), nil
}
