package service

import (
	"context"

	"stableride-backend/internal/domain"
	"stableride-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) ListNotifications(ctx context.Context, actor domain.Actor, page, pageSize int64) ([]domain.Notification, int64, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, actor.UserID, pageSize, offset)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, actor domain.Actor, notificationID int64) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID)
}
