package notificationService

import (
	"FarmWatch/internal/api/notification"
	contextPkg "FarmWatch/pkg/context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *notificationService) ListNotifications(ctx context.Context, userID string, limit int, offset int) (notification.ListNotificationsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.notificationRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return notification.ListNotificationsResponse{}, err
	}

	notifications, err := repo.Notification.GetNotificationsByUserID(ctx, userID, limit, offset)
	if err != nil {
		return notification.ListNotificationsResponse{}, err
	}

	unread, err := repo.Notification.CountUnreadByUserID(ctx, userID)
	if err != nil {
		return notification.ListNotificationsResponse{}, err
	}

	result := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := notification.NotificationResponse{
			ID:          n.ID,
			DetectionID: n.DetectionID,
			Title:       n.Title,
			Body:        n.Body,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		}
		if n.ReadAt.Valid {
			resp.ReadAt = n.ReadAt.Time.Format(time.RFC3339)
		}
		result = append(result, resp)
	}

	return notification.ListNotificationsResponse{
		Notifications: result,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) error {
	repo, err := s.notificationRepository.NewClient(false)
	if err != nil {
		return err
	}

	return repo.Notification.MarkRead(ctx, notificationID, userID, time.Now())
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	repo, err := s.notificationRepository.NewClient(false)
	if err != nil {
		return err
	}

	return repo.Notification.MarkAllRead(ctx, userID, time.Now())
}
