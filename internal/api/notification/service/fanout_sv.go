package notificationService

import (
	"FarmWatch/internal/api/notification"
	"FarmWatch/internal/entity"
	"FarmWatch/internal/event"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// StartFanout consumes detection-created events until the context is
// cancelled or the bus closes. One goroutine is enough; per-event work is a
// handful of inserts and best-effort pushes.
func (s *notificationService) StartFanout(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Notification fanout stopped")
				return
			case e, ok := <-s.eventBus.DetectionCreated():
				if !ok {
					s.log.Info("Notification fanout stopped, event bus closed")
					return
				}
				s.fanout(ctx, e)
			}
		}
	}()
}

func (s *notificationService) fanout(ctx context.Context, e event.DetectionCreated) {
	projectRepo, err := s.projectRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"error":        err.Error(),
		}).Error("Fanout failed to create project client")
		return
	}

	members, err := projectRepo.Member.GetMembersByProjectID(ctx, e.ProjectID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"project_id":   e.ProjectID,
			"error":        err.Error(),
		}).Error("Fanout failed to load project members")
		return
	}

	title, body := notificationContent(e)

	for _, member := range members {
		s.notifyMember(ctx, e, member, title, body)
	}
}

// notifyMember persists the notification first, then delivers. A failed
// delivery channel never blocks the others, and a duplicate event is a no-op
// past the insert.
func (s *notificationService) notifyMember(ctx context.Context, e event.DetectionCreated, member entity.ProjectMember, title string, body string) {
	repo, err := s.notificationRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"user_id":      member.UserID,
			"error":        err.Error(),
		}).Error("Fanout failed to create notification client")
		return
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"user_id":      member.UserID,
			"error":        err.Error(),
		}).Error("Fanout failed to generate notification id")
		return
	}

	inserted, err := repo.Notification.CreateNotification(ctx, entity.Notification{
		ID:          id,
		UserID:      member.UserID,
		DetectionID: e.DetectionID,
		Title:       title,
		Body:        body,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"user_id":      member.UserID,
			"error":        err.Error(),
		}).Error("Fanout failed to persist notification")
		return
	}
	if !inserted {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"user_id":      member.UserID,
		}).Debug("Notification already exists, skipping delivery")
		return
	}

	s.deliverRealtime(e, member.UserID, id, title, body)
	s.deliverPush(ctx, member.UserID, e, title, body)
}

func (s *notificationService) deliverRealtime(e event.DetectionCreated, userID string, notificationID string, title string, body string) {
	payload := notification.RealtimePayload{
		NotificationID: notificationID,
		DetectionID:    e.DetectionID,
		ProjectID:      e.ProjectID,
		CameraID:       e.CameraID,
		DetectionType:  e.DetectionType,
		Confidence:     e.Confidence,
		Title:          title,
		Body:           body,
	}

	if err := s.hub.SendToUser(userID, payload); err != nil {
		s.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"user_id":      userID,
			"error":        err.Error(),
		}).Debug("Realtime delivery skipped")
	}
}

func (s *notificationService) deliverPush(ctx context.Context, userID string, e event.DetectionCreated, title string, body string) {
	if s.push == nil {
		return
	}

	authRepo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Fanout failed to create auth client")
		return
	}

	tokens, err := authRepo.DeviceToken.GetDeviceTokensByUserID(ctx, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Fanout failed to load device tokens")
		return
	}

	data := map[string]string{
		"detection_id":   e.DetectionID,
		"project_id":     e.ProjectID,
		"detection_type": e.DetectionType,
	}

	for _, token := range tokens {
		if err := s.push.Send(ctx, token.Token, title, body, data); err != nil {
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("Push delivery failed")
		}
	}
}

func notificationContent(e event.DetectionCreated) (string, string) {
	var title string
	switch e.DetectionType {
	case entity.DetectionFire:
		title = "Fire detected"
	case entity.DetectionSmoke:
		title = "Smoke detected"
	case entity.DetectionPerson:
		title = "Person detected"
	default:
		title = "Detection alert"
	}

	body := fmt.Sprintf("Camera %d reported %s with %.0f%% confidence", e.CameraID, e.DetectionType, e.Confidence*100)
	return title, body
}
