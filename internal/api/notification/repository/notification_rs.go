package notificationRepository

import (
	"FarmWatch/internal/api/notification"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type NotificationDB struct {
	ID          sql.NullString `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	DetectionID sql.NullString `db:"detection_id"`
	Title       sql.NullString `db:"title"`
	Body        sql.NullString `db:"body"`
	Read        bool           `db:"read"`
	ReadAt      sql.NullTime   `db:"read_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

// CreateNotification inserts one notification per (user, detection) pair.
// Replayed events hit the conflict target and report inserted=false, so
// fan-out never double-notifies.
func (r *notificationRepository) CreateNotification(c context.Context, n entity.Notification) (bool, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":           n.ID,
		"user_id":      n.UserID,
		"detection_id": n.DetectionID,
		"title":        n.Title,
		"body":         n.Body,
		"created_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateNotification, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateNotification named query preparation err")
		return false, err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating notification")
		return false, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *notificationRepository) GetNotificationByID(c context.Context, id string) (entity.Notification, error) {
	requestID := contextPkg.GetRequestID(c)
	var n NotificationDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetNotificationByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetNotificationByID named query preparation err")
		return entity.Notification{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Notification{}, notification.ErrNotificationNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetNotificationByID execution err")
		return entity.Notification{}, err
	}

	return r.makeNotification(n), nil
}

func (r *notificationRepository) GetNotificationsByUserID(c context.Context, userID string, limit int, offset int) ([]entity.Notification, error) {
	requestID := contextPkg.GetRequestID(c)
	var notifications []NotificationDB

	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	query, args, err := sqlx.Named(queryGetNotificationsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetNotificationsByUserID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &notifications, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetNotificationsByUserID execution err")
		return nil, err
	}

	result := make([]entity.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, r.makeNotification(n))
	}

	return result, nil
}

func (r *notificationRepository) CountUnreadByUserID(c context.Context, userID string) (int64, error) {
	requestID := contextPkg.GetRequestID(c)
	var count int64

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryCountUnreadByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountUnreadByUserID named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).Scan(&count); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountUnreadByUserID execution err")
		return 0, err
	}

	return count, nil
}

func (r *notificationRepository) MarkRead(c context.Context, id string, userID string, readAt time.Time) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
		"read_at": readAt,
	}

	query, args, err := sqlx.Named(queryMarkRead, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("MarkRead named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when marking notification read")
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(c context.Context, userID string, readAt time.Time) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"user_id": userID,
		"read_at": readAt,
	}

	query, args, err := sqlx.Named(queryMarkAllRead, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("MarkAllRead named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when marking all notifications read")
		return err
	}

	return nil
}

func (r *notificationRepository) makeNotification(n NotificationDB) entity.Notification {
	return entity.Notification{
		ID:          n.ID.String,
		UserID:      n.UserID.String,
		DetectionID: n.DetectionID.String,
		Title:       n.Title.String,
		Body:        n.Body.String,
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}
