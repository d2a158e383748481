package authRepository

import (
	"FarmWatch/internal/api/auth"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DeviceTokenDB struct {
	ID        sql.NullString `db:"id"`
	UserID    sql.NullString `db:"user_id"`
	Token     sql.NullString `db:"token"`
	Platform  sql.NullString `db:"platform"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *deviceTokenRepository) UpsertDeviceToken(c context.Context, token entity.DeviceToken) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         token.ID,
		"user_id":    token.UserID,
		"token":      token.Token,
		"platform":   token.Platform,
		"created_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpsertDeviceToken, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertDeviceToken named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when upserting device token")
		return err
	}

	return nil
}

func (r *deviceTokenRepository) GetDeviceTokensByUserID(c context.Context, userID string) ([]entity.DeviceToken, error) {
	requestID := contextPkg.GetRequestID(c)
	var tokens []DeviceTokenDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetDeviceTokensByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDeviceTokensByUserID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &tokens, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDeviceTokensByUserID execution err")
		return nil, err
	}

	result := make([]entity.DeviceToken, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, entity.DeviceToken{
			ID:        token.ID.String,
			UserID:    token.UserID.String,
			Token:     token.Token.String,
			Platform:  token.Platform.String,
			CreatedAt: token.CreatedAt,
		})
	}

	return result, nil
}

func (r *deviceTokenRepository) DeleteDeviceToken(c context.Context, userID string, token string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"user_id": userID,
		"token":   token,
	}

	query, args, err := sqlx.Named(queryDeleteDeviceToken, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteDeviceToken named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteDeviceToken execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return auth.ErrDeviceTokenNotFound
	}

	return nil
}
