package authRepository

import (
	"FarmWatch/internal/api/auth"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SessionDB struct {
	ID           sql.NullString `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	RefreshToken sql.NullString `db:"refresh_token"`
	CreatedAt    sql.NullString `db:"created_at"`
	ExpiresAt    time.Time      `db:"expires_at"`
}

func (r *sessionRepository) CreateSession(c context.Context, session entity.Session) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            session.ID,
		"user_id":       session.UserID,
		"refresh_token": session.RefreshToken,
		"created_at":    time.Now(),
		"expires_at":    session.ExpiresAt,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating session")
		return err
	}

	return nil
}

func (r *sessionRepository) GetSessionByRefreshToken(c context.Context, refreshToken string) (entity.Session, error) {
	requestID := contextPkg.GetRequestID(c)
	var session SessionDB

	argsKV := map[string]interface{}{
		"refresh_token": refreshToken,
	}

	query, args, err := sqlx.Named(queryGetSessionByRefreshToken, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByRefreshToken named query preparation err")
		return entity.Session{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Session{}, auth.ErrInvalidRefreshToken
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSessionByRefreshToken execution err")
		return entity.Session{}, err
	}

	return entity.Session{
		ID:           session.ID.String,
		UserID:       session.UserID.String,
		RefreshToken: session.RefreshToken.String,
		CreatedAt:    session.CreatedAt.String,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func (r *sessionRepository) DeleteSessionsByUserID(c context.Context, userID string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryDeleteSessionsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSessionsByUserID named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteSessionsByUserID execution err")
		return err
	}

	return nil
}
