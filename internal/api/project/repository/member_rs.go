package projectRepository

import (
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ProjectMemberDB struct {
	ID             sql.NullString `db:"id"`
	ProjectID      sql.NullString `db:"project_id"`
	UserID         sql.NullString `db:"user_id"`
	Role           sql.NullString `db:"role"`
	AccessCodeUsed sql.NullString `db:"access_code_used"`
	Active         bool           `db:"active"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *memberRepository) AddMember(c context.Context, member entity.ProjectMember) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":               member.ID,
		"project_id":       member.ProjectID,
		"user_id":          member.UserID,
		"role":             member.Role,
		"access_code_used": member.AccessCodeUsed,
		"active":           member.Active,
		"created_at":       time.Now(),
	}

	query, args, err := sqlx.Named(queryAddMember, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("AddMember named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when adding project member")
		return err
	}

	return nil
}

func (r *memberRepository) GetMember(c context.Context, projectID string, userID string) (entity.ProjectMember, error) {
	requestID := contextPkg.GetRequestID(c)
	var member ProjectMemberDB

	argsKV := map[string]interface{}{
		"project_id": projectID,
		"user_id":    userID,
	}

	query, args, err := sqlx.Named(queryGetMember, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMember named query preparation err")
		return entity.ProjectMember{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ProjectMember{}, project.ErrNotProjectMember
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMember execution err")
		return entity.ProjectMember{}, err
	}

	return r.makeMember(member), nil
}

func (r *memberRepository) GetMembersByProjectID(c context.Context, projectID string) ([]entity.ProjectMember, error) {
	requestID := contextPkg.GetRequestID(c)
	var members []ProjectMemberDB

	argsKV := map[string]interface{}{
		"project_id": projectID,
	}

	query, args, err := sqlx.Named(queryGetMembersByProjectID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMembersByProjectID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &members, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMembersByProjectID execution err")
		return nil, err
	}

	result := make([]entity.ProjectMember, 0, len(members))
	for _, member := range members {
		result = append(result, r.makeMember(member))
	}

	return result, nil
}

func (r *memberRepository) makeMember(member ProjectMemberDB) entity.ProjectMember {
	return entity.ProjectMember{
		ID:             member.ID.String,
		ProjectID:      member.ProjectID.String,
		UserID:         member.UserID.String,
		Role:           entity.ProjectRole(member.Role.String),
		AccessCodeUsed: member.AccessCodeUsed,
		Active:         member.Active,
		CreatedAt:      member.CreatedAt,
	}
}
