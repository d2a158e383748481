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

type ProjectDB struct {
	ID          sql.NullString `db:"id"`
	Name        sql.NullString `db:"name"`
	Slug        sql.NullString `db:"slug"`
	AccessCode  sql.NullString `db:"access_code"`
	Description sql.NullString `db:"description"`
	OwnerID     sql.NullString `db:"owner_id"`
	Active      bool           `db:"active"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *projectRepository) CreateProject(c context.Context, p entity.Project) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"access_code": p.AccessCode,
		"description": p.Description,
		"owner_id":    p.OwnerID,
		"active":      p.Active,
		"created_at":  time.Now(),
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateProject named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating project")
		return err
	}

	return nil
}

func (r *projectRepository) GetProjectByID(c context.Context, id string) (entity.Project, error) {
	requestID := contextPkg.GetRequestID(c)
	var p ProjectDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetProjectByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByID named query preparation err")
		return entity.Project{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Project{}, project.ErrProjectNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByID execution err")
		return entity.Project{}, err
	}

	return r.makeProject(p), nil
}

func (r *projectRepository) GetProjectByAccessCode(c context.Context, accessCode string) (entity.Project, error) {
	requestID := contextPkg.GetRequestID(c)
	var p ProjectDB

	argsKV := map[string]interface{}{
		"access_code": accessCode,
	}

	query, args, err := sqlx.Named(queryGetProjectByAccessCode, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByAccessCode named query preparation err")
		return entity.Project{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Project{}, project.ErrInvalidAccessCode
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByAccessCode execution err")
		return entity.Project{}, err
	}

	return r.makeProject(p), nil
}

func (r *projectRepository) GetProjectsByUserID(c context.Context, userID string) ([]entity.Project, error) {
	requestID := contextPkg.GetRequestID(c)
	var projects []ProjectDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetProjectsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectsByUserID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &projects, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectsByUserID execution err")
		return nil, err
	}

	result := make([]entity.Project, 0, len(projects))
	for _, p := range projects {
		result = append(result, r.makeProject(p))
	}

	return result, nil
}

func (r *projectRepository) UpdateProject(c context.Context, p entity.Project) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateProject named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateProject execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepository) UpdateAccessCode(c context.Context, id string, accessCode string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":          id,
		"access_code": accessCode,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateAccessCode, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateAccessCode named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateAccessCode execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepository) DeleteProject(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteProject named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteProject execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepository) SlugExists(c context.Context, slug string) (bool, error) {
	return r.exists(c, querySlugExists, map[string]interface{}{"slug": slug})
}

func (r *projectRepository) AccessCodeExists(c context.Context, accessCode string) (bool, error) {
	return r.exists(c, queryAccessCodeExists, map[string]interface{}{"access_code": accessCode})
}

func (r *projectRepository) ProjectNameExists(c context.Context, name string, ownerID string) (bool, error) {
	return r.exists(c, queryProjectNameExists, map[string]interface{}{
		"name":     name,
		"owner_id": ownerID,
	})
}

func (r *projectRepository) exists(c context.Context, namedQuery string, argsKV map[string]interface{}) (bool, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("exists named query preparation err")
		return false, err
	}

	query = r.q.Rebind(query)

	var found bool
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&found); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("exists execution err")
		return false, err
	}

	return found, nil
}

// LockProject takes a row lock on the project so concurrent boundary writes
// for the same project serialize. Only meaningful inside a transaction.
func (r *projectRepository) LockProject(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryLockProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("LockProject named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	var lockedID string
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.ErrProjectNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("LockProject execution err")
		return err
	}

	return nil
}

func (r *projectRepository) makeProject(p ProjectDB) entity.Project {
	return entity.Project{
		ID:          p.ID.String,
		Name:        p.Name.String,
		Slug:        p.Slug.String,
		AccessCode:  p.AccessCode.String,
		Description: p.Description.String,
		OwnerID:     p.OwnerID.String,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
