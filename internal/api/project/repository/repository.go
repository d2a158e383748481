package projectRepository

import (
	"FarmWatch/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Project:  &projectRepository{q: sqlExecutor, log: r.log},
		Member:   &memberRepository{q: sqlExecutor, log: r.log},
		Boundary: &boundaryRepository{q: sqlExecutor, log: r.log},
		Camera:   &cameraRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Project interface {
		CreateProject(c context.Context, project entity.Project) error
		GetProjectByID(c context.Context, id string) (entity.Project, error)
		GetProjectByAccessCode(c context.Context, accessCode string) (entity.Project, error)
		GetProjectsByUserID(c context.Context, userID string) ([]entity.Project, error)
		UpdateProject(c context.Context, project entity.Project) error
		UpdateAccessCode(c context.Context, id string, accessCode string) error
		DeleteProject(c context.Context, id string) error
		SlugExists(c context.Context, slug string) (bool, error)
		AccessCodeExists(c context.Context, accessCode string) (bool, error)
		ProjectNameExists(c context.Context, name string, ownerID string) (bool, error)
		LockProject(c context.Context, id string) error
	}

	Member interface {
		AddMember(c context.Context, member entity.ProjectMember) error
		GetMember(c context.Context, projectID string, userID string) (entity.ProjectMember, error)
		GetMembersByProjectID(c context.Context, projectID string) ([]entity.ProjectMember, error)
	}

	Boundary interface {
		CreateBoundary(c context.Context, boundary entity.FarmBoundary) error
		GetBoundaryByID(c context.Context, id string) (entity.FarmBoundary, error)
		GetBoundariesByProjectID(c context.Context, projectID string) ([]entity.FarmBoundary, error)
		DeleteBoundary(c context.Context, id string) error
	}

	Camera interface {
		CreateCamera(c context.Context, camera entity.Camera) (int64, error)
		GetCameraByID(c context.Context, id int64) (entity.Camera, error)
		GetCameraByAddress(c context.Context, ipAddress string, port int64) (entity.Camera, error)
		GetCameraByCellularID(c context.Context, cellularID string) (entity.Camera, error)
		GetCamerasByBoundaryID(c context.Context, boundaryID string) ([]entity.Camera, error)
		GetCamerasByProjectID(c context.Context, projectID string) ([]entity.Camera, error)
		GetProjectIDByCameraID(c context.Context, cameraID int64) (string, error)
		UpdateCameraHeartbeat(c context.Context, id int64, at time.Time) error
		SetCameraActive(c context.Context, id int64, active bool) error
		DeleteCamera(c context.Context, id int64) error
	}

	Commit   func() error
	Rollback func() error
}

type projectRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type memberRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type boundaryRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type cameraRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
