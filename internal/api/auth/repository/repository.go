package authRepository

import (
	"FarmWatch/internal/entity"
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
		User:        &userRepository{q: sqlExecutor, log: r.log},
		Session:     &sessionRepository{q: sqlExecutor, log: r.log},
		DeviceToken: &deviceTokenRepository{q: sqlExecutor, log: r.log},
		Commit:      commitFunc,
		Rollback:    rollbackFunc,
	}, nil
}

type Client struct {
	User interface {
		CreateUser(c context.Context, user entity.User) error
		GetUserByEmail(c context.Context, email string) (entity.User, error)
		GetUserByID(c context.Context, id string) (entity.User, error)
		UpdateUser(c context.Context, user entity.User) error
	}

	Session interface {
		CreateSession(c context.Context, session entity.Session) error
		GetSessionByRefreshToken(c context.Context, refreshToken string) (entity.Session, error)
		DeleteSessionsByUserID(c context.Context, userID string) error
	}

	DeviceToken interface {
		UpsertDeviceToken(c context.Context, token entity.DeviceToken) error
		GetDeviceTokensByUserID(c context.Context, userID string) ([]entity.DeviceToken, error)
		DeleteDeviceToken(c context.Context, userID string, token string) error
	}

	Commit   func() error
	Rollback func() error
}

type userRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type sessionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type deviceTokenRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
