package notificationRepository

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
		Notification: &notificationRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Notification interface {
		CreateNotification(c context.Context, notification entity.Notification) (bool, error)
		GetNotificationByID(c context.Context, id string) (entity.Notification, error)
		GetNotificationsByUserID(c context.Context, userID string, limit int, offset int) ([]entity.Notification, error)
		CountUnreadByUserID(c context.Context, userID string) (int64, error)
		MarkRead(c context.Context, id string, userID string, readAt time.Time) error
		MarkAllRead(c context.Context, userID string, readAt time.Time) error
	}

	Commit   func() error
	Rollback func() error
}

type notificationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
