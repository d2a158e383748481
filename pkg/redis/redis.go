package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	presenceKeyPrefix  = "presence:user:"
	heartbeatKeyPrefix = "heartbeat:camera:"
)

// IRedis caches volatile monitoring state: which users currently hold a
// realtime session and when each camera last reported in.
type IRedis interface {
	SetUserOnline(ctx context.Context, userID string, ttl time.Duration) error
	SetUserOffline(ctx context.Context, userID string) error
	IsUserOnline(ctx context.Context, userID string) (bool, error)
	SetCameraHeartbeat(ctx context.Context, cameraID int64, at time.Time, ttl time.Duration) error
	GetCameraHeartbeat(ctx context.Context, cameraID int64) (time.Time, bool, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetUserOnline(ctx context.Context, userID string, ttl time.Duration) error {
	err := r.client.Set(ctx, presenceKeyPrefix+userID, "1", ttl).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marking user %s online: %v", userID, err))
		return err
	}
	return nil
}

func (r *redisClient) SetUserOffline(ctx context.Context, userID string) error {
	_, err := r.client.Del(ctx, presenceKeyPrefix+userID).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marking user %s offline: %v", userID, err))
		return err
	}
	return nil
}

func (r *redisClient) IsUserOnline(ctx context.Context, userID string) (bool, error) {
	_, err := r.client.Get(ctx, presenceKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error checking presence for user %s: %v", userID, err))
		return false, err
	}
	return true, nil
}

func (r *redisClient) SetCameraHeartbeat(ctx context.Context, cameraID int64, at time.Time, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", heartbeatKeyPrefix, cameraID)
	err := r.client.Set(ctx, key, at.UTC().Format(time.RFC3339), ttl).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error recording heartbeat for camera %d: %v", cameraID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetCameraHeartbeat(ctx context.Context, cameraID int64) (time.Time, bool, error) {
	key := fmt.Sprintf("%s%d", heartbeatKeyPrefix, cameraID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading heartbeat for camera %d: %v", cameraID, err))
		return time.Time{}, false, err
	}

	at, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}
