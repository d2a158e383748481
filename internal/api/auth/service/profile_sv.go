package authService

import (
	"FarmWatch/internal/api/auth"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *authService) GetProfile(ctx context.Context, userID string) (auth.ProfileResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return auth.ProfileResponse{}, err
	}

	user, err := repo.User.GetUserByID(ctx, userID)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	return auth.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) RegisterDeviceToken(ctx context.Context, userID string, req auth.RegisterDeviceTokenRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		return err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return err
	}

	token := entity.DeviceToken{
		ID:       ULID,
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}

	if err := repo.DeviceToken.UpsertDeviceToken(ctx, token); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to register device token")
		return err
	}

	return nil
}

func (s *authService) RemoveDeviceToken(ctx context.Context, userID string, token string) error {
	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		return err
	}

	return repo.DeviceToken.DeleteDeviceToken(ctx, userID, token)
}
