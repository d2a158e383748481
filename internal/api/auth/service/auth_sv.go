package authService

import (
	"FarmWatch/internal/api/auth"
	authRepository "FarmWatch/internal/api/auth/repository"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	jwtPkg "FarmWatch/pkg/jwt"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

func (s *authService) Register(ctx context.Context, req auth.RegisterRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return err
	}

	_, err = repo.User.GetUserByEmail(ctx, req.Email)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Email already in use")
		return auth.ErrEmailAlreadyInUse
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
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

	user := entity.User{
		ID:          ULID,
		Email:       req.Email,
		Name:        req.Name,
		Password:    hashedPassword,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := repo.User.CreateUser(ctx, user); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create user")
		return err
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return auth.LoginResponse{}, err
	}

	user, err := repo.User.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
		}
		return auth.LoginResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Password mismatch")
		return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
	}

	return s.issueTokens(ctx, repo, user)
}

func (s *authService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepository.NewClient(false)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	session, err := repo.Session.GetSessionByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if time.Now().After(session.ExpiresAt) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    session.UserID,
		}).Warn("Refresh token expired")
		return auth.LoginResponse{}, auth.ErrRefreshTokenExpired
	}

	user, err := repo.User.GetUserByID(ctx, session.UserID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if err := repo.Session.DeleteSessionsByUserID(ctx, user.ID); err != nil {
		return auth.LoginResponse{}, err
	}

	return s.issueTokens(ctx, repo, user)
}

func (s *authService) issueTokens(ctx context.Context, repo authRepository.Client, user entity.User) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	accessToken, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Name,
	}, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return auth.LoginResponse{}, err
	}

	refreshToken := uuid.NewString()

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return auth.LoginResponse{}, err
	}

	session := entity.Session{
		ID:           ULID,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}

	if err := repo.Session.CreateSession(ctx, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create session")
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
