package authService

import (
	"FarmWatch/internal/api/auth"
	authRepository "FarmWatch/internal/api/auth/repository"
	"FarmWatch/pkg/bcrypt"
	"FarmWatch/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) error
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.LoginResponse, error)
	GetProfile(ctx context.Context, userID string) (auth.ProfileResponse, error)
	RegisterDeviceToken(ctx context.Context, userID string, req auth.RegisterDeviceTokenRequest) error
	RemoveDeviceToken(ctx context.Context, userID string, token string) error
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils
}

func New(log *logrus.Logger, ar authRepository.Repository, bcryptUtils bcrypt.IBcrypt, utils utils.IUtils) IAuthService {
	return &authService{
		log:            log,
		authRepository: ar,
		bcryptUtils:    bcryptUtils,
		utils:          utils,
	}
}
