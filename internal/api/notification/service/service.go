package notificationService

import (
	authRepository "FarmWatch/internal/api/auth/repository"
	"FarmWatch/internal/api/notification"
	notificationRepository "FarmWatch/internal/api/notification/repository"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/push"
	"FarmWatch/pkg/utils"
	"FarmWatch/pkg/ws"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type INotificationService interface {
	ListNotifications(ctx context.Context, userID string, limit int, offset int) (notification.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	StartFanout(ctx context.Context)
}

type notificationService struct {
	log                    *logrus.Logger
	notificationRepository notificationRepository.Repository
	projectRepository      projectRepository.Repository
	authRepository         authRepository.Repository
	hub                    ws.IHub
	push                   push.ItfPush
	utils                  utils.IUtils
	eventBus               event.Bus
}

func New(
	log *logrus.Logger,
	nr notificationRepository.Repository,
	pr projectRepository.Repository,
	ar authRepository.Repository,
	hub ws.IHub,
	push push.ItfPush,
	utils utils.IUtils,
	eventBus event.Bus,
) INotificationService {
	return &notificationService{
		log:                    log,
		notificationRepository: nr,
		projectRepository:      pr,
		authRepository:         ar,
		hub:                    hub,
		push:                   push,
		utils:                  utils,
		eventBus:               eventBus,
	}
}
