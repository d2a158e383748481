package detectionService

import (
	"FarmWatch/internal/api/detection"
	detectionRepository "FarmWatch/internal/api/detection/repository"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/inference"
	"FarmWatch/pkg/s3"
	"FarmWatch/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDetectionService interface {
	IngestFrame(ctx context.Context, req detection.IngestFrameRequest) (detection.IngestResponse, error)
	GetDetection(ctx context.Context, userID string, detectionID string) (detection.DetectionResponse, error)
	GetHistory(ctx context.Context, userID string, query detection.HistoryQuery) ([]detection.DetectionResponse, error)
	Review(ctx context.Context, userID string, detectionID string, req detection.ReviewRequest) (detection.DetectionResponse, error)
}

type detectionService struct {
	log                 *logrus.Logger
	detectionRepository detectionRepository.Repository
	projectRepository   projectRepository.Repository
	inferenceAdapter    inference.IAdapter
	classMap            inference.ClassMap
	s3                  s3.ItfS3
	utils               utils.IUtils
	eventBus            event.Bus
}

func New(
	log *logrus.Logger,
	dr detectionRepository.Repository,
	pr projectRepository.Repository,
	inferenceAdapter inference.IAdapter,
	classMap inference.ClassMap,
	s3 s3.ItfS3,
	utils utils.IUtils,
	eventBus event.Bus,
) IDetectionService {
	return &detectionService{
		log:                 log,
		detectionRepository: dr,
		projectRepository:   pr,
		inferenceAdapter:    inferenceAdapter,
		classMap:            classMap,
		s3:                  s3,
		utils:               utils,
		eventBus:            eventBus,
	}
}
