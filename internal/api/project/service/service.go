package projectService

import (
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	"FarmWatch/pkg/redis"
	"FarmWatch/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IProjectService interface {
	CreateProject(ctx context.Context, userID string, req project.CreateProjectRequest) (project.ProjectResponse, error)
	GetProject(ctx context.Context, userID string, projectID string) (project.ProjectResponse, error)
	ListProjects(ctx context.Context, userID string) ([]project.ProjectResponse, error)
	UpdateProject(ctx context.Context, userID string, projectID string, req project.UpdateProjectRequest) error
	DeleteProject(ctx context.Context, userID string, projectID string) error
	RegenerateAccessCode(ctx context.Context, userID string, projectID string) (string, error)
	ValidateAccessCode(ctx context.Context, accessCode string) (project.ProjectResponse, error)
	JoinProject(ctx context.Context, userID string, req project.JoinProjectRequest) (project.ProjectResponse, error)
	ListMembers(ctx context.Context, userID string, projectID string) ([]entity.ProjectMember, error)

	CreateBoundary(ctx context.Context, userID string, projectID string, req project.CreateBoundaryRequest) (project.BoundaryResponse, error)
	GetBoundary(ctx context.Context, userID string, boundaryID string) (project.BoundaryResponse, error)
	ListBoundaries(ctx context.Context, userID string, projectID string) ([]project.BoundaryResponse, error)
	DeleteBoundary(ctx context.Context, userID string, boundaryID string) error

	CreateCamera(ctx context.Context, userID string, boundaryID string, req project.CreateCameraRequest) (project.CameraResponse, error)
	GetCamera(ctx context.Context, userID string, cameraID int64) (project.CameraResponse, error)
	ListCameras(ctx context.Context, userID string, projectID string) ([]project.CameraResponse, error)
	DeleteCamera(ctx context.Context, userID string, cameraID int64) error
	ResolveCamera(ctx context.Context, cameraID int64, ipAddress string, port int64, cellularID string) (entity.Camera, error)
	Heartbeat(ctx context.Context, req project.HeartbeatRequest) error
}

type projectService struct {
	log               *logrus.Logger
	projectRepository projectRepository.Repository
	redisServer       redis.IRedis
	utils             utils.IUtils
}

func New(log *logrus.Logger, pr projectRepository.Repository, redisServer redis.IRedis, utils utils.IUtils) IProjectService {
	return &projectService{
		log:               log,
		projectRepository: pr,
		redisServer:       redisServer,
		utils:             utils,
	}
}
