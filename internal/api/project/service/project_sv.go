package projectService

import (
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	maxSlugSuffix         = 1000
	maxAccessCodeAttempts = 100
)

func (s *projectService) CreateProject(ctx context.Context, userID string, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return project.ProjectResponse{}, err
	}
	defer repo.Rollback()

	nameTaken, err := repo.Project.ProjectNameExists(ctx, req.Name, userID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if nameTaken {
		return project.ProjectResponse{}, project.ErrProjectNameTaken
	}

	slug, err := s.uniqueSlug(ctx, repo, req.Name)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	accessCode, err := s.uniqueAccessCode(ctx, repo)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return project.ProjectResponse{}, err
	}

	p := entity.Project{
		ID:          ULID,
		Name:        req.Name,
		Slug:        slug,
		AccessCode:  accessCode,
		Description: req.Description,
		OwnerID:     userID,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := repo.Project.CreateProject(ctx, p); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create project")
		return project.ProjectResponse{}, err
	}

	memberULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return project.ProjectResponse{}, err
	}

	owner := entity.ProjectMember{
		ID:        memberULID,
		ProjectID: p.ID,
		UserID:    userID,
		Role:      entity.RoleOwner,
		Active:    true,
	}

	if err := repo.Member.AddMember(ctx, owner); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to add project owner membership")
		return project.ProjectResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		return project.ProjectResponse{}, err
	}

	return s.makeProjectResponse(p, entity.RoleOwner), nil
}

// uniqueSlug slugifies the name and, on collision, appends -1 through -1000
// before giving up and appending a timestamp.
func (s *projectService) uniqueSlug(ctx context.Context, repo projectRepository.Client, name string) (string, error) {
	base := s.utils.Slugify(name)

	taken, err := repo.Project.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= maxSlugSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := repo.Project.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%s-%d", base, time.Now().Unix()), nil
}

// uniqueAccessCode draws random codes until one is free, bounded at 100
// attempts; after that a UUID-derived code is used so creation always
// terminates.
func (s *projectService) uniqueAccessCode(ctx context.Context, repo projectRepository.Client) (string, error) {
	for i := 0; i < maxAccessCodeAttempts; i++ {
		code, err := s.utils.RandomAccessCode()
		if err != nil {
			return "", err
		}

		taken, err := repo.Project.AccessCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return s.utils.FallbackAccessCode(), nil
}

func (s *projectService) GetProject(ctx context.Context, userID string, projectID string) (project.ProjectResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	member, err := repo.Member.GetMember(ctx, projectID, userID)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := repo.Project.GetProjectByID(ctx, projectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	resp := s.makeProjectResponse(p, member.Role)
	if member.Role != entity.RoleOwner {
		resp.AccessCode = ""
	}

	return resp, nil
}

func (s *projectService) ListProjects(ctx context.Context, userID string) ([]project.ProjectResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	projects, err := repo.Project.GetProjectsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		role := entity.RoleMember
		if p.OwnerID == userID {
			role = entity.RoleOwner
		}
		resp := s.makeProjectResponse(p, role)
		if role != entity.RoleOwner {
			resp.AccessCode = ""
		}
		result = append(result, resp)
	}

	return result, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID string, projectID string, req project.UpdateProjectRequest) error {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	p, err := repo.Project.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}

	if p.OwnerID != userID {
		return project.ErrNotProjectOwner
	}

	if req.Name != p.Name {
		nameTaken, err := repo.Project.ProjectNameExists(ctx, req.Name, userID)
		if err != nil {
			return err
		}
		if nameTaken {
			return project.ErrProjectNameTaken
		}
	}

	p.Name = req.Name
	p.Description = req.Description

	return repo.Project.UpdateProject(ctx, p)
}

func (s *projectService) DeleteProject(ctx context.Context, userID string, projectID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	p, err := repo.Project.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}

	if p.OwnerID != userID {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"project_id": projectID,
			"user_id":    userID,
		}).Warn("Non-owner attempted project deletion")
		return project.ErrNotProjectOwner
	}

	return repo.Project.DeleteProject(ctx, projectID)
}

func (s *projectService) RegenerateAccessCode(ctx context.Context, userID string, projectID string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return "", err
	}

	p, err := repo.Project.GetProjectByID(ctx, projectID)
	if err != nil {
		return "", err
	}

	if p.OwnerID != userID {
		return "", project.ErrNotProjectOwner
	}

	code, err := s.uniqueAccessCode(ctx, repo)
	if err != nil {
		return "", err
	}

	if err := repo.Project.UpdateAccessCode(ctx, projectID, code); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update access code")
		return "", err
	}

	return code, nil
}

func (s *projectService) ValidateAccessCode(ctx context.Context, accessCode string) (project.ProjectResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := repo.Project.GetProjectByAccessCode(ctx, accessCode)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	resp := s.makeProjectResponse(p, "")
	resp.AccessCode = ""

	return resp, nil
}

func (s *projectService) JoinProject(ctx context.Context, userID string, req project.JoinProjectRequest) (project.ProjectResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := repo.Project.GetProjectByAccessCode(ctx, req.AccessCode)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	_, err = repo.Member.GetMember(ctx, p.ID, userID)
	if err == nil {
		return project.ProjectResponse{}, project.ErrAlreadyProjectMember
	}
	if !errors.Is(err, project.ErrNotProjectMember) {
		return project.ProjectResponse{}, err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return project.ProjectResponse{}, err
	}

	member := entity.ProjectMember{
		ID:             ULID,
		ProjectID:      p.ID,
		UserID:         userID,
		Role:           entity.RoleMember,
		AccessCodeUsed: sql.NullString{String: req.AccessCode, Valid: true},
		Active:         true,
	}

	if err := repo.Member.AddMember(ctx, member); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to add project member")
		return project.ProjectResponse{}, err
	}

	resp := s.makeProjectResponse(p, entity.RoleMember)
	resp.AccessCode = ""

	return resp, nil
}

func (s *projectService) ListMembers(ctx context.Context, userID string, projectID string) ([]entity.ProjectMember, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Member.GetMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	return repo.Member.GetMembersByProjectID(ctx, projectID)
}

func (s *projectService) makeProjectResponse(p entity.Project, role entity.ProjectRole) project.ProjectResponse {
	return project.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		AccessCode:  p.AccessCode,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Active:      p.Active,
		Role:        string(role),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
