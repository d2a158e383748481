package projectService

import (
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	"context"
	"sort"
	"time"
)

// In-memory stand-ins for the postgres stores. They mirror the sentinel
// behavior of the real queries so service logic can be exercised without a
// database.

type fakeRepository struct {
	projects   *fakeProjectStore
	members    *fakeMemberStore
	boundaries *fakeBoundaryStore
	cameras    *fakeCameraStore
	committed  bool
	rolledBack bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		projects:   &fakeProjectStore{projects: map[string]entity.Project{}},
		members:    &fakeMemberStore{members: map[string]entity.ProjectMember{}},
		boundaries: &fakeBoundaryStore{boundaries: map[string]entity.FarmBoundary{}},
		cameras:    &fakeCameraStore{cameras: map[int64]entity.Camera{}, boundaryProject: map[string]string{}},
	}
}

func (f *fakeRepository) NewClient(tx bool) (projectRepository.Client, error) {
	return projectRepository.Client{
		Project:  f.projects,
		Member:   f.members,
		Boundary: f.boundaries,
		Camera:   f.cameras,
		Commit:   func() error { f.committed = true; return nil },
		Rollback: func() error { f.rolledBack = true; return nil },
	}, nil
}

type fakeProjectStore struct {
	projects map[string]entity.Project
	locked   []string

	// Force collisions to exercise the bounded retry paths.
	slugAlwaysTaken bool
	codeAlwaysTaken bool
	slugChecks      int
	codeChecks      int
}

func (s *fakeProjectStore) CreateProject(_ context.Context, p entity.Project) error {
	s.projects[p.ID] = p
	return nil
}

func (s *fakeProjectStore) GetProjectByID(_ context.Context, id string) (entity.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return entity.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (s *fakeProjectStore) GetProjectByAccessCode(_ context.Context, accessCode string) (entity.Project, error) {
	for _, p := range s.projects {
		if p.Active && p.AccessCode == accessCode {
			return p, nil
		}
	}
	return entity.Project{}, project.ErrInvalidAccessCode
}

func (s *fakeProjectStore) GetProjectsByUserID(_ context.Context, userID string) ([]entity.Project, error) {
	var result []entity.Project
	for _, p := range s.projects {
		if p.OwnerID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeProjectStore) UpdateProject(_ context.Context, p entity.Project) error {
	if _, ok := s.projects[p.ID]; !ok {
		return project.ErrProjectNotFound
	}
	s.projects[p.ID] = p
	return nil
}

func (s *fakeProjectStore) UpdateAccessCode(_ context.Context, id string, accessCode string) error {
	p, ok := s.projects[id]
	if !ok {
		return project.ErrProjectNotFound
	}
	p.AccessCode = accessCode
	s.projects[id] = p
	return nil
}

func (s *fakeProjectStore) DeleteProject(_ context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) SlugExists(_ context.Context, slug string) (bool, error) {
	s.slugChecks++
	if s.slugAlwaysTaken {
		return true, nil
	}
	for _, p := range s.projects {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeProjectStore) AccessCodeExists(_ context.Context, accessCode string) (bool, error) {
	s.codeChecks++
	if s.codeAlwaysTaken {
		return true, nil
	}
	for _, p := range s.projects {
		if p.AccessCode == accessCode {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeProjectStore) ProjectNameExists(_ context.Context, name string, ownerID string) (bool, error) {
	for _, p := range s.projects {
		if p.Active && p.Name == name && p.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeProjectStore) LockProject(_ context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	s.locked = append(s.locked, id)
	return nil
}

type fakeMemberStore struct {
	members map[string]entity.ProjectMember
}

func memberKey(projectID, userID string) string {
	return projectID + "/" + userID
}

func (s *fakeMemberStore) AddMember(_ context.Context, member entity.ProjectMember) error {
	s.members[memberKey(member.ProjectID, member.UserID)] = member
	return nil
}

func (s *fakeMemberStore) GetMember(_ context.Context, projectID string, userID string) (entity.ProjectMember, error) {
	member, ok := s.members[memberKey(projectID, userID)]
	if !ok || !member.Active {
		return entity.ProjectMember{}, project.ErrNotProjectMember
	}
	return member, nil
}

func (s *fakeMemberStore) GetMembersByProjectID(_ context.Context, projectID string) ([]entity.ProjectMember, error) {
	var result []entity.ProjectMember
	for _, member := range s.members {
		if member.ProjectID == projectID && member.Active {
			result = append(result, member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

type fakeBoundaryStore struct {
	boundaries map[string]entity.FarmBoundary
}

func (s *fakeBoundaryStore) CreateBoundary(_ context.Context, boundary entity.FarmBoundary) error {
	s.boundaries[boundary.ID] = boundary
	return nil
}

func (s *fakeBoundaryStore) GetBoundaryByID(_ context.Context, id string) (entity.FarmBoundary, error) {
	boundary, ok := s.boundaries[id]
	if !ok {
		return entity.FarmBoundary{}, project.ErrBoundaryNotFound
	}
	return boundary, nil
}

func (s *fakeBoundaryStore) GetBoundariesByProjectID(_ context.Context, projectID string) ([]entity.FarmBoundary, error) {
	var result []entity.FarmBoundary
	for _, boundary := range s.boundaries {
		if boundary.ProjectID == projectID {
			result = append(result, boundary)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeBoundaryStore) DeleteBoundary(_ context.Context, id string) error {
	if _, ok := s.boundaries[id]; !ok {
		return project.ErrBoundaryNotFound
	}
	delete(s.boundaries, id)
	return nil
}

type fakeCameraStore struct {
	cameras         map[int64]entity.Camera
	boundaryProject map[string]string
	nextID          int64
}

func (s *fakeCameraStore) CreateCamera(_ context.Context, camera entity.Camera) (int64, error) {
	s.nextID++
	camera.ID = s.nextID
	camera.CreatedAt = time.Now()
	s.cameras[camera.ID] = camera
	return camera.ID, nil
}

func (s *fakeCameraStore) GetCameraByID(_ context.Context, id int64) (entity.Camera, error) {
	camera, ok := s.cameras[id]
	if !ok {
		return entity.Camera{}, project.ErrCameraNotFound
	}
	return camera, nil
}

func (s *fakeCameraStore) GetCameraByAddress(_ context.Context, ipAddress string, port int64) (entity.Camera, error) {
	for _, camera := range s.cameras {
		if camera.IPAddress.String == ipAddress && camera.Port.Int64 == port {
			return camera, nil
		}
	}
	return entity.Camera{}, project.ErrCameraNotFound
}

func (s *fakeCameraStore) GetCameraByCellularID(_ context.Context, cellularID string) (entity.Camera, error) {
	for _, camera := range s.cameras {
		if camera.CellularID.String == cellularID {
			return camera, nil
		}
	}
	return entity.Camera{}, project.ErrCameraNotFound
}

func (s *fakeCameraStore) GetCamerasByBoundaryID(_ context.Context, boundaryID string) ([]entity.Camera, error) {
	var result []entity.Camera
	for _, camera := range s.cameras {
		if camera.BoundaryID == boundaryID {
			result = append(result, camera)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeCameraStore) GetCamerasByProjectID(_ context.Context, projectID string) ([]entity.Camera, error) {
	var result []entity.Camera
	for _, camera := range s.cameras {
		if s.boundaryProject[camera.BoundaryID] == projectID {
			result = append(result, camera)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeCameraStore) GetProjectIDByCameraID(_ context.Context, cameraID int64) (string, error) {
	camera, ok := s.cameras[cameraID]
	if !ok {
		return "", project.ErrCameraNotFound
	}
	projectID, ok := s.boundaryProject[camera.BoundaryID]
	if !ok {
		return "", project.ErrCameraNotFound
	}
	return projectID, nil
}

func (s *fakeCameraStore) UpdateCameraHeartbeat(_ context.Context, id int64, at time.Time) error {
	camera, ok := s.cameras[id]
	if !ok {
		return project.ErrCameraNotFound
	}
	camera.LastHeartbeatAt.Time = at
	camera.LastHeartbeatAt.Valid = true
	s.cameras[id] = camera
	return nil
}

func (s *fakeCameraStore) SetCameraActive(_ context.Context, id int64, active bool) error {
	camera, ok := s.cameras[id]
	if !ok {
		return project.ErrCameraNotFound
	}
	camera.Active = active
	s.cameras[id] = camera
	return nil
}

func (s *fakeCameraStore) DeleteCamera(_ context.Context, id int64) error {
	if _, ok := s.cameras[id]; !ok {
		return project.ErrCameraNotFound
	}
	delete(s.cameras, id)
	return nil
}

type fakeRedis struct {
	heartbeats map[int64]time.Time
	online     map[string]bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		heartbeats: map[int64]time.Time{},
		online:     map[string]bool{},
	}
}

func (r *fakeRedis) SetUserOnline(_ context.Context, userID string, _ time.Duration) error {
	r.online[userID] = true
	return nil
}

func (r *fakeRedis) SetUserOffline(_ context.Context, userID string) error {
	delete(r.online, userID)
	return nil
}

func (r *fakeRedis) IsUserOnline(_ context.Context, userID string) (bool, error) {
	return r.online[userID], nil
}

func (r *fakeRedis) SetCameraHeartbeat(_ context.Context, cameraID int64, at time.Time, _ time.Duration) error {
	r.heartbeats[cameraID] = at
	return nil
}

func (r *fakeRedis) GetCameraHeartbeat(_ context.Context, cameraID int64) (time.Time, bool, error) {
	at, ok := r.heartbeats[cameraID]
	return at, ok, nil
}
