package detectionService

import (
	"FarmWatch/internal/api/detection"
	detectionRepository "FarmWatch/internal/api/detection/repository"
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	"FarmWatch/pkg/inference"
	"context"
	"fmt"
	"strings"
	"time"
)

type fakeDetectionRepository struct {
	detections *fakeDetectionStore
	types      *fakeDetectionTypeStore
}

func newFakeDetectionRepository() *fakeDetectionRepository {
	return &fakeDetectionRepository{
		detections: &fakeDetectionStore{detections: map[string]entity.Detection{}},
		types:      &fakeDetectionTypeStore{types: map[string]entity.DetectionType{}},
	}
}

func (f *fakeDetectionRepository) NewClient(tx bool) (detectionRepository.Client, error) {
	return detectionRepository.Client{
		Detection:     f.detections,
		DetectionType: f.types,
		Commit:        func() error { return nil },
		Rollback:      func() error { return nil },
	}, nil
}

type fakeDetectionStore struct {
	detections map[string]entity.Detection
	order      []string
}

func (s *fakeDetectionStore) CreateDetection(_ context.Context, d entity.Detection) error {
	s.detections[d.ID] = d
	s.order = append(s.order, d.ID)
	return nil
}

func (s *fakeDetectionStore) GetDetectionByID(_ context.Context, id string) (entity.Detection, error) {
	d, ok := s.detections[id]
	if !ok {
		return entity.Detection{}, detection.ErrDetectionNotFound
	}
	return d, nil
}

func (s *fakeDetectionStore) GetDetectionHistory(_ context.Context, filter detectionRepository.HistoryFilter) ([]entity.Detection, error) {
	var result []entity.Detection
	for _, id := range s.order {
		d := s.detections[id]
		if filter.DetectionType != "" && d.DetectionTypeName != filter.DetectionType {
			continue
		}
		if filter.CameraID != 0 && d.CameraID != filter.CameraID {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (s *fakeDetectionStore) UpdateDetectionReview(_ context.Context, d entity.Detection) error {
	stored, ok := s.detections[d.ID]
	if !ok {
		return detection.ErrDetectionNotFound
	}
	stored.FalsePositive = d.FalsePositive
	stored.ReviewNotes = d.ReviewNotes
	stored.ReviewedBy = d.ReviewedBy
	stored.ReviewedAt = d.ReviewedAt
	s.detections[d.ID] = stored
	return nil
}

type fakeDetectionTypeStore struct {
	types map[string]entity.DetectionType
}

func (s *fakeDetectionTypeStore) EnsureDetectionType(_ context.Context, dt entity.DetectionType) (entity.DetectionType, error) {
	if existing, ok := s.types[dt.Name]; ok {
		return existing, nil
	}
	s.types[dt.Name] = dt
	return dt, nil
}

// fakeProjectRepository populates only the stores the detection pipeline
// touches.
type fakeProjectRepository struct {
	cameras *fakeCameraStore
	members *fakeMemberStore
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{
		cameras: &fakeCameraStore{cameras: map[int64]entity.Camera{}, projects: map[int64]string{}},
		members: &fakeMemberStore{members: map[string]entity.ProjectMember{}},
	}
}

func (f *fakeProjectRepository) NewClient(tx bool) (projectRepository.Client, error) {
	return projectRepository.Client{
		Camera:   f.cameras,
		Member:   f.members,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeCameraStore struct {
	cameras  map[int64]entity.Camera
	projects map[int64]string
}

func (s *fakeCameraStore) CreateCamera(_ context.Context, camera entity.Camera) (int64, error) {
	return 0, fmt.Errorf("not supported")
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
	return nil, nil
}

func (s *fakeCameraStore) GetCamerasByProjectID(_ context.Context, projectID string) ([]entity.Camera, error) {
	return nil, nil
}

func (s *fakeCameraStore) GetProjectIDByCameraID(_ context.Context, cameraID int64) (string, error) {
	projectID, ok := s.projects[cameraID]
	if !ok {
		return "", project.ErrCameraNotFound
	}
	return projectID, nil
}

func (s *fakeCameraStore) UpdateCameraHeartbeat(_ context.Context, id int64, at time.Time) error {
	return nil
}

func (s *fakeCameraStore) SetCameraActive(_ context.Context, id int64, active bool) error {
	return nil
}

func (s *fakeCameraStore) DeleteCamera(_ context.Context, id int64) error {
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
	if !ok {
		return entity.ProjectMember{}, project.ErrNotProjectMember
	}
	return member, nil
}

func (s *fakeMemberStore) GetMembersByProjectID(_ context.Context, projectID string) ([]entity.ProjectMember, error) {
	var result []entity.ProjectMember
	for _, member := range s.members {
		if member.ProjectID == projectID {
			result = append(result, member)
		}
	}
	return result, nil
}

type fakeS3 struct {
	uploads map[string][]byte
	keys    []string
	fail    bool
	// When set, only uploads whose key contains the substring fail.
	failSubstr string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{uploads: map[string][]byte{}}
}

func (s *fakeS3) UploadBytes(key string, data []byte, contentType string) (string, error) {
	if s.fail || (s.failSubstr != "" && strings.Contains(key, s.failSubstr)) {
		return "", fmt.Errorf("upload refused")
	}
	s.uploads[key] = data
	s.keys = append(s.keys, key)
	return "https://artifacts.test/" + key, nil
}

func (s *fakeS3) PresignUrl(fileUrl string) (string, error) {
	return fileUrl, nil
}

func (s *fakeS3) DeleteFile(key string) error {
	delete(s.uploads, key)
	return nil
}

// countingDetector wraps a backend and records how often it was asked.
type countingDetector struct {
	inner inference.Detector
	calls int
}

func (d *countingDetector) Name() string {
	return d.inner.Name()
}

func (d *countingDetector) Detect(ctx context.Context, image []byte) ([]inference.RawDetection, error) {
	d.calls++
	return d.inner.Detect(ctx, image)
}
