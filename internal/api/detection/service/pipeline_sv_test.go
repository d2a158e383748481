package detectionService

import (
	"FarmWatch/internal/api/detection"
	"FarmWatch/internal/entity"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/inference"
	"FarmWatch/pkg/utils"
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type pipelineFixture struct {
	svc           IDetectionService
	detectionRepo *fakeDetectionRepository
	projectRepo   *fakeProjectRepository
	s3            *fakeS3
	bus           event.Bus
	person        *countingDetector
}

func newPipelineFixture(t *testing.T, fireSmoke []inference.RawDetection, person []inference.RawDetection) *pipelineFixture {
	t.Helper()
	logger := testLogger()

	personDetector := &countingDetector{
		inner: inference.NewStaticDetector(inference.ModelPerson, person),
	}
	adapter := inference.NewAdapter(logger, map[string]inference.Detector{
		inference.ModelFireSmoke: inference.NewStaticDetector(inference.ModelFireSmoke, fireSmoke),
		inference.ModelPerson:    personDetector,
	})

	detectionRepo := newFakeDetectionRepository()
	projectRepo := newFakeProjectRepository()
	projectRepo.cameras.cameras[1] = entity.Camera{
		ID:         1,
		BoundaryID: "b1",
		Name:       "Gate Camera",
		CameraType: entity.CameraStationary,
		IPAddress:  sql.NullString{String: "10.0.0.5", Valid: true},
		Port:       sql.NullInt64{Int64: 8554, Valid: true},
		Active:     true,
	}
	projectRepo.cameras.projects[1] = "p1"

	s3 := newFakeS3()
	bus := event.NewBus(logger, 16)

	classMap := inference.ClassMap{Fire: 0, Smoke: 1, Person: 0}
	svc := New(logger, detectionRepo, projectRepo, adapter, classMap, s3, utils.New(), bus)

	return &pipelineFixture{
		svc:           svc,
		detectionRepo: detectionRepo,
		projectRepo:   projectRepo,
		s3:            s3,
		bus:           bus,
		person:        personDetector,
	}
}

func TestIngestFrame(t *testing.T) {
	ctx := context.Background()

	t.Run("fire and smoke produce one row per type", func(t *testing.T) {
		f := newPipelineFixture(t, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.9, ClassID: 0},
			{X1: 70, Y1: 10, X2: 120, Y2: 60, Confidence: 0.7, ClassID: 0},
			{X1: 10, Y1: 80, X2: 60, Y2: 130, Confidence: 0.6, ClassID: 1},
		}, nil)

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		require.Len(t, resp.Detections, 2)
		assert.True(t, resp.Success)
		assert.Equal(t, int64(1), resp.CameraID)
		assert.Equal(t, string(entity.CameraStationary), resp.CameraType)
		assert.True(t, resp.FireSmokeDetected)
		assert.True(t, resp.PersonDetectionSkipped)
		assert.Len(t, resp.DetectionsCreated, 2)
		assert.Equal(t, "2 detections created", resp.Message)
		assert.False(t, resp.Degraded)

		byType := map[string]detection.DetectionResponse{}
		for _, d := range resp.Detections {
			byType[d.DetectionType] = d
		}

		fire := byType[entity.DetectionFire]
		assert.InDelta(t, 0.8, fire.Confidence, 1e-9)
		assert.Len(t, fire.BoundingBoxes, 2)

		smoke := byType[entity.DetectionSmoke]
		assert.InDelta(t, 0.6, smoke.Confidence, 1e-9)
		assert.Len(t, smoke.BoundingBoxes, 1)

		// Person model must not have been consulted.
		assert.Zero(t, f.person.calls)

		// Original and annotated artifact per detection row.
		assert.Len(t, f.s3.keys, 4)
		assert.Contains(t, fire.OriginalImageURL, "detections/original/camera_1_fire_")
		assert.Contains(t, fire.AnnotatedImageURL, "detections/annotated/camera_1_fire_")
		assert.Contains(t, fire.OriginalImageURL, "_original.jpg")
		assert.Contains(t, fire.AnnotatedImageURL, "_annotated.jpg")

		events := drainEvents(f.bus)
		assert.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, "p1", e.ProjectID)
			assert.Equal(t, int64(1), e.CameraID)
		}
	})

	t.Run("person model runs only without fire or smoke", func(t *testing.T) {
		f := newPipelineFixture(t, nil, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 120, Confidence: 0.85, ClassID: 0},
		})

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		require.Len(t, resp.Detections, 1)
		assert.Equal(t, entity.DetectionPerson, resp.Detections[0].DetectionType)
		assert.Equal(t, 1, f.person.calls)
		assert.False(t, resp.FireSmokeDetected)
		assert.False(t, resp.PersonDetectionSkipped)
	})

	t.Run("empty frame result persists nothing", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "no detections", resp.Message)
		assert.Empty(t, resp.Detections)
		assert.Empty(t, f.detectionRepo.detections.detections)
		assert.Empty(t, f.s3.keys)
	})

	t.Run("resolves camera by address", func(t *testing.T) {
		f := newPipelineFixture(t, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.9, ClassID: 0},
		}, nil)

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{
			IPAddress: "10.0.0.5",
			Port:      8554,
			Frame:     testFrame(t),
		})
		require.NoError(t, err)
		require.Len(t, resp.Detections, 1)
		assert.Equal(t, int64(1), resp.Detections[0].CameraID)
	})

	t.Run("unknown camera identifiers", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)

		_, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{
			IPAddress: "10.9.9.9",
			Port:      8554,
			Frame:     testFrame(t),
		})
		assert.ErrorIs(t, err, detection.ErrCameraNotResolvable)
	})

	t.Run("inactive camera is rejected", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)
		camera := f.projectRepo.cameras.cameras[1]
		camera.Active = false
		f.projectRepo.cameras.cameras[1] = camera

		_, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		assert.ErrorIs(t, err, detection.ErrCameraInactive)
	})

	t.Run("missing frame is rejected", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)

		_, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1})
		assert.ErrorIs(t, err, detection.ErrMissingFrame)
	})

	t.Run("multiple identifiers are rejected", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)

		_, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{
			CameraID:   1,
			CellularID: "SIM-001",
			Frame:      testFrame(t),
		})
		assert.ErrorIs(t, err, detection.ErrAmbiguousCameraIdentifiers)
	})

	t.Run("no identifiers are rejected", func(t *testing.T) {
		f := newPipelineFixture(t, nil, nil)

		_, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{Frame: testFrame(t)})
		assert.ErrorIs(t, err, detection.ErrMissingCameraIdentifier)
	})

	t.Run("mean confidence is stored with four decimals", func(t *testing.T) {
		f := newPipelineFixture(t, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.7, ClassID: 0},
			{X1: 70, Y1: 10, X2: 120, Y2: 60, Confidence: 0.7, ClassID: 0},
			{X1: 10, Y1: 80, X2: 60, Y2: 130, Confidence: 0.8, ClassID: 0},
		}, nil)

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		require.Len(t, resp.Detections, 1)
		assert.InDelta(t, 0.7333, resp.Detections[0].Confidence, 1e-9)
	})

	t.Run("failed upload drops only that group", func(t *testing.T) {
		f := newPipelineFixture(t, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.9, ClassID: 0},
		}, nil)
		f.s3.fail = true

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Detections)
		assert.Equal(t, "0 of 1 detection groups saved", resp.Message)
		assert.Empty(t, f.detectionRepo.detections.detections)
	})

	t.Run("one failing group does not drag its siblings down", func(t *testing.T) {
		f := newPipelineFixture(t, []inference.RawDetection{
			{X1: 10, Y1: 10, X2: 60, Y2: 60, Confidence: 0.9, ClassID: 0},
			{X1: 10, Y1: 80, X2: 60, Y2: 130, Confidence: 0.6, ClassID: 1},
		}, nil)
		f.s3.failSubstr = "smoke"

		resp, err := f.svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		require.Len(t, resp.Detections, 1)
		assert.Equal(t, entity.DetectionFire, resp.Detections[0].DetectionType)
		assert.Len(t, resp.DetectionsCreated, 1)
		assert.Equal(t, "1 of 2 detection groups saved", resp.Message)
		assert.Len(t, f.detectionRepo.detections.detections, 1)
	})

	t.Run("missing backends degrade instead of failing", func(t *testing.T) {
		logger := testLogger()
		adapter := inference.NewAdapter(logger, map[string]inference.Detector{})
		detectionRepo := newFakeDetectionRepository()
		projectRepo := newFakeProjectRepository()
		projectRepo.cameras.cameras[1] = entity.Camera{ID: 1, BoundaryID: "b1", Active: true}
		projectRepo.cameras.projects[1] = "p1"
		bus := event.NewBus(logger, 16)

		svc := New(logger, detectionRepo, projectRepo, adapter, inference.ClassMap{Smoke: 1}, newFakeS3(), utils.New(), bus)

		resp, err := svc.IngestFrame(ctx, detection.IngestFrameRequest{CameraID: 1, Frame: testFrame(t)})
		require.NoError(t, err)
		assert.True(t, resp.Degraded)
		assert.Empty(t, resp.Detections)
	})
}

func drainEvents(bus event.Bus) []event.DetectionCreated {
	var events []event.DetectionCreated
	for {
		select {
		case e := <-bus.DetectionCreated():
			events = append(events, e)
		default:
			return events
		}
	}
}
