package inference

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type failingDetector struct{}

func (failingDetector) Name() string { return "failing" }
func (failingDetector) Detect(context.Context, []byte) ([]RawDetection, error) {
	return nil, errors.New("weights not loaded")
}

type slowDetector struct{ delay time.Duration }

func (slowDetector) Name() string { return "slow" }
func (d slowDetector) Detect(ctx context.Context, _ []byte) ([]RawDetection, error) {
	select {
	case <-time.After(d.delay):
		return []RawDetection{{X1: 1, Y1: 1, X2: 2, Y2: 2, Confidence: 0.9}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestAdapterThresholdFiltering(t *testing.T) {
	detector := NewStaticDetector("fire", []RawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Confidence: 0.9, ClassID: 0},
		{X1: 5, Y1: 5, X2: 15, Y2: 15, Confidence: 0.2, ClassID: 1},
		{X1: 1, Y1: 1, X2: 2, Y2: 2, Confidence: 0.3, ClassID: 0},
	})
	adapter := NewAdapter(testLogger(), map[string]Detector{ModelFireSmoke: detector})

	result := adapter.Detect(context.Background(), []byte("frame"), ModelFireSmoke, 0)

	require.False(t, result.Degraded)
	require.Len(t, result.Detections, 2, "boxes below threshold are dropped inside the adapter")
	for _, d := range result.Detections {
		assert.GreaterOrEqual(t, d.Confidence, DefaultConfidenceThreshold)
	}
}

func TestAdapterCustomThreshold(t *testing.T) {
	detector := NewStaticDetector("fire", []RawDetection{
		{Confidence: 0.5},
		{Confidence: 0.8},
	})
	adapter := NewAdapter(testLogger(), map[string]Detector{ModelFireSmoke: detector})

	result := adapter.Detect(context.Background(), nil, ModelFireSmoke, 0.7)
	require.Len(t, result.Detections, 1)
	assert.InDelta(t, 0.8, result.Detections[0].Confidence, 1e-9)
}

func TestAdapterDegradesWhenBackendMissing(t *testing.T) {
	adapter := NewAdapter(testLogger(), map[string]Detector{})

	result := adapter.Detect(context.Background(), nil, ModelPerson, 0)

	assert.True(t, result.Degraded)
	assert.NotNil(t, result.Detections)
	assert.Empty(t, result.Detections)
	assert.False(t, adapter.Available(ModelPerson))
}

func TestAdapterDegradesOnBackendError(t *testing.T) {
	adapter := NewAdapter(testLogger(), map[string]Detector{ModelFireSmoke: failingDetector{}})

	result := adapter.Detect(context.Background(), nil, ModelFireSmoke, 0)

	assert.True(t, result.Degraded)
	assert.Empty(t, result.Detections)
}

func TestAdapterTimeout(t *testing.T) {
	adapter := NewAdapter(testLogger(),
		map[string]Detector{ModelFireSmoke: slowDetector{delay: time.Second}},
		WithTimeout(20*time.Millisecond))

	start := time.Now()
	result := adapter.Detect(context.Background(), nil, ModelFireSmoke, 0)

	assert.True(t, result.Degraded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClassMapFromEnv(t *testing.T) {
	t.Setenv("MODEL_FIRE_CLASS_ID", "3")
	t.Setenv("MODEL_SMOKE_CLASS_ID", "")
	t.Setenv("MODEL_PERSON_CLASS_ID", "7")

	cm := ClassMapFromEnv()
	assert.Equal(t, 3, cm.Fire)
	assert.Equal(t, 1, cm.Smoke)
	assert.Equal(t, 7, cm.Person)
}
