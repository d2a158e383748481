package inference

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	// Model keys the pipeline asks for. Which backend answers is wiring,
	// never pipeline logic.
	ModelFireSmoke = "fire_smoke"
	ModelPerson    = "person"

	DefaultConfidenceThreshold = 0.3
	defaultTimeout             = 15 * time.Second
	defaultMaxConcurrent       = 4
)

// RawDetection is the uniform shape every backend is normalized into:
// one axis-aligned box with its confidence and the backend's class id.
type RawDetection struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}

func (d RawDetection) Width() float64  { return d.X2 - d.X1 }
func (d RawDetection) Height() float64 { return d.Y2 - d.Y1 }

// Result tags the outcome so degraded runs are distinguishable from genuine
// empty ones while keeping the caller's control flow uniform.
type Result struct {
	Model      string         `json:"model"`
	Detections []RawDetection `json:"detections"`
	Degraded   bool           `json:"degraded"`
}

// ClassMap is the class-id-to-label convention of the loaded weights.
// It is injected configuration, not a property of the pipeline.
type ClassMap struct {
	Fire   int
	Smoke  int
	Person int
}

func ClassMapFromEnv() ClassMap {
	return ClassMap{
		Fire:   envInt("MODEL_FIRE_CLASS_ID", 0),
		Smoke:  envInt("MODEL_SMOKE_CLASS_ID", 1),
		Person: envInt("MODEL_PERSON_CLASS_ID", 0),
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Detector is the single capability every detection backend implements.
type Detector interface {
	Name() string
	Detect(ctx context.Context, image []byte) ([]RawDetection, error)
}

type IAdapter interface {
	Detect(ctx context.Context, image []byte, modelKey string, threshold float64) Result
	Available(modelKey string) bool
}

type adapter struct {
	log       *logrus.Logger
	detectors map[string]Detector
	timeout   time.Duration
	sem       chan struct{}
}

type AdapterOption func(*adapter)

func WithTimeout(d time.Duration) AdapterOption {
	return func(a *adapter) { a.timeout = d }
}

func WithMaxConcurrent(n int) AdapterOption {
	return func(a *adapter) {
		if n > 0 {
			a.sem = make(chan struct{}, n)
		}
	}
}

// NewAdapter wires the configured backends once at boot. A model key with no
// backend is a configuration warning, not a crash: Detect degrades to an
// empty tagged result for it.
func NewAdapter(log *logrus.Logger, detectors map[string]Detector, options ...AdapterOption) IAdapter {
	a := &adapter{
		log:       log,
		detectors: detectors,
		timeout:   defaultTimeout,
		sem:       make(chan struct{}, defaultMaxConcurrent),
	}

	for _, option := range options {
		option(a)
	}

	for _, key := range []string{ModelFireSmoke, ModelPerson} {
		if _, ok := detectors[key]; !ok {
			log.Warnf("No detection backend configured for model %q, it will report empty results", key)
		}
	}

	return a
}

func (a *adapter) Available(modelKey string) bool {
	_, ok := a.detectors[modelKey]
	return ok
}

// Detect runs one inference call. Backend failures, timeouts and missing
// backends never propagate: the result comes back empty and tagged degraded
// so the pipeline's control flow is the same in test and production.
func (a *adapter) Detect(ctx context.Context, image []byte, modelKey string, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	result := Result{Model: modelKey, Detections: []RawDetection{}}

	detector, ok := a.detectors[modelKey]
	if !ok {
		result.Degraded = true
		return result
	}

	select {
	case a.sem <- struct{}{}:
		defer func() { <-a.sem }()
	case <-ctx.Done():
		a.log.WithFields(logrus.Fields{
			"model": modelKey,
			"error": ctx.Err().Error(),
		}).Warn("Inference slot wait cancelled")
		result.Degraded = true
		return result
	}

	c, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := detector.Detect(c, image)
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"model":   modelKey,
			"backend": detector.Name(),
			"error":   err.Error(),
		}).Warn("Detection backend unavailable, degrading to empty result")
		result.Degraded = true
		return result
	}

	for _, d := range raw {
		if d.Confidence >= threshold {
			result.Detections = append(result.Detections, d)
		}
	}

	return result
}
