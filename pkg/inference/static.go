package inference

import (
	"golang.org/x/net/context"
)

// staticDetector returns the same detections for every frame. It stands in
// when no sidecar is configured and backs deterministic tests.
type staticDetector struct {
	name       string
	detections []RawDetection
}

func NewStaticDetector(name string, detections []RawDetection) Detector {
	return &staticDetector{
		name:       name,
		detections: detections,
	}
}

func (d *staticDetector) Name() string {
	return d.name
}

func (d *staticDetector) Detect(_ context.Context, _ []byte) ([]RawDetection, error) {
	out := make([]RawDetection, len(d.detections))
	copy(out, d.detections)
	return out, nil
}
