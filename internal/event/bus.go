package event

import (
	"github.com/sirupsen/logrus"
)

// DetectionCreated is published after a detection row and its artifacts are
// committed. Fan-out subscribes to it; persistence never waits on delivery.
type DetectionCreated struct {
	DetectionID   string
	CameraID      int64
	ProjectID     string
	DetectionType string
	Confidence    float64
	FalsePositive bool
}

type Bus interface {
	PublishDetectionCreated(e DetectionCreated)
	DetectionCreated() <-chan DetectionCreated
	Close()
}

type bus struct {
	log *logrus.Logger
	ch  chan DetectionCreated
}

func NewBus(log *logrus.Logger, buffer int) Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &bus{
		log: log,
		ch:  make(chan DetectionCreated, buffer),
	}
}

// PublishDetectionCreated is fire-and-forget: when the subscriber is saturated
// the event is dropped with a warning rather than stalling ingestion.
func (b *bus) PublishDetectionCreated(e DetectionCreated) {
	select {
	case b.ch <- e:
	default:
		b.log.WithFields(logrus.Fields{
			"detection_id": e.DetectionID,
			"camera_id":    e.CameraID,
		}).Warn("Event bus full, dropping detection-created event")
	}
}

func (b *bus) DetectionCreated() <-chan DetectionCreated {
	return b.ch
}

func (b *bus) Close() {
	close(b.ch)
}
