package inference

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// yoloClient talks to a model-serving sidecar over a persistent websocket.
// One client per loaded weight set; the sidecar owns the actual YOLO runtime.
type yoloClient struct {
	name         string
	url          string
	log          *logrus.Logger
	conn         *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration
	readTimeout  time.Duration
}

type yoloRequest struct {
	Image string `json:"image"`
}

type yoloResponse struct {
	Detections []RawDetection `json:"detections"`
	Error      string         `json:"error,omitempty"`
}

// NewYOLODetector dials the sidecar in the background; a failed initial dial
// is retried on demand, not fatal.
func NewYOLODetector(log *logrus.Logger, name, url string) Detector {
	client := &yoloClient{
		name:         name,
		url:          url,
		log:          log,
		writeTimeout: 5 * time.Second,
		readTimeout:  30 * time.Second,
	}

	go func() {
		if err := client.reconnect(); err != nil {
			log.Warnf("Initial connection to %s model sidecar failed: %v. Will retry on demand.", name, err)
		} else {
			log.Infof("Connected to %s model sidecar at %s", name, url)
		}
	}()

	return client
}

func (c *yoloClient) Name() string {
	return c.name
}

func (c *yoloClient) reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.conn = conn
	return nil
}

func (c *yoloClient) Detect(ctx context.Context, image []byte) ([]RawDetection, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		if err := c.reconnect(); err != nil {
			return nil, err
		}
		c.mu.Lock()
		// Another caller may have dropped the fresh connection while the lock
		// was released.
		if c.conn == nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("connection to %s sidecar lost before use", c.name)
		}
	}
	conn := c.conn
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := yoloRequest{Image: base64.StdEncoding.EncodeToString(image)}

	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(req); err != nil {
		c.dropConn()
		return nil, fmt.Errorf("send frame to %s sidecar: %w", c.name, err)
	}

	readDeadline := time.Now().Add(c.readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(readDeadline) {
		readDeadline = d
	}
	if err := conn.SetReadDeadline(readDeadline); err != nil {
		return nil, err
	}

	var resp yoloResponse
	if err := conn.ReadJSON(&resp); err != nil {
		c.dropConn()
		return nil, fmt.Errorf("read result from %s sidecar: %w", c.name, err)
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return resp.Detections, nil
}

// dropConn must be called with the mutex held.
func (c *yoloClient) dropConn() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
