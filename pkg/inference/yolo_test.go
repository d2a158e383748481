package inference

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/context"
)

func TestYOLODetectUnreachableSidecar(t *testing.T) {
	client := &yoloClient{
		name:         "fire_smoke",
		url:          "ws://127.0.0.1:1",
		log:          testLogger(),
		writeTimeout: time.Second,
		readTimeout:  time.Second,
	}

	_, err := client.Detect(context.Background(), []byte("frame"))
	assert.Error(t, err)
}

// A sidecar that drops every connection right after the handshake forces the
// client through its reconnect path on each call. Concurrent callers must all
// come back with an error rather than dereference a connection a sibling
// already tore down.
func TestYOLODetectConcurrentConnectionLoss(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	client := &yoloClient{
		name:         "fire_smoke",
		url:          "ws" + strings.TrimPrefix(srv.URL, "http"),
		log:          testLogger(),
		writeTimeout: time.Second,
		readTimeout:  time.Second,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, err := client.Detect(context.Background(), []byte("frame"))
				assert.Error(t, err)
			}
		}()
	}
	wg.Wait()
}
