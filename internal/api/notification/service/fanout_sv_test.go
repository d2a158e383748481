package notificationService

import (
	authRepository "FarmWatch/internal/api/auth/repository"
	notificationRepository "FarmWatch/internal/api/notification/repository"
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/utils"
	"FarmWatch/pkg/ws"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepository struct {
	store *fakeNotificationStore
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{
		store: &fakeNotificationStore{
			byID:  map[string]entity.Notification{},
			byKey: map[string]string{},
		},
	}
}

func (f *fakeNotificationRepository) NewClient(tx bool) (notificationRepository.Client, error) {
	return notificationRepository.Client{
		Notification: f.store,
		Commit:       func() error { return nil },
		Rollback:     func() error { return nil },
	}, nil
}

type fakeNotificationStore struct {
	mu    sync.Mutex
	byID  map[string]entity.Notification
	byKey map[string]string
}

func pairKey(userID, detectionID string) string {
	return userID + "/" + detectionID
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, n entity.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[pairKey(n.UserID, n.DetectionID)]; ok {
		return false, nil
	}
	n.CreatedAt = time.Now()
	s.byID[n.ID] = n
	s.byKey[pairKey(n.UserID, n.DetectionID)] = n.ID
	return true, nil
}

func (s *fakeNotificationStore) GetNotificationByID(_ context.Context, id string) (entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return entity.Notification{}, fmt.Errorf("missing notification")
	}
	return n, nil
}

func (s *fakeNotificationStore) GetNotificationsByUserID(_ context.Context, userID string, limit int, offset int) ([]entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []entity.Notification
	for _, n := range s.byID {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (s *fakeNotificationStore) CountUnreadByUserID(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.byID {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id string, userID string, readAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("missing notification")
	}
	n.Read = true
	n.ReadAt.Time = readAt
	n.ReadAt.Valid = true
	s.byID[id] = n
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID string, readAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.byID {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt.Time = readAt
			n.ReadAt.Valid = true
			s.byID[id] = n
		}
	}
	return nil
}

type fakeProjectRepository struct {
	members map[string][]entity.ProjectMember
}

func (f *fakeProjectRepository) NewClient(tx bool) (projectRepository.Client, error) {
	return projectRepository.Client{
		Member:   &fakeMemberStore{members: f.members},
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeMemberStore struct {
	members map[string][]entity.ProjectMember
}

func (s *fakeMemberStore) AddMember(_ context.Context, member entity.ProjectMember) error {
	s.members[member.ProjectID] = append(s.members[member.ProjectID], member)
	return nil
}

func (s *fakeMemberStore) GetMember(_ context.Context, projectID string, userID string) (entity.ProjectMember, error) {
	for _, member := range s.members[projectID] {
		if member.UserID == userID {
			return member, nil
		}
	}
	return entity.ProjectMember{}, project.ErrNotProjectMember
}

func (s *fakeMemberStore) GetMembersByProjectID(_ context.Context, projectID string) ([]entity.ProjectMember, error) {
	return s.members[projectID], nil
}

type fakeAuthRepository struct {
	tokens map[string][]entity.DeviceToken
}

func (f *fakeAuthRepository) NewClient(tx bool) (authRepository.Client, error) {
	return authRepository.Client{
		DeviceToken: &fakeDeviceTokenStore{tokens: f.tokens},
		Commit:      func() error { return nil },
		Rollback:    func() error { return nil },
	}, nil
}

type fakeDeviceTokenStore struct {
	tokens map[string][]entity.DeviceToken
}

func (s *fakeDeviceTokenStore) UpsertDeviceToken(_ context.Context, token entity.DeviceToken) error {
	s.tokens[token.UserID] = append(s.tokens[token.UserID], token)
	return nil
}

func (s *fakeDeviceTokenStore) GetDeviceTokensByUserID(_ context.Context, userID string) ([]entity.DeviceToken, error) {
	return s.tokens[userID], nil
}

func (s *fakeDeviceTokenStore) DeleteDeviceToken(_ context.Context, userID string, token string) error {
	return nil
}

type fakeHub struct {
	mu       sync.Mutex
	payloads map[string][]interface{}
	offline  bool
}

func newFakeHub() *fakeHub {
	return &fakeHub{payloads: map[string][]interface{}{}}
}

func (h *fakeHub) Register(userID string, conn *websocket.Conn)   {}
func (h *fakeHub) Unregister(userID string, conn *websocket.Conn) {}

func (h *fakeHub) SendToUser(userID string, payload interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.offline {
		return ws.ErrUserOffline
	}
	h.payloads[userID] = append(h.payloads[userID], payload)
	return nil
}

func (h *fakeHub) IsOnline(userID string) bool {
	return !h.offline
}

func (h *fakeHub) sentTo(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads[userID])
}

type fakePush struct {
	mu        sync.Mutex
	sent      map[string]int
	failToken string
}

func newFakePush() *fakePush {
	return &fakePush{sent: map[string]int{}}
}

func (p *fakePush) Send(_ context.Context, token, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token == p.failToken {
		return fmt.Errorf("unregistered token")
	}
	p.sent[token]++
	return nil
}

type fanoutFixture struct {
	svc    INotificationService
	repo   *fakeNotificationRepository
	hub    *fakeHub
	push   *fakePush
	bus    event.Bus
	cancel context.CancelFunc
}

func newFanoutFixture(t *testing.T, members []entity.ProjectMember, tokens map[string][]entity.DeviceToken) *fanoutFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := newFakeNotificationRepository()
	hub := newFakeHub()
	push := newFakePush()
	bus := event.NewBus(logger, 16)

	if tokens == nil {
		tokens = map[string][]entity.DeviceToken{}
	}

	svc := New(
		logger,
		repo,
		&fakeProjectRepository{members: map[string][]entity.ProjectMember{"p1": members}},
		&fakeAuthRepository{tokens: tokens},
		hub,
		push,
		utils.New(),
		bus,
	)

	ctx, cancel := context.WithCancel(context.Background())
	svc.StartFanout(ctx)
	t.Cleanup(cancel)

	return &fanoutFixture{svc: svc, repo: repo, hub: hub, push: push, bus: bus, cancel: cancel}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if condition() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func members(ids ...string) []entity.ProjectMember {
	result := make([]entity.ProjectMember, 0, len(ids))
	for _, id := range ids {
		result = append(result, entity.ProjectMember{ID: "m-" + id, ProjectID: "p1", UserID: id, Role: entity.RoleMember})
	}
	return result
}

func fireEvent(detectionID string) event.DetectionCreated {
	return event.DetectionCreated{
		DetectionID:   detectionID,
		CameraID:      1,
		ProjectID:     "p1",
		DetectionType: entity.DetectionFire,
		Confidence:    0.86,
	}
}

func TestFanout(t *testing.T) {
	t.Run("every project member is notified once", func(t *testing.T) {
		f := newFanoutFixture(t, members("u1", "u2", "u3"), nil)

		f.bus.PublishDetectionCreated(fireEvent("d1"))

		waitFor(t, func() bool {
			count, _ := f.repo.store.CountUnreadByUserID(context.Background(), "u3")
			return count == 1
		})

		for _, userID := range []string{"u1", "u2", "u3"} {
			count, err := f.repo.store.CountUnreadByUserID(context.Background(), userID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count, userID)
			assert.Equal(t, 1, f.hub.sentTo(userID))
		}
	})

	t.Run("replayed event is a no-op", func(t *testing.T) {
		f := newFanoutFixture(t, members("u1"), nil)

		f.bus.PublishDetectionCreated(fireEvent("d1"))
		f.bus.PublishDetectionCreated(fireEvent("d1"))

		waitFor(t, func() bool {
			count, _ := f.repo.store.CountUnreadByUserID(context.Background(), "u1")
			return count == 1
		})

		// Give the second event time to drain, then confirm nothing doubled.
		time.Sleep(50 * time.Millisecond)
		count, err := f.repo.store.CountUnreadByUserID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 1, f.hub.sentTo("u1"))
	})

	t.Run("push goes to every registered device", func(t *testing.T) {
		tokens := map[string][]entity.DeviceToken{
			"u1": {{UserID: "u1", Token: "tok-a"}, {UserID: "u1", Token: "tok-b"}},
		}
		f := newFanoutFixture(t, members("u1"), tokens)

		f.bus.PublishDetectionCreated(fireEvent("d1"))

		waitFor(t, func() bool {
			f.push.mu.Lock()
			defer f.push.mu.Unlock()
			return f.push.sent["tok-a"] == 1 && f.push.sent["tok-b"] == 1
		})
	})

	t.Run("offline realtime session does not block push", func(t *testing.T) {
		tokens := map[string][]entity.DeviceToken{
			"u1": {{UserID: "u1", Token: "tok-a"}},
		}
		f := newFanoutFixture(t, members("u1"), tokens)
		f.hub.offline = true

		f.bus.PublishDetectionCreated(fireEvent("d1"))

		waitFor(t, func() bool {
			f.push.mu.Lock()
			defer f.push.mu.Unlock()
			return f.push.sent["tok-a"] == 1
		})
	})

	t.Run("one bad device token does not stop the rest", func(t *testing.T) {
		tokens := map[string][]entity.DeviceToken{
			"u1": {{UserID: "u1", Token: "tok-bad"}, {UserID: "u1", Token: "tok-good"}},
		}
		f := newFanoutFixture(t, members("u1"), tokens)
		f.push.failToken = "tok-bad"

		f.bus.PublishDetectionCreated(fireEvent("d1"))

		waitFor(t, func() bool {
			f.push.mu.Lock()
			defer f.push.mu.Unlock()
			return f.push.sent["tok-good"] == 1
		})
	})
}

func TestListAndMarkRead(t *testing.T) {
	ctx := context.Background()

	f := newFanoutFixture(t, members("u1"), nil)
	f.bus.PublishDetectionCreated(fireEvent("d1"))
	f.bus.PublishDetectionCreated(fireEvent("d2"))

	waitFor(t, func() bool {
		count, _ := f.repo.store.CountUnreadByUserID(ctx, "u1")
		return count == 2
	})

	resp, err := f.svc.ListNotifications(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(2), resp.UnreadCount)
	assert.Equal(t, "Fire detected", resp.Notifications[0].Title)

	require.NoError(t, f.svc.MarkRead(ctx, "u1", resp.Notifications[0].ID))

	resp, err = f.svc.ListNotifications(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UnreadCount)

	require.NoError(t, f.svc.MarkAllRead(ctx, "u1"))

	resp, err = f.svc.ListNotifications(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.UnreadCount)
	for _, n := range resp.Notifications {
		assert.True(t, n.Read)
		assert.NotEmpty(t, n.ReadAt)
	}
}
