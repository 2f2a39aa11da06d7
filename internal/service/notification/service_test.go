package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	notification.Repository
}

func (failingRepo) Create(context.Context, *notification.Notification) error {
	return errors.New("insert failed")
}

func (failingRepo) CreateBatch(context.Context, []*notification.Notification) error {
	return errors.New("insert failed")
}

func newTestService(t *testing.T, cfg Config) (*service, notification.Repository) {
	t.Helper()
	repo := memory.NewNotificationRepository(memory.NewStore())
	svc := newService(repo, sse.NewHub(), cfg)
	t.Cleanup(svc.Stop)
	return svc, repo
}

// stalled has no workers, so every Notify finds the queue full.
func stalled(repo notification.Repository) *service {
	return &service{
		repo:   repo,
		hub:    sse.NewHub(),
		now:    time.Now,
		queue:  make(chan *notification.Notification),
		stopCh: make(chan struct{}),
	}
}

func TestService_Notify_FlushesOnBatchSize(t *testing.T) {
	svc, repo := newTestService(t, Config{BatchSize: 2, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 10})
	ctx := context.Background()

	svc.Notify(ctx, "emp-1", notification.TypeLeaveRequestApproved, notification.Payload{Title: "Leave approved"})
	svc.Notify(ctx, "emp-1", notification.TypeLeaveRequestRejected, notification.Payload{Title: "Leave rejected"})

	require.Eventually(t, func() bool {
		n, _ := repo.GetUnreadCount(ctx, "emp-1")
		return n == 2
	}, time.Second, 10*time.Millisecond)
}

func TestService_Notify_FlushesOnInterval(t *testing.T) {
	svc, repo := newTestService(t, Config{BatchSize: 100, FlushInterval: 20 * time.Millisecond, WorkerCount: 1, QueueSize: 10})
	ctx := context.Background()

	svc.Notify(ctx, notification.RecipientAdmin, notification.TypeAttendanceAlert, notification.Payload{
		Title:             "Open punches closed",
		RelatedEntityType: "attendance",
	})

	require.Eventually(t, func() bool {
		n, _ := repo.GetUnreadCount(ctx, notification.RecipientAdmin)
		return n == 1
	}, time.Second, 10*time.Millisecond)

	items, _, err := repo.GetByRecipient(ctx, notification.RecipientAdmin, 1, 10, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notification.RecipientTypeAdmin, items[0].RecipientType)
	require.NotNil(t, items[0].RelatedEntityType)
	assert.Equal(t, "attendance", *items[0].RelatedEntityType)
	assert.Nil(t, items[0].RelatedEntityID)
	assert.NotEmpty(t, items[0].ID)
}

func TestService_Notify_DirectInsertWhenQueueFull(t *testing.T) {
	repo := memory.NewNotificationRepository(memory.NewStore())
	svc := stalled(repo)
	ctx := context.Background()

	svc.Notify(ctx, "emp-2", notification.TypeOvertimeRequestApproved, notification.Payload{Title: "Overtime approved"})

	n, err := repo.GetUnreadCount(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_Notify_AfterStop(t *testing.T) {
	svc, repo := newTestService(t, Config{WorkerCount: 1})
	svc.Stop()

	svc.Notify(context.Background(), "emp-3", notification.TypeSystemAlert, notification.Payload{Title: "late"})

	n, err := repo.GetUnreadCount(context.Background(), "emp-3")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_Notify_SwallowsStorageErrors(t *testing.T) {
	svc := stalled(failingRepo{})

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), "emp-1", notification.TypeSystemAlert, notification.Payload{Title: "x"})
	})
}

func TestService_Subscribe_ReceivesPersistedNotification(t *testing.T) {
	svc, _ := newTestService(t, Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 10})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	svc.Notify(ctx, "emp-1", notification.TypePermissionRequestApproved, notification.Payload{
		Title:   "Permission approved",
		Message: "Your permission for 2024-06-10 was approved.",
	})

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, notification.TypePermissionRequestApproved, ev.Data.Type)
		assert.Equal(t, "Permission approved", ev.Data.Title)
		assert.False(t, ev.Data.IsRead)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestService_Subscribe_EndsWithContext(t *testing.T) {
	svc, _ := newTestService(t, Config{WorkerCount: 1})
	ctx, cancel := context.WithCancel(context.Background())

	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream not closed")
	}
}

func TestService_GetNotifications_PagingAndRead(t *testing.T) {
	svc, repo := newTestService(t, Config{WorkerCount: 1})
	ctx := context.Background()

	base := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		n := &notification.Notification{
			ID:            string(rune('a' + i)),
			RecipientID:   "emp-1",
			RecipientType: notification.RecipientTypeEmployee,
			Type:          notification.TypeLeaveRequestApproved,
			Title:         "Leave approved",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	resp, err := svc.GetNotifications(ctx, "emp-1", 0, 500, false)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.UnreadCount)
	require.Len(t, resp.Notifications, 3)
	assert.Equal(t, "c", resp.Notifications[0].ID)

	page2, err := svc.GetNotifications(ctx, "emp-1", 2, 2, false)
	require.NoError(t, err)
	require.Len(t, page2.Notifications, 1)
	assert.Equal(t, "a", page2.Notifications[0].ID)

	require.NoError(t, svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{NotificationIDs: ids[:1]}))
	require.NoError(t, svc.MarkAsRead(ctx, "emp-2", notification.MarkAsReadRequest{NotificationIDs: ids[1:2]}))
	require.NoError(t, svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{}))

	count, err := svc.GetUnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err := svc.GetNotifications(ctx, "emp-1", 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Total)

	require.NoError(t, svc.MarkAllAsRead(ctx, "emp-1"))
	count, err = svc.GetUnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
