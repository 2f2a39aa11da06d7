package notification

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue   chan *notification.Notification
	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped atomic.Bool
}

// NewNotificationService starts the background workers. Stop drains them.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	return newService(repo, hub, cfg)
}

func newService(repo notification.Repository, hub *sse.Hub, cfg Config) *service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan *notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Warn("notification batch insert failed", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("notification batch inserted", "worker", id, "count", len(batch))
			for _, n := range batch {
				s.publish(n)
			}
		}

		batch = make([]*notification.Notification, 0, s.config.BatchSize)
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Notify implements notification.Sink. It never blocks on storage: a full queue
// falls back to a direct insert, and any failure is logged and dropped.
func (s *service) Notify(ctx context.Context, recipient string, t notification.NotificationType, payload notification.Payload) {
	n := s.build(recipient, t, payload)

	if !s.stopped.Load() {
		select {
		case s.queue <- n:
			return
		default:
		}
	}

	if err := s.directInsert(context.WithoutCancel(ctx), n); err != nil {
		slog.Warn("notification dropped", "recipient_id", recipient, "type", t, "error", err)
	}
}

func (s *service) build(recipient string, t notification.NotificationType, payload notification.Payload) *notification.Notification {
	n := &notification.Notification{
		ID:            uuid.Must(uuid.NewV7()).String(),
		RecipientID:   recipient,
		RecipientType: notification.RecipientTypeEmployee,
		Type:          t,
		Title:         payload.Title,
		Message:       payload.Message,
		Data:          payload.Data,
		CreatedAt:     s.now(),
	}
	if recipient == notification.RecipientAdmin {
		n.RecipientType = notification.RecipientTypeAdmin
	}
	if payload.RelatedEntityType != "" {
		n.RelatedEntityType = &payload.RelatedEntityType
	}
	if payload.RelatedEntityID != "" {
		n.RelatedEntityID = &payload.RelatedEntityID
	}
	if payload.ActionURL != "" {
		n.ActionURL = &payload.ActionURL
	}
	return n
}

func (s *service) directInsert(ctx context.Context, n *notification.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.publish(n)
	return nil
}

func (s *service) publish(n *notification.Notification) {
	s.hub.Publish(n.RecipientID, sse.Event{
		Event: "notification",
		Data:  notification.ToResponse(n),
	})
}

// GetNotifications retrieves paginated notifications for a recipient
func (s *service) GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

func (s *service) MarkAsRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if len(req.NotificationIDs) == 0 {
		return nil
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

func (s *service) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

// Subscribe streams the recipient's new notifications until ctx ends or the
// cleanup is called.
func (s *service) Subscribe(ctx context.Context, recipientID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued notifications and stops the workers. Notify keeps
// working afterwards through direct inserts.
func (s *service) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stopCh)
	s.wg.Wait()
	slog.Info("notification service stopped", "open_streams", s.hub.TotalSubscribers())
}
