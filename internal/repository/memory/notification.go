package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
)

type notificationRepositoryImpl struct {
	s *Store
}

func NewNotificationRepository(s *Store) notification.Repository {
	return &notificationRepositoryImpl{s: s}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	return r.s.write(ctx, func(d *data) error {
		for _, n := range ns {
			if n.ID == "" {
				n.ID = newID()
			}
			d.notifications = append(d.notifications, *n)
		}
		return nil
	})
}

func (r *notificationRepositoryImpl) GetByRecipient(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	var matched []*notification.Notification
	r.s.read(func(d *data) error {
		for i := range d.notifications {
			n := d.notifications[i]
			if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
				continue
			}
			matched = append(matched, &n)
		}
		return nil
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []*notification.Notification{}, total, nil
	}
	end := min(start+pageSize, total)
	return matched[start:end], total, nil
}

func (r *notificationRepositoryImpl) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	var n int
	r.s.read(func(d *data) error {
		for _, item := range d.notifications {
			if item.RecipientID == recipientID && !item.IsRead {
				n++
			}
		}
		return nil
	})
	return n, nil
}

func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, ids []string, recipientID string) error {
	return r.s.write(ctx, func(d *data) error {
		now := r.s.now()
		for i := range d.notifications {
			n := &d.notifications[i]
			if n.RecipientID == recipientID && !n.IsRead && slices.Contains(ids, n.ID) {
				n.IsRead = true
				n.ReadAt = &now
			}
		}
		return nil
	})
}

func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return r.s.write(ctx, func(d *data) error {
		now := r.s.now()
		for i := range d.notifications {
			n := &d.notifications[i]
			if n.RecipientID == recipientID && !n.IsRead {
				n.IsRead = true
				n.ReadAt = &now
			}
		}
		return nil
	})
}
