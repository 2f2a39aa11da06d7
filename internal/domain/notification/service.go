package notification

import (
	"context"
)

// Sink receives status-transition notifications. Notify never fails the caller:
// delivery problems are logged and dropped.
type Sink interface {
	Notify(ctx context.Context, recipient string, t NotificationType, payload Payload)
}

// Service defines the notification service interface
type Service interface {
	Sink

	GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error

	// SSE subscription
	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
