// internal/service/notification/notification.go
package notification

import (
	"context"
	"fmt"

	"jobmatch-service/internal/domain/notification"

	"go.uber.org/zap"
)

type NotificationStore interface {
	Create(ctx context.Context, n *notification.Notification) error
	CreateForAllApproved(ctx context.Context, title, message string, typ notification.NotificationType) (int64, error)
	ListByUser(ctx context.Context, userID string, filters *notification.ListFilters) ([]notification.Notification, int64, error)
	Summary(ctx context.Context, userID string) (*notification.Summary, error)
	MarkRead(ctx context.Context, userID string, id int64) (*notification.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// Pusher delivers a freshly created notification to connected clients.
// The websocket hub implements it; a nil pusher disables live delivery.
type Pusher interface {
	Push(userID string, n *notification.Notification)
}

type NotificationService struct {
	store  NotificationStore
	pusher Pusher
	logger *zap.Logger
}

func NewNotificationService(store NotificationStore, pusher Pusher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		pusher: pusher,
		logger: logger,
	}
}

// Create stores a notification and pushes it to the user's open sockets.
func (s *NotificationService) Create(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	typ := req.Type
	if typ == "" {
		typ = notification.TypeInfo
	}

	n := &notification.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    typ,
	}

	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification", zap.Error(err))
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.pusher != nil {
		s.pusher.Push(n.UserID, n)
	}

	return n, nil
}

// Notify satisfies the auth service's Notifier for approval notices.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message string) error {
	_, err := s.Create(ctx, &notification.CreateNotificationRequest{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notification.TypeApproval,
	})
	return err
}

// Broadcast fans a system notice out to every approved user. Connected
// clients are not pushed individually; they pick it up on next poll.
func (s *NotificationService) Broadcast(ctx context.Context, req *notification.BroadcastRequest) (int64, error) {
	typ := req.Type
	if typ == "" {
		typ = notification.TypeSystem
	}

	count, err := s.store.CreateForAllApproved(ctx, req.Title, req.Message, typ)
	if err != nil {
		s.logger.Error("failed to broadcast notification", zap.Error(err))
		return 0, fmt.Errorf("failed to broadcast notification: %w", err)
	}

	s.logger.Info("notification broadcast", zap.Int64("recipients", count))
	return count, nil
}

// List retrieves the caller's notifications plus a read/unread summary.
func (s *NotificationService) List(ctx context.Context, userID string, filters *notification.ListFilters) (*notification.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	notifications, total, err := s.store.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &notification.ListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    totalPages,
	}, nil
}

func (s *NotificationService) Summary(ctx context.Context, userID string) (*notification.Summary, error) {
	return s.store.Summary(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id int64) (*notification.Notification, error) {
	return s.store.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID string, id int64) error {
	return s.store.Delete(ctx, userID, id)
}
