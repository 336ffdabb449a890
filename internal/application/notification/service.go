package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petnfc-api/internal/domain"
	"github.com/petnfc-api/internal/pkg/logger"
	"github.com/petnfc-api/internal/pkg/metrics"
	"github.com/petnfc-api/internal/pkg/task"
)

type Service interface {
	Create(ctx context.Context, to, message string) (*domain.Notification, error)
	Get(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// Pusher delivers a payload to every live connection of a user.
type Pusher interface {
	BroadcastToUser(ctx context.Context, userID string, payload any) (int, error)
}

type ServiceDeps struct {
	Repo   notificationStore
	Pusher Pusher
	Tasks  task.Scheduler
	Now    func() time.Time
}

type service struct {
	repo   notificationStore
	pusher Pusher
	tasks  task.Scheduler
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Tasks == nil {
		deps.Tasks = task.Inline{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{repo: deps.Repo, pusher: deps.Pusher, tasks: deps.Tasks, now: deps.Now}
}

// Create persists the notification before returning, then pushes it to the
// recipient's live connections in the background.
func (s *service) Create(ctx context.Context, to, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		NotificationID: uuid.NewString(),
		To:             to,
		Message:        message,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	metrics.NotificationsCreated.Inc()

	if s.pusher != nil {
		push := domain.NotificationPush{ID: n.NotificationID, Message: n.Message, CreatedAt: n.CreatedAt}
		s.tasks.Go(ctx, "notification.push", func(ctx context.Context) error {
			delivered, err := s.pusher.BroadcastToUser(ctx, to, push)
			logger.Debug(ctx, "notification pushed",
				zap.String("notification_id", push.ID), zap.Int("delivered", delivered))
			return err
		})
	}
	return n, nil
}

func (s *service) Get(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.To != userID {
		return nil, fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	return n, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	if _, err := s.Get(ctx, notificationID, userID); err != nil {
		return nil, err
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}

// MarkAllRead returns immediately; the bulk update runs in the background.
func (s *service) MarkAllRead(ctx context.Context, userID string) {
	s.tasks.Go(ctx, "notification.mark_all_read", func(ctx context.Context) error {
		n, err := s.repo.MarkAllRead(ctx, userID)
		if err != nil {
			return err
		}
		logger.Debug(ctx, "notifications marked read", zap.String("user_id", userID), zap.Int("count", n))
		return nil
	})
}
