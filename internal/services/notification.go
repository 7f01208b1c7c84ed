package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/pkg/apperr"
	"github.com/socially/socially/pkg/logger"
)

type NotificationService struct {
	identity         *IdentityService
	notificationRepo repository.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationService(
	identity *IdentityService,
	notificationRepo repository.NotificationRepository,
	logger *logger.Logger,
) *NotificationService {
	return &NotificationService{
		identity:         identity,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// NotificationView joins a notification with its actor summary and, when
// present, the related post and comment.
type NotificationView struct {
	ID        uuid.UUID               `json:"id"`
	Kind      models.NotificationKind `json:"kind"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
	Creator   models.UserSummary      `json:"creator"`
	Post      *NotificationPost       `json:"post,omitempty"`
	Comment   *NotificationComment    `json:"comment,omitempty"`
}

type NotificationPost struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	Image   string    `json:"image"`
}

type NotificationComment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the caller's inbox newest first. An unresolvable caller gets
// an empty list, not an error; anonymous browsing is expected.
func (s *NotificationService) List(ctx context.Context, identity *Identity) ([]*NotificationView, error) {
	user, err := s.resolveLenient(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*NotificationView{}, nil
	}

	notifications, err := s.notificationRepo.ListByRecipient(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch notifications", err)
	}

	views := make([]*NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := &NotificationView{
			ID:        n.ID,
			Kind:      n.Kind,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
			Creator:   n.Creator.Summary(),
		}
		if n.Post != nil {
			view.Post = &NotificationPost{
				ID:      n.Post.ID,
				Content: n.Post.Content,
				Image:   n.Post.Image,
			}
		}
		if n.Comment != nil {
			view.Comment = &NotificationComment{
				ID:        n.Comment.ID,
				Content:   n.Comment.Content,
				CreatedAt: n.Comment.CreatedAt,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkRead flags the given notifications as read. Only notifications in the
// caller's own inbox are touched; foreign ids are silently ignored.
func (s *NotificationService) MarkRead(ctx context.Context, identity *Identity, ids []uuid.UUID) error {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return err
	}

	if err := s.notificationRepo.MarkRead(ctx, user.ID, ids); err != nil {
		return apperr.Internal("failed to mark notifications as read", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"count":   len(ids),
	}).Info("Notifications marked as read")
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, identity *Identity) (int64, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return 0, err
	}

	count, err := s.notificationRepo.CountUnread(ctx, user.ID)
	if err != nil {
		return 0, apperr.Internal("failed to count unread notifications", err)
	}
	return count, nil
}

// resolveLenient maps "no resolvable caller" to a nil user instead of an
// error, for read paths that degrade to empty results.
func (s *NotificationService) resolveLenient(ctx context.Context, identity *Identity) (*models.User, error) {
	if identity == nil {
		return nil, nil
	}
	user, err := s.identity.Resolve(ctx, identity)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthenticated) || apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
