package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/pkg/apperr"
	"github.com/socially/socially/pkg/logger"
	"github.com/socially/socially/pkg/queue"
)

// suggestedUserLimit caps how many connection candidates a single call
// returns.
const suggestedUserLimit = 3

type GraphService struct {
	identity   *IdentityService
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	producer   EventPublisher
	logger     *logger.Logger
}

func NewGraphService(
	identity *IdentityService,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	producer EventPublisher,
	logger *logger.Logger,
) *GraphService {
	return &GraphService{
		identity:   identity,
		userRepo:   userRepo,
		followRepo: followRepo,
		producer:   producer,
		logger:     logger,
	}
}

// ToggleFollow flips the caller's follow edge toward the target. Creating
// the edge also creates a FOLLOW notification for the target in the same
// atomic unit; removing it never notifies. Returns whether the caller
// follows the target after the call.
func (s *GraphService) ToggleFollow(ctx context.Context, identity *Identity, targetID uuid.UUID) (bool, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return false, err
	}

	// Rejected before any edge lookup so the failure is deterministic.
	if targetID == user.ID {
		return false, apperr.E(apperr.KindSelfReference, "cannot follow yourself")
	}

	existing, err := s.followRepo.Get(ctx, user.ID, targetID)
	if err != nil {
		return false, apperr.Internal("failed to check follow status", err)
	}

	if existing != nil {
		if err := s.followRepo.Delete(ctx, user.ID, targetID); err != nil {
			return false, apperr.Internal("failed to unfollow", err)
		}

		s.publish(ctx, user.ID.String(), queue.Event{
			Type:      queue.EventFollowDeleted,
			Timestamp: time.Now(),
			Data: queue.FollowEventData{
				FollowerID:  user.ID.String(),
				FollowingID: targetID.String(),
			},
		})
		return false, nil
	}

	follow := &models.Follow{FollowerID: user.ID, FollowingID: targetID}
	// The self-check above guarantees actor != recipient here, so the
	// notification is unconditional.
	notification := &models.Notification{
		UserID:    targetID,
		CreatorID: user.ID,
		Kind:      models.NotificationFollow,
	}

	if err := s.followRepo.CreateWithNotification(ctx, follow, notification); err != nil {
		if repository.IsDuplicate(err) {
			return false, apperr.Wrap(apperr.KindConflict, "already following", err)
		}
		return false, apperr.Internal("failed to follow", err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventFollowCreated,
		Timestamp: time.Now(),
		Data: queue.FollowEventData{
			FollowerID:  user.ID.String(),
			FollowingID: targetID.String(),
		},
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id":  user.ID,
		"following_id": targetID,
	}).Info("Follow created")

	return true, nil
}

// SuggestedUsers returns up to three connection candidates, excluding the
// caller and anyone the caller already follows. Selection among eligible
// users is store-determined.
func (s *GraphService) SuggestedUsers(ctx context.Context, identity *Identity) ([]models.SuggestedUser, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	suggested, err := s.userRepo.GetSuggested(ctx, user.ID, suggestedUserLimit)
	if err != nil {
		return nil, apperr.Internal("failed to fetch suggested users", err)
	}
	return suggested, nil
}

func (s *GraphService) publish(ctx context.Context, key string, event queue.Event) {
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to publish engagement event")
	}
}
