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

type ProfileService struct {
	identity *IdentityService
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	producer EventPublisher
	pages    PageInvalidator
	logger   *logger.Logger
}

func NewProfileService(
	identity *IdentityService,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	producer EventPublisher,
	pages PageInvalidator,
	logger *logger.Logger,
) *ProfileService {
	return &ProfileService{
		identity: identity,
		userRepo: userRepo,
		postRepo: postRepo,
		producer: producer,
		pages:    pages,
		logger:   logger,
	}
}

// UpdateProfileRequest overwrites all four fields unconditionally; empty
// values are allowed.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// GetByUsername returns (nil, nil) when the username is unknown; an absent
// profile is not an error.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	profile, err := s.userRepo.GetProfile(ctx, username)
	if err != nil {
		return nil, apperr.Internal("failed to fetch profile", err)
	}
	return profile, nil
}

func (s *ProfileService) UserPosts(ctx context.Context, userID uuid.UUID) ([]*FeedPost, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch user posts", err)
	}
	return toFeedPosts(posts), nil
}

func (s *ProfileService) UserLikedPosts(ctx context.Context, userID uuid.UUID) ([]*FeedPost, error) {
	posts, err := s.postRepo.ListLikedBy(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch liked posts", err)
	}
	return toFeedPosts(posts), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, identity *Identity, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Bio = req.Bio
	user.Location = req.Location
	user.Website = req.Website

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperr.Internal("failed to update profile", err)
	}

	event := queue.Event{
		Type:      queue.EventProfileUpdated,
		Timestamp: time.Now(),
		Data: queue.UserEventData{
			UserID:   user.ID.String(),
			Username: user.Username,
		},
	}
	if err := s.producer.Publish(ctx, user.ID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish profile updated event")
	}
	s.pages.Invalidate(ctx, "/profile/"+user.Username)

	s.logger.WithField("user_id", user.ID).Info("Profile updated")
	return user, nil
}
