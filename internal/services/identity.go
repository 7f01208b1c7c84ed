package services

import (
	"context"
	"strings"
	"time"

	"github.com/socially/socially/internal/models"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/pkg/apperr"
	"github.com/socially/socially/pkg/logger"
	"github.com/socially/socially/pkg/queue"
)

// Identity is the caller's external session identity as issued by the
// identity provider. A nil *Identity means an anonymous caller. It is
// resolved once at the boundary and passed explicitly into every action.
type Identity struct {
	ID       string
	Name     string
	Username string
	Emails   []string
	Image    string
}

// EventPublisher is the fire-and-forget engagement event sink.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// PageInvalidator marks a cached page path stale.
type PageInvalidator interface {
	Invalidate(ctx context.Context, path string)
}

type IdentityService struct {
	userRepo repository.UserRepository
	producer EventPublisher
	logger   *logger.Logger
}

func NewIdentityService(userRepo repository.UserRepository, producer EventPublisher, logger *logger.Logger) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		producer: producer,
		logger:   logger,
	}
}

// Resolve maps an external identity to its internal user row, provisioning
// one on first sight. A provisioning race against the store's unique
// constraints is recovered by re-reading the winner's row.
func (s *IdentityService) Resolve(ctx context.Context, identity *Identity) (*models.User, error) {
	if identity == nil || identity.ID == "" {
		return nil, apperr.E(apperr.KindUnauthenticated, "no caller identity")
	}

	user, err := s.userRepo.GetByExternalID(ctx, identity.ID)
	if err != nil {
		return nil, apperr.Internal("failed to resolve user", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.provision(ctx, identity)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequireUser resolves the caller and fails with NotFound if the resolved
// row cannot be loaded. Defensive: should not happen once provisioning
// succeeds.
func (s *IdentityService) RequireUser(ctx context.Context, identity *Identity) (*models.User, error) {
	user, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.E(apperr.KindNotFound, "user not found")
	}
	return user, nil
}

func (s *IdentityService) provision(ctx context.Context, identity *Identity) (*models.User, error) {
	if len(identity.Emails) == 0 {
		return nil, apperr.E(apperr.KindInvalid, "identity has no email address")
	}
	email := identity.Emails[0]

	username := identity.Username
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		ExternalID: identity.ID,
		Name:       identity.Name,
		Username:   username,
		Email:      email,
		Image:      identity.Image,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !repository.IsDuplicate(err) {
			return nil, apperr.Internal("failed to provision user", err)
		}
		// Lost a first-sight race; the winner's row is authoritative.
		existing, readErr := s.userRepo.GetByExternalID(ctx, identity.ID)
		if readErr != nil {
			return nil, apperr.Internal("failed to re-read user after conflict", readErr)
		}
		if existing == nil {
			return nil, apperr.Wrap(apperr.KindConflict, "user provisioning conflict", err)
		}
		return existing, nil
	}

	event := queue.Event{
		Type:      queue.EventUserProvisioned,
		Timestamp: time.Now(),
		Data: queue.UserEventData{
			UserID:   user.ID.String(),
			Username: user.Username,
		},
	}
	if err := s.producer.Publish(ctx, user.ID.String(), event); err != nil {
		s.logger.WithError(err).Error("Failed to publish user provisioned event")
	}

	s.logger.WithField("user_id", user.ID).Info("User provisioned")
	return user, nil
}
