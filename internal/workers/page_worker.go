package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/internal/services"
	"github.com/socially/socially/pkg/logger"
	"github.com/socially/socially/pkg/queue"
)

// PageWorker consumes the engagement event stream and drops the cached
// pages each event makes stale, so out-of-process writers get the same
// invalidation the API actions trigger inline.
type PageWorker struct {
	pages    *services.PageCache
	userRepo repository.UserRepository
	consumer *queue.KafkaConsumer
	logger   *logger.Logger
}

func NewPageWorker(
	pages *services.PageCache,
	userRepo repository.UserRepository,
	consumer *queue.KafkaConsumer,
	logger *logger.Logger,
) *PageWorker {
	return &PageWorker{
		pages:    pages,
		userRepo: userRepo,
		consumer: consumer,
		logger:   logger,
	}
}

func (w *PageWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting page worker...")

	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		var event queue.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		w.logger.WithFields(map[string]interface{}{
			"event_type": event.Type,
			"timestamp":  event.Timestamp,
		}).Info("Processing event")

		switch event.Type {
		case queue.EventPostCreated, queue.EventPostDeleted,
			queue.EventLikeCreated, queue.EventLikeDeleted,
			queue.EventCommentCreated:
			w.pages.Invalidate(ctx, "/")
			return nil
		case queue.EventFollowCreated, queue.EventFollowDeleted:
			return w.handleFollowEvent(ctx, event)
		case queue.EventProfileUpdated, queue.EventUserProvisioned:
			return w.handleUserEvent(ctx, event)
		default:
			w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
			return nil
		}
	})
}

func (w *PageWorker) Stop() error {
	return w.consumer.Close()
}

// A follow changes the follower counts on the target's profile page.
func (w *PageWorker) handleFollowEvent(ctx context.Context, event queue.Event) error {
	data, err := decode[queue.FollowEventData](event)
	if err != nil {
		return err
	}

	followingID, err := uuid.Parse(data.FollowingID)
	if err != nil {
		return fmt.Errorf("invalid following ID in event: %w", err)
	}

	user, err := w.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return fmt.Errorf("failed to load followed user: %w", err)
	}
	if user == nil {
		return nil
	}

	w.pages.Invalidate(ctx, "/profile/"+user.Username)
	return nil
}

func (w *PageWorker) handleUserEvent(ctx context.Context, event queue.Event) error {
	data, err := decode[queue.UserEventData](event)
	if err != nil {
		return err
	}

	w.pages.Invalidate(ctx, "/profile/"+data.Username)
	return nil
}

// decode round-trips the loosely typed event payload into its concrete
// shape.
func decode[T any](event queue.Event) (T, error) {
	var data T
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return data, fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return data, nil
}
