package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"github.com/socially/socially/internal/repository"
	"github.com/socially/socially/pkg/apperr"
	"github.com/socially/socially/pkg/logger"
	"github.com/socially/socially/pkg/queue"
)

type PostService struct {
	identity    *IdentityService
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	producer    EventPublisher
	pages       PageInvalidator
	logger      *logger.Logger
}

func NewPostService(
	identity *IdentityService,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	producer EventPublisher,
	pages PageInvalidator,
	logger *logger.Logger,
) *PostService {
	return &PostService{
		identity:    identity,
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		producer:    producer,
		pages:       pages,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
	Image   string `json:"image"`
}

// FeedPost is the denormalized read view of a post: author summary,
// ordered comments, liker ids and aggregate counts.
type FeedPost struct {
	ID           uuid.UUID          `json:"id"`
	Content      string             `json:"content"`
	Image        string             `json:"image"`
	CreatedAt    time.Time          `json:"created_at"`
	Author       models.UserSummary `json:"author"`
	Comments     []FeedComment      `json:"comments"`
	LikerIDs     []uuid.UUID        `json:"liker_ids"`
	LikeCount    int                `json:"like_count"`
	CommentCount int                `json:"comment_count"`
}

type FeedComment struct {
	ID        uuid.UUID          `json:"id"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Author    models.UserSummary `json:"author"`
}

func toFeedPost(post *models.Post) *FeedPost {
	fp := &FeedPost{
		ID:           post.ID,
		Content:      post.Content,
		Image:        post.Image,
		CreatedAt:    post.CreatedAt,
		Author:       post.Author.Summary(),
		Comments:     make([]FeedComment, 0, len(post.Comments)),
		LikerIDs:     make([]uuid.UUID, 0, len(post.Likes)),
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
	}
	for i := range post.Comments {
		c := &post.Comments[i]
		fp.Comments = append(fp.Comments, FeedComment{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    c.Author.Summary(),
		})
	}
	for i := range post.Likes {
		fp.LikerIDs = append(fp.LikerIDs, post.Likes[i].UserID)
	}
	return fp
}

func toFeedPosts(posts []*models.Post) []*FeedPost {
	feed := make([]*FeedPost, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, toFeedPost(post))
	}
	return feed
}

func (s *PostService) CreatePost(ctx context.Context, identity *Identity, req *CreatePostRequest) (*models.Post, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: user.ID,
		Content:  req.Content,
		Image:    req.Image,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, apperr.Internal("failed to create post", err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventPostCreated,
		Timestamp: time.Now(),
		Data: queue.PostEventData{
			PostID:   post.ID.String(),
			AuthorID: user.ID.String(),
		},
	})
	s.pages.Invalidate(ctx, "/")

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"post_id": post.ID,
	}).Info("Post created")

	return post, nil
}

// ListPosts returns all posts newest first. Pure read, no auth required.
func (s *PostService) ListPosts(ctx context.Context) ([]*FeedPost, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch posts", err)
	}
	return toFeedPosts(posts), nil
}

// ToggleLike flips the caller's like edge on the post. Creating the edge
// also creates a LIKE notification for the post's author (unless the caller
// is the author) in the same atomic unit; removing it never notifies.
// Returns whether the post is liked after the call.
func (s *PostService) ToggleLike(ctx context.Context, identity *Identity, postID uuid.UUID) (bool, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return false, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, apperr.Internal("failed to get post", err)
	}
	if post == nil {
		return false, apperr.E(apperr.KindNotFound, "post not found")
	}

	existing, err := s.likeRepo.Get(ctx, user.ID, postID)
	if err != nil {
		return false, apperr.Internal("failed to check like status", err)
	}

	if existing != nil {
		if err := s.likeRepo.Delete(ctx, user.ID, postID); err != nil {
			return false, apperr.Internal("failed to unlike post", err)
		}

		s.publish(ctx, user.ID.String(), queue.Event{
			Type:      queue.EventLikeDeleted,
			Timestamp: time.Now(),
			Data:      queue.LikeEventData{UserID: user.ID.String(), PostID: postID.String()},
		})
		s.pages.Invalidate(ctx, "/")
		return false, nil
	}

	like := &models.Like{UserID: user.ID, PostID: postID}
	var notification *models.Notification
	if post.AuthorID != user.ID {
		notification = &models.Notification{
			UserID:    post.AuthorID,
			CreatorID: user.ID,
			Kind:      models.NotificationLike,
			PostID:    &post.ID,
		}
	}

	if err := s.likeRepo.CreateWithNotification(ctx, like, notification); err != nil {
		if repository.IsDuplicate(err) {
			return false, apperr.Wrap(apperr.KindConflict, "post already liked", err)
		}
		return false, apperr.Internal("failed to like post", err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventLikeCreated,
		Timestamp: time.Now(),
		Data:      queue.LikeEventData{UserID: user.ID.String(), PostID: postID.String()},
	})
	s.pages.Invalidate(ctx, "/")

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"post_id": postID,
	}).Info("Post liked")

	return true, nil
}

// CreateComment creates a comment and, when the commenter is not the post's
// author, a COMMENT notification referencing it, atomically.
func (s *PostService) CreateComment(ctx context.Context, identity *Identity, postID uuid.UUID, content string) (*models.Comment, error) {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, apperr.E(apperr.KindInvalid, "content is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("failed to get post", err)
	}
	if post == nil {
		return nil, apperr.E(apperr.KindNotFound, "post not found")
	}

	// The comment ID is generated here rather than by the store so the
	// notification can reference it before the transaction runs.
	comment := &models.Comment{
		ID:       uuid.New(),
		AuthorID: user.ID,
		PostID:   postID,
		Content:  content,
	}
	var notification *models.Notification
	if post.AuthorID != user.ID {
		notification = &models.Notification{
			UserID:    post.AuthorID,
			CreatorID: user.ID,
			Kind:      models.NotificationComment,
			PostID:    &post.ID,
			CommentID: &comment.ID,
		}
	}

	if err := s.commentRepo.CreateWithNotification(ctx, comment, notification); err != nil {
		return nil, apperr.Internal("failed to create comment", err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventCommentCreated,
		Timestamp: time.Now(),
		Data: queue.CommentEventData{
			CommentID: comment.ID.String(),
			UserID:    user.ID.String(),
			PostID:    postID.String(),
		},
	})
	s.pages.Invalidate(ctx, "/")

	s.logger.WithFields(map[string]interface{}{
		"user_id":    user.ID,
		"post_id":    postID,
		"comment_id": comment.ID,
	}).Info("Comment created")

	return comment, nil
}

func (s *PostService) DeletePost(ctx context.Context, identity *Identity, postID uuid.UUID) error {
	user, err := s.identity.RequireUser(ctx, identity)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return apperr.Internal("failed to get post", err)
	}
	if post == nil {
		return apperr.E(apperr.KindNotFound, "post not found")
	}
	if post.AuthorID != user.ID {
		return apperr.E(apperr.KindForbidden, "no delete permission")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return apperr.Internal("failed to delete post", err)
	}

	s.publish(ctx, user.ID.String(), queue.Event{
		Type:      queue.EventPostDeleted,
		Timestamp: time.Now(),
		Data: queue.PostEventData{
			PostID:   postID.String(),
			AuthorID: user.ID.String(),
		},
	})
	s.pages.Invalidate(ctx, "/")

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"post_id": postID,
	}).Info("Post deleted")

	return nil
}

func (s *PostService) publish(ctx context.Context, key string, event queue.Event) {
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to publish engagement event")
	}
}
