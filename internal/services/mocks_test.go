package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	args := m.Called(ctx, externalID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *MockUserRepository) GetSuggested(ctx context.Context, userID uuid.UUID, limit int) ([]models.SuggestedUser, error) {
	args := m.Called(ctx, userID, limit)
	users, _ := args.Get(0).([]models.SuggestedUser)
	return users, args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	args := m.Called(ctx, authorID)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepository) ListLikedBy(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	args := m.Called(ctx, userID)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Get(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error) {
	args := m.Called(ctx, userID, postID)
	like, _ := args.Get(0).(*models.Like)
	return like, args.Error(1)
}

func (m *MockLikeRepository) CreateWithNotification(ctx context.Context, like *models.Like, notification *models.Notification) error {
	args := m.Called(ctx, like, notification)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Get(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	args := m.Called(ctx, followerID, followingID)
	follow, _ := args.Get(0).(*models.Follow)
	return follow, args.Error(1)
}

func (m *MockFollowRepository) CreateWithNotification(ctx context.Context, follow *models.Follow, notification *models.Notification) error {
	args := m.Called(ctx, follow, notification)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	args := m.Called(ctx, followerID, followingID)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) CreateWithNotification(ctx context.Context, comment *models.Comment, notification *models.Notification) error {
	args := m.Called(ctx, comment, notification)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID)
	notifications, _ := args.Get(0).([]*models.Notification)
	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, recipientID, ids)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// stubPublisher swallows events; services treat publishing as
// fire-and-forget, so tests only need it to not fail.
type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return nil
}

// stubPages records invalidated paths.
type stubPages struct {
	paths []string
}

func (s *stubPages) Invalidate(ctx context.Context, path string) {
	s.paths = append(s.paths, path)
}
