package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"github.com/socially/socially/pkg/apperr"
	"github.com/socially/socially/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type postServiceFixture struct {
	svc         *PostService
	userRepo    *MockUserRepository
	postRepo    *MockPostRepository
	likeRepo    *MockLikeRepository
	commentRepo *MockCommentRepository
	pages       *stubPages
	caller      *models.User
	identity    *Identity
}

func newPostServiceFixture() *postServiceFixture {
	f := &postServiceFixture{
		userRepo:    new(MockUserRepository),
		postRepo:    new(MockPostRepository),
		likeRepo:    new(MockLikeRepository),
		commentRepo: new(MockCommentRepository),
		pages:       &stubPages{},
		caller:      &models.User{ID: uuid.New(), ExternalID: "ext-caller", Username: "caller"},
	}
	f.identity = &Identity{ID: "ext-caller"}
	f.userRepo.On("GetByExternalID", mock.Anything, "ext-caller").Return(f.caller, nil)

	log := logger.NewLogger()
	identitySvc := NewIdentityService(f.userRepo, stubPublisher{}, log)
	f.svc = NewPostService(identitySvc, f.postRepo, f.likeRepo, f.commentRepo, stubPublisher{}, f.pages, log)
	return f
}

func TestCreatePostRequiresAuth(t *testing.T) {
	f := newPostServiceFixture()

	_, err := f.svc.CreatePost(context.Background(), nil, &CreatePostRequest{Content: "hello"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	f.postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePostInvalidatesFeedPage(t *testing.T) {
	f := newPostServiceFixture()
	f.postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.AuthorID == f.caller.ID && p.Content == "hello"
	})).Return(nil)

	post, err := f.svc.CreatePost(context.Background(), f.identity, &CreatePostRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, f.caller.ID, post.AuthorID)
	assert.Contains(t, f.pages.paths, "/")
}

func TestToggleLikeMissingPost(t *testing.T) {
	f := newPostServiceFixture()
	postID := uuid.New()
	f.postRepo.On("GetByID", mock.Anything, postID).Return(nil, nil)

	_, err := f.svc.ToggleLike(context.Background(), f.identity, postID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestToggleLikeNotifiesPostAuthor(t *testing.T) {
	f := newPostServiceFixture()
	authorID := uuid.New()
	post := &models.Post{ID: uuid.New(), AuthorID: authorID}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.likeRepo.On("Get", mock.Anything, f.caller.ID, post.ID).Return(nil, nil)
	f.likeRepo.On("CreateWithNotification", mock.Anything,
		mock.MatchedBy(func(l *models.Like) bool {
			return l.UserID == f.caller.ID && l.PostID == post.ID
		}),
		mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.Kind == models.NotificationLike &&
				n.UserID == authorID && n.CreatorID == f.caller.ID &&
				n.PostID != nil && *n.PostID == post.ID
		})).Return(nil)

	liked, err := f.svc.ToggleLike(context.Background(), f.identity, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	f.likeRepo.AssertExpectations(t)
}

func TestToggleLikeOwnPostNeverNotifies(t *testing.T) {
	f := newPostServiceFixture()
	post := &models.Post{ID: uuid.New(), AuthorID: f.caller.ID}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.likeRepo.On("Get", mock.Anything, f.caller.ID, post.ID).Return(nil, nil)
	f.likeRepo.On("CreateWithNotification", mock.Anything, mock.Anything,
		(*models.Notification)(nil)).Return(nil)

	liked, err := f.svc.ToggleLike(context.Background(), f.identity, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	f.likeRepo.AssertExpectations(t)
}

func TestToggleLikeTwiceReturnsToOriginalState(t *testing.T) {
	f := newPostServiceFixture()
	authorID := uuid.New()
	post := &models.Post{ID: uuid.New(), AuthorID: authorID}
	like := &models.Like{UserID: f.caller.ID, PostID: post.ID}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.likeRepo.On("Get", mock.Anything, f.caller.ID, post.ID).Return(nil, nil).Once()
	f.likeRepo.On("CreateWithNotification", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.likeRepo.On("Get", mock.Anything, f.caller.ID, post.ID).Return(like, nil).Once()
	f.likeRepo.On("Delete", mock.Anything, f.caller.ID, post.ID).Return(nil).Once()

	liked, err := f.svc.ToggleLike(context.Background(), f.identity, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = f.svc.ToggleLike(context.Background(), f.identity, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// The unlike half must never create a notification.
	f.likeRepo.AssertNumberOfCalls(t, "CreateWithNotification", 1)
	f.likeRepo.AssertExpectations(t)
}

func TestCreateCommentEmptyContentCreatesNothing(t *testing.T) {
	f := newPostServiceFixture()

	_, err := f.svc.CreateComment(context.Background(), f.identity, uuid.New(), "   ")
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
	f.commentRepo.AssertNotCalled(t, "CreateWithNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	f := newPostServiceFixture()
	authorID := uuid.New()
	post := &models.Post{ID: uuid.New(), AuthorID: authorID}

	var gotComment *models.Comment
	var gotNotification *models.Notification
	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.commentRepo.On("CreateWithNotification", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotComment, _ = args.Get(1).(*models.Comment)
			gotNotification, _ = args.Get(2).(*models.Notification)
		}).Return(nil)

	comment, err := f.svc.CreateComment(context.Background(), f.identity, post.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", comment.Content)

	require.NotNil(t, gotComment)
	assert.Equal(t, f.caller.ID, gotComment.AuthorID)
	assert.Equal(t, post.ID, gotComment.PostID)
	assert.NotEqual(t, uuid.Nil, gotComment.ID)

	// The notification must reference the engagement that created it: the
	// commented post and the comment itself.
	require.NotNil(t, gotNotification)
	assert.Equal(t, models.NotificationComment, gotNotification.Kind)
	assert.Equal(t, authorID, gotNotification.UserID)
	assert.Equal(t, f.caller.ID, gotNotification.CreatorID)
	require.NotNil(t, gotNotification.PostID)
	assert.Equal(t, post.ID, *gotNotification.PostID)
	require.NotNil(t, gotNotification.CommentID)
	assert.Equal(t, gotComment.ID, *gotNotification.CommentID)
	f.commentRepo.AssertExpectations(t)
}

func TestCreateCommentOwnPostNoNotification(t *testing.T) {
	f := newPostServiceFixture()
	post := &models.Post{ID: uuid.New(), AuthorID: f.caller.ID}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.commentRepo.On("CreateWithNotification", mock.Anything, mock.Anything,
		(*models.Notification)(nil)).Return(nil)

	_, err := f.svc.CreateComment(context.Background(), f.identity, post.ID, "hello")
	require.NoError(t, err)
	f.commentRepo.AssertExpectations(t)
}

func TestDeletePostRequiresOwnership(t *testing.T) {
	f := newPostServiceFixture()
	post := &models.Post{ID: uuid.New(), AuthorID: uuid.New()}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)

	err := f.svc.DeletePost(context.Background(), f.identity, post.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	f.postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeletePostMissing(t *testing.T) {
	f := newPostServiceFixture()
	postID := uuid.New()
	f.postRepo.On("GetByID", mock.Anything, postID).Return(nil, nil)

	err := f.svc.DeletePost(context.Background(), f.identity, postID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteOwnPost(t *testing.T) {
	f := newPostServiceFixture()
	post := &models.Post{ID: uuid.New(), AuthorID: f.caller.ID}

	f.postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
	f.postRepo.On("Delete", mock.Anything, post.ID).Return(nil)

	err := f.svc.DeletePost(context.Background(), f.identity, post.ID)
	require.NoError(t, err)
	assert.Contains(t, f.pages.paths, "/")
}

func TestListPostsBuildsFeedView(t *testing.T) {
	f := newPostServiceFixture()
	author := models.User{ID: uuid.New(), Name: "A", Username: "a"}
	likerID := uuid.New()
	posts := []*models.Post{
		{
			ID:      uuid.New(),
			Content: "first",
			Author:  author,
			Comments: []models.Comment{
				{ID: uuid.New(), Content: "nice", Author: author},
			},
			Likes: []models.Like{{UserID: likerID}},
		},
	}
	f.postRepo.On("List", mock.Anything).Return(posts, nil)

	feed, err := f.svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "a", feed[0].Author.Username)
	assert.Equal(t, 1, feed[0].CommentCount)
	assert.Equal(t, 1, feed[0].LikeCount)
	assert.Equal(t, []uuid.UUID{likerID}, feed[0].LikerIDs)
}
