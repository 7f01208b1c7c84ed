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

type graphServiceFixture struct {
	svc        *GraphService
	userRepo   *MockUserRepository
	followRepo *MockFollowRepository
	caller     *models.User
	identity   *Identity
}

func newGraphServiceFixture() *graphServiceFixture {
	f := &graphServiceFixture{
		userRepo:   new(MockUserRepository),
		followRepo: new(MockFollowRepository),
		caller:     &models.User{ID: uuid.New(), ExternalID: "ext-caller", Username: "caller"},
	}
	f.identity = &Identity{ID: "ext-caller"}
	f.userRepo.On("GetByExternalID", mock.Anything, "ext-caller").Return(f.caller, nil)

	log := logger.NewLogger()
	identitySvc := NewIdentityService(f.userRepo, stubPublisher{}, log)
	f.svc = NewGraphService(identitySvc, f.userRepo, f.followRepo, stubPublisher{}, log)
	return f
}

func TestToggleFollowSelfAlwaysFails(t *testing.T) {
	f := newGraphServiceFixture()

	_, err := f.svc.ToggleFollow(context.Background(), f.identity, f.caller.ID)
	assert.True(t, apperr.Is(err, apperr.KindSelfReference))

	// The edge store is never consulted for a self-follow.
	f.followRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	f.followRepo.AssertNotCalled(t, "CreateWithNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFollowRequiresAuth(t *testing.T) {
	f := newGraphServiceFixture()

	_, err := f.svc.ToggleFollow(context.Background(), nil, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestToggleFollowCreatesEdgeWithNotification(t *testing.T) {
	f := newGraphServiceFixture()
	targetID := uuid.New()

	f.followRepo.On("Get", mock.Anything, f.caller.ID, targetID).Return(nil, nil)
	f.followRepo.On("CreateWithNotification", mock.Anything,
		mock.MatchedBy(func(fl *models.Follow) bool {
			return fl.FollowerID == f.caller.ID && fl.FollowingID == targetID
		}),
		mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.Kind == models.NotificationFollow &&
				n.UserID == targetID && n.CreatorID == f.caller.ID
		})).Return(nil)

	following, err := f.svc.ToggleFollow(context.Background(), f.identity, targetID)
	require.NoError(t, err)
	assert.True(t, following)
	f.followRepo.AssertExpectations(t)
}

func TestToggleFollowTwiceReturnsToOriginalState(t *testing.T) {
	f := newGraphServiceFixture()
	targetID := uuid.New()
	edge := &models.Follow{FollowerID: f.caller.ID, FollowingID: targetID}

	f.followRepo.On("Get", mock.Anything, f.caller.ID, targetID).Return(nil, nil).Once()
	f.followRepo.On("CreateWithNotification", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.followRepo.On("Get", mock.Anything, f.caller.ID, targetID).Return(edge, nil).Once()
	f.followRepo.On("Delete", mock.Anything, f.caller.ID, targetID).Return(nil).Once()

	following, err := f.svc.ToggleFollow(context.Background(), f.identity, targetID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = f.svc.ToggleFollow(context.Background(), f.identity, targetID)
	require.NoError(t, err)
	assert.False(t, following)

	// The unfollow half must never create a notification.
	f.followRepo.AssertNumberOfCalls(t, "CreateWithNotification", 1)
	f.followRepo.AssertExpectations(t)
}

func TestSuggestedUsersExcludesCallerAndFollowed(t *testing.T) {
	f := newGraphServiceFixture()
	suggested := []models.SuggestedUser{
		{ID: uuid.New(), Username: "x", FollowerCount: 2},
		{ID: uuid.New(), Username: "y", FollowerCount: 0},
	}
	// The exclusion set is pushed down into the store query, keyed by the
	// caller's id and capped at three rows.
	f.userRepo.On("GetSuggested", mock.Anything, f.caller.ID, 3).Return(suggested, nil)

	users, err := f.svc.SuggestedUsers(context.Background(), f.identity)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	f.userRepo.AssertExpectations(t)
}

func TestSuggestedUsersRequiresAuth(t *testing.T) {
	f := newGraphServiceFixture()

	_, err := f.svc.SuggestedUsers(context.Background(), nil)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}
