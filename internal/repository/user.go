package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the store surface for user rows and the denormalized
// profile/suggestion read views built on top of them.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	GetSuggested(ctx context.Context, userID uuid.UUID, limit int) ([]models.SuggestedUser, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "external_id = ?", externalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by external ID: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetProfile returns the public profile view with relation counts, or
// (nil, nil) when the username is unknown.
func (r *userRepository) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Location:  user.Location,
		Website:   user.Website,
		CreatedAt: user.CreatedAt,
	}

	counts := []struct {
		dest  *int64
		model interface{}
		where string
	}{
		{&profile.FollowerCount, &models.Follow{}, "following_id = ?"},
		{&profile.FollowingCount, &models.Follow{}, "follower_id = ?"},
		{&profile.PostCount, &models.Post{}, "author_id = ?"},
		{&profile.CommentCount, &models.Comment{}, "author_id = ?"},
		{&profile.NotificationCount, &models.Notification{}, "user_id = ?"},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Where(c.where, user.ID).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count profile relations: %w", err)
		}
	}

	return profile, nil
}

// GetSuggested returns up to limit users excluding userID and anyone userID
// already follows. Selection among eligible rows is store-determined.
func (r *userRepository) GetSuggested(ctx context.Context, userID uuid.UUID, limit int) ([]models.SuggestedUser, error) {
	followed := r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", userID)

	var suggested []models.SuggestedUser
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.name, users.username, users.image, "+
			"(SELECT count(*) FROM follows WHERE follows.following_id = users.id) AS follower_count").
		Where("users.id <> ?", userID).
		Where("users.id NOT IN (?)", followed).
		Limit(limit).
		Scan(&suggested).Error; err != nil {
		return nil, fmt.Errorf("failed to get suggested users: %w", err)
	}
	return suggested, nil
}
