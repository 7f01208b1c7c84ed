package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/socially/socially/internal/models"
	"gorm.io/gorm"
)

type LikeRepository interface {
	Get(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error)
	// CreateWithNotification commits the like edge and, when notification
	// is non-nil, its paired notification as one atomic unit. Either both
	// rows exist afterwards or neither does.
	CreateWithNotification(ctx context.Context, like *models.Like, notification *models.Notification) error
	Delete(ctx context.Context, userID, postID uuid.UUID) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Get(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

func (r *likeRepository) CreateWithNotification(ctx context.Context, like *models.Like, notification *models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		if notification != nil {
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}
