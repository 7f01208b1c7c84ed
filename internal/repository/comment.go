package repository

import (
	"context"
	"fmt"

	"github.com/socially/socially/internal/models"
	"gorm.io/gorm"
)

type CommentRepository interface {
	// CreateWithNotification commits the comment and, when notification is
	// non-nil, its paired notification as one atomic unit. Either both rows
	// exist afterwards or neither does.
	CreateWithNotification(ctx context.Context, comment *models.Comment, notification *models.Notification) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateWithNotification(ctx context.Context, comment *models.Comment, notification *models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
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
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}
