package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:PostID"`
	Likes    []Like    `json:"likes" gorm:"foreignKey:PostID"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

// Like is a toggleable (user, post) edge. The composite unique index is the
// invariant: one like per user per post.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a toggleable directed (follower, following) edge. Self-follows
// are rejected before the store is ever touched.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationKind string

const (
	NotificationLike    NotificationKind = "LIKE"
	NotificationComment NotificationKind = "COMMENT"
	NotificationFollow  NotificationKind = "FOLLOW"
)

// Notification is created only as a side effect of like/comment/follow
// creation, never on the remove half of a toggle, and never when the actor
// is the recipient.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"` // recipient
	CreatorID uuid.UUID        `json:"creator_id" gorm:"type:uuid;not null"`    // actor
	Kind      NotificationKind `json:"kind" gorm:"size:16;not null"`
	PostID    *uuid.UUID       `json:"post_id" gorm:"type:uuid"`
	CommentID *uuid.UUID       `json:"comment_id" gorm:"type:uuid"`
	Read      bool             `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`

	Creator User     `json:"creator" gorm:"foreignKey:CreatorID"`
	Post    *Post    `json:"post,omitempty" gorm:"foreignKey:PostID"`
	Comment *Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID"`
}

func (Post) TableName() string {
	return "posts"
}

func (Comment) TableName() string {
	return "comments"
}

func (Like) TableName() string {
	return "likes"
}

func (Follow) TableName() string {
	return "follows"
}

func (Notification) TableName() string {
	return "notifications"
}
