package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID string    `json:"-" gorm:"uniqueIndex;not null"` // identity provider subject
	Name       string    `json:"name"`
	Username   string    `json:"username" gorm:"uniqueIndex;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Image      string    `json:"image"`
	Bio        string    `json:"bio"`
	Location   string    `json:"location"`
	Website    string    `json:"website"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSummary is the denormalized author view embedded in posts, comments
// and notifications.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Image    string    `json:"image"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Image:    u.Image,
	}
}

// Profile is the public view returned by profile lookups, with the
// relation counts the profile page renders.
type Profile struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Username          string    `json:"username"`
	Bio               string    `json:"bio"`
	Image             string    `json:"image"`
	Location          string    `json:"location"`
	Website           string    `json:"website"`
	CreatedAt         time.Time `json:"created_at"`
	FollowerCount     int64     `json:"follower_count"`
	FollowingCount    int64     `json:"following_count"`
	PostCount         int64     `json:"post_count"`
	CommentCount      int64     `json:"comment_count"`
	NotificationCount int64     `json:"notification_count"`
}

// SuggestedUser is a connection candidate returned by the graph service.
type SuggestedUser struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Image         string    `json:"image"`
	FollowerCount int64     `json:"follower_count"`
}

func (User) TableName() string {
	return "users"
}
