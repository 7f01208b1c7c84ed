package queue

import "time"

type EventType string

const (
	EventUserProvisioned EventType = "user_provisioned"
	EventProfileUpdated  EventType = "profile_updated"
	EventPostCreated     EventType = "post_created"
	EventPostDeleted     EventType = "post_deleted"
	EventLikeCreated     EventType = "like_created"
	EventLikeDeleted     EventType = "like_deleted"
	EventCommentCreated  EventType = "comment_created"
	EventFollowCreated   EventType = "follow_created"
	EventFollowDeleted   EventType = "follow_deleted"
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type PostEventData struct {
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

type LikeEventData struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

type CommentEventData struct {
	CommentID string `json:"comment_id"`
	UserID    string `json:"user_id"`
	PostID    string `json:"post_id"`
}

type FollowEventData struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

type UserEventData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
