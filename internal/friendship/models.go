package friendship

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Relation values describe the viewer's standing toward another user.
const (
	RelationSelf     = "self"
	RelationFriends  = "friends"
	RelationSent     = "sent"
	RelationReceived = "received"
	RelationNone     = "none"
)

// Friendship is a directed request edge. At most one row exists per ordered
// (from_user, to_user) pair; "friends" holds when an accepted row exists in
// either direction.
type Friendship struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
