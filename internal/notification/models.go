package notification

import "time"

const (
	TypeLike          = "like"
	TypeComment       = "comment"
	TypeFriendRequest = "friend_request"
)

type Notification struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	PostID      *string   `json:"post_id,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
