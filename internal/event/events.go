package event

// Typed records describing state changes that other components react to.
// Publishers report what happened; deciding who to notify is the consumer's job.

const (
	TypeLikeCreated          = "like_created"
	TypeCommentCreated       = "comment_created"
	TypeFriendRequestCreated = "friend_request_created"
)

type Event interface {
	EventType() string
}

type LikeCreated struct {
	PostID       string `json:"post_id"`
	PostAuthorID string `json:"post_author_id"`
	LikerID      string `json:"liker_id"`
}

func (LikeCreated) EventType() string { return TypeLikeCreated }

type CommentCreated struct {
	CommentID    string `json:"comment_id"`
	PostID       string `json:"post_id"`
	PostAuthorID string `json:"post_author_id"`
	AuthorID     string `json:"author_id"`
	// ParentAuthorID is set when the comment is a reply.
	ParentAuthorID string `json:"parent_author_id,omitempty"`
}

func (CommentCreated) EventType() string { return TypeCommentCreated }

type FriendRequestCreated struct {
	RequestID  string `json:"request_id"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
}

func (FriendRequestCreated) EventType() string { return TypeFriendRequestCreated }
