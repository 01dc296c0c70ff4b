package comment

import "time"

// RenderDepth is the maximum nesting shown to clients. Storage keeps
// unlimited depth; anything deeper is flattened into its visible ancestor's
// reply list.
const RenderDepth = 2

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	ParentID  *string   `json:"parent,omitempty"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
	IsOwner   bool      `json:"is_owner"`
	Replies   []Comment `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
