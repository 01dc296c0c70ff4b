package post

import "time"

// Visibility tiers: who may see a post at the social layer.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Location access tiers: whether a post is proximity-locked.
const (
	LocationAnywhere = "anywhere"
	LocationNearby   = "nearby"
)

// NearbyRadiusM is the unlock radius for nearby-gated posts.
const NearbyRadiusM = 500.0

const (
	MediaImage = "image"
	MediaVideo = "video"
)

type Post struct {
	ID             string   `json:"id"`
	AuthorID       string   `json:"author_id"`
	Caption        string   `json:"caption"`
	Lat            *float64 `json:"latitude"`
	Lng            *float64 `json:"longitude"`
	Visibility     string   `json:"visibility"`
	LocationAccess string   `json:"location_access"`
	Media          []Media  `json:"media,omitempty"`
	LikeCount      int      `json:"like_count"`
	CommentCount   int      `json:"comment_count"`
	IsLiked        bool     `json:"is_liked"`
	IsOwner        bool     `json:"is_owner"`
	// DistanceM is filled in only when the viewer supplied a coordinate and
	// the post has one.
	DistanceM *float64  `json:"distance_m,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Media struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	FileURL   string    `json:"file_url"`
	MediaType string    `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityFriends || v == VisibilityPrivate
}

func ValidLocationAccess(v string) bool {
	return v == LocationAnywhere || v == LocationNearby
}

func ValidMediaType(v string) bool {
	return v == MediaImage || v == MediaVideo
}
