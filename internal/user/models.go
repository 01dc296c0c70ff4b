package user

type Profile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url"`
	PostCount    int    `json:"post_count"`
	FriendsCount int    `json:"friends_count"`
	// FriendshipStatus is the viewer's standing toward this user: self,
	// friends, sent, received or none.
	FriendshipStatus string `json:"friendship_status"`
	// FriendRequestID is set when this user has a pending request toward the
	// viewer, so clients can accept it straight from the profile.
	FriendRequestID *string `json:"friend_request_id"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}
