package user

import (
	"context"
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"
	"github.com/Neomeniam/GeoMemories-DRF/internal/friendship"
	"github.com/Neomeniam/GeoMemories-DRF/internal/post"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

// Relations is the slice of the friendship service profile views need.
type Relations interface {
	Relation(ctx context.Context, viewerID, subjectID string) (string, error)
	PendingRequestID(ctx context.Context, viewerID, subjectID string) (string, error)
}

// PostDecorator fills the computed per-post fields on a page of posts.
type PostDecorator interface {
	Decorate(ctx context.Context, posts []post.Post, viewerID string) error
}

type Service struct {
	db        db.Querier
	relations Relations
	posts     PostDecorator
}

func NewService(db db.Querier, relations Relations, posts PostDecorator) *Service {
	return &Service{db: db, relations: relations, posts: posts}
}

func (s *Service) Profile(ctx context.Context, viewerID, subjectID string) (Profile, error) {
	var p Profile
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, full_name, bio, avatar_url FROM users WHERE id=$1
	`, subjectID).Scan(&p.ID, &p.Username, &p.Email, &p.FullName, &p.Bio, &p.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts WHERE author_id=$1
	`, subjectID).Scan(&p.PostCount); err != nil {
		return Profile{}, err
	}
	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM friendships
		WHERE (from_user_id=$1 OR to_user_id=$1) AND status='accepted'
	`, subjectID).Scan(&p.FriendsCount); err != nil {
		return Profile{}, err
	}

	rel, err := s.relations.Relation(ctx, viewerID, subjectID)
	if err != nil {
		return Profile{}, err
	}
	p.FriendshipStatus = rel

	if viewerID != "" && viewerID != subjectID {
		reqID, err := s.relations.PendingRequestID(ctx, viewerID, subjectID)
		if err != nil {
			return Profile{}, err
		}
		if reqID != "" {
			p.FriendRequestID = &reqID
		}
	}
	return p, nil
}

func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	return s.Profile(ctx, userID, userID)
}

func (s *Service) UpdateMe(ctx context.Context, userID string, patch UpdateProfileRequest) (Profile, error) {
	p, err := s.Me(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = *patch.AvatarURL
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users SET full_name=$2, bio=$3, avatar_url=$4, updated_at=now() WHERE id=$1
	`, userID, p.FullName, p.Bio, p.AvatarURL)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Search matches users by username or email substring, classifying each hit
// against the viewer.
func (s *Service) Search(ctx context.Context, viewerID, query string) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, username, email, full_name, bio, avatar_url FROM users
		WHERE username ILIKE '%'||$1||'%' OR email ILIKE '%'||$1||'%'
		ORDER BY username
		LIMIT 20
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.FullName, &p.Bio, &p.AvatarURL); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		rel, err := s.relations.Relation(ctx, viewerID, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].FriendshipStatus = rel
	}
	return profiles, nil
}

// Posts is the scoped "posts by X" listing. Only the social policy applies
// here, pushed down into the query: owners see everything, friends see public
// and friends-only, everyone else public only. Another user's private posts
// are never listed, friend or not. No location gating in this view.
func (s *Service) Posts(ctx context.Context, viewerID, subjectID string) ([]post.Post, error) {
	rel, err := s.relations.Relation(ctx, viewerID, subjectID)
	if err != nil {
		return nil, err
	}

	var tiers []string
	switch rel {
	case friendship.RelationSelf:
		tiers = []string{post.VisibilityPublic, post.VisibilityFriends, post.VisibilityPrivate}
	case friendship.RelationFriends:
		tiers = []string{post.VisibilityPublic, post.VisibilityFriends}
	default:
		tiers = []string{post.VisibilityPublic}
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, author_id, caption, ST_Y(location::geometry), ST_X(location::geometry),
		       visibility, location_access, created_at
		FROM posts
		WHERE author_id=$1 AND visibility = ANY($2)
		ORDER BY created_at DESC
	`, subjectID, tiers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		var p post.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.Lat, &p.Lng, &p.Visibility, &p.LocationAccess, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.posts != nil {
		if err := s.posts.Decorate(ctx, posts, viewerID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}
