package post

import (
	"context"
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"
	"github.com/Neomeniam/GeoMemories-DRF/internal/event"
	"github.com/Neomeniam/GeoMemories-DRF/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound     = errors.New("post not found")
	ErrNotOwner     = errors.New("only the author may modify this post")
	ErrInvalidMedia = errors.New("media_type must be image or video")
)

// FriendResolver supplies the viewer's accepted friend set. The friendship
// service satisfies it; queries recompute the set every time for freshness.
type FriendResolver interface {
	FriendIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

type Service struct {
	db      db.Querier
	friends FriendResolver
	bus     *event.Bus
}

func NewService(db db.Querier, friends FriendResolver, bus *event.Bus) *Service {
	return &Service{db: db, friends: friends, bus: bus}
}

func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	input.ID = uuid.NewString()
	if input.Visibility == "" {
		input.Visibility = VisibilityPublic
	}
	if input.LocationAccess == "" {
		input.LocationAccess = LocationAnywhere
	}

	// ST_MakePoint is strict, so a nil lat/lng pair stores a NULL location.
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, author_id, caption, location, visibility, location_access)
		VALUES ($1,$2,$3, ST_SetSRID(ST_MakePoint($4,$5), 4326)::geography, $6,$7)
		RETURNING created_at
	`, input.ID, input.AuthorID, input.Caption, input.Lng, input.Lat, input.Visibility, input.LocationAccess)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Post{}, err
	}

	media := input.Media
	input.Media = nil
	for _, m := range media {
		saved, err := s.addMedia(ctx, input.ID, m.FileURL, m.MediaType)
		if err != nil {
			return Post{}, err
		}
		input.Media = append(input.Media, saved)
	}
	input.IsOwner = true
	return input, nil
}

// AddMedia attaches an uploaded file to a post. Owner only.
func (s *Service) AddMedia(ctx context.Context, postID, viewerID, fileURL, mediaType string) (Media, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return Media{}, err
	}
	if p.AuthorID != viewerID {
		return Media{}, ErrNotOwner
	}
	return s.addMedia(ctx, postID, fileURL, mediaType)
}

func (s *Service) addMedia(ctx context.Context, postID, fileURL, mediaType string) (Media, error) {
	if mediaType == "" {
		mediaType = MediaImage
	}
	if !ValidMediaType(mediaType) {
		return Media{}, ErrInvalidMedia
	}
	m := Media{
		ID:        uuid.NewString(),
		PostID:    postID,
		FileURL:   fileURL,
		MediaType: mediaType,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO post_media (id, post_id, file_url, media_type)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, m.ID, m.PostID, m.FileURL, m.MediaType)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return Media{}, err
	}
	return m, nil
}

// Get loads a bare post row without visibility checks or decoration.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, author_id, caption, ST_Y(location::geometry), ST_X(location::geometry),
		       visibility, location_access, created_at
		FROM posts WHERE id=$1
	`, id)
	var p Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.Lat, &p.Lng, &p.Visibility, &p.LocationAccess, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// Feed returns every post the viewer is allowed to see, decorated with media
// and counts. Candidates are loaded in one pass and run through the
// admissibility predicate in-process.
func (s *Service) Feed(ctx context.Context, viewerID string, viewer *geo.Coord) ([]Post, error) {
	friends, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, author_id, caption, ST_Y(location::geometry), ST_X(location::geometry),
		       visibility, location_access, created_at
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.Lat, &p.Lng, &p.Visibility, &p.LocationAccess, &p.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	visible := VisiblePosts(candidates, viewerID, friends, viewer)
	if err := s.Decorate(ctx, visible, viewerID); err != nil {
		return nil, err
	}
	return visible, nil
}

// Detail loads one post through the same admissibility predicate the feed
// uses. Posts the viewer may not see are reported as not found rather than
// forbidden, so their existence does not leak.
func (s *Service) Detail(ctx context.Context, postID, viewerID string, viewer *geo.Coord) (Post, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return Post{}, err
	}

	friends, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return Post{}, err
	}
	if !Admissible(p, viewerID, friends, viewer) {
		return Post{}, ErrNotFound
	}
	if viewer != nil {
		if loc := Coordinate(p); loc != nil {
			d := geo.MetersBetween(*viewer, *loc)
			p.DistanceM = &d
		}
	}

	posts := []Post{p}
	if err := s.Decorate(ctx, posts, viewerID); err != nil {
		return Post{}, err
	}
	return posts[0], nil
}

// CanView reports whether the viewer passes the social layer for a post.
// Interaction endpoints (likes, comments) gate on the social tier only; the
// location tier controls discovery, not engagement with an already-seen post.
func (s *Service) CanView(ctx context.Context, postID, viewerID string) (bool, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return false, err
	}
	friends, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return false, err
	}
	return SociallyVisible(p, viewerID, friends), nil
}

// ToggleLike flips the (post, viewer) like. The insert-else-delete discipline
// on the unique pair absorbs concurrent double-clicks without surfacing an
// error.
func (s *Service) ToggleLike(ctx context.Context, postID, viewerID string) (bool, int, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	friends, err := s.friends.FriendIDs(ctx, viewerID)
	if err != nil {
		return false, 0, err
	}
	if !SociallyVisible(p, viewerID, friends) {
		return false, 0, ErrNotFound
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO post_likes (id, post_id, user_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, uuid.NewString(), postID, viewerID)
	if err != nil {
		return false, 0, err
	}

	liked := tag.RowsAffected() == 1
	if !liked {
		if _, err := s.db.Exec(ctx, `
			DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2
		`, postID, viewerID); err != nil {
			return false, 0, err
		}
	}

	var count int
	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM post_likes WHERE post_id=$1
	`, postID).Scan(&count); err != nil {
		return false, 0, err
	}

	if liked && s.bus != nil {
		s.bus.Publish(ctx, event.LikeCreated{
			PostID:       p.ID,
			PostAuthorID: p.AuthorID,
			LikerID:      viewerID,
		})
	}
	return liked, count, nil
}

// DeletePost removes a post and, through the schema's cascades, its media,
// comments and likes. Owner only.
func (s *Service) DeletePost(ctx context.Context, postID, viewerID string) error {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != viewerID {
		return ErrNotOwner
	}
	_, err = s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	return err
}

// Decorate fills media, like/comment counts and the viewer-relative flags for
// a page of posts.
func (s *Service) Decorate(ctx context.Context, posts []Post, viewerID string) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	media, err := s.loadMedia(ctx, ids)
	if err != nil {
		return err
	}
	likeCounts, err := s.loadCounts(ctx, `
		SELECT post_id, COUNT(*) FROM post_likes WHERE post_id = ANY($1) GROUP BY post_id
	`, ids)
	if err != nil {
		return err
	}
	commentCounts, err := s.loadCounts(ctx, `
		SELECT post_id, COUNT(*) FROM comments WHERE post_id = ANY($1) GROUP BY post_id
	`, ids)
	if err != nil {
		return err
	}
	liked, err := s.loadLiked(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]
		p.Media = media[p.ID]
		p.LikeCount = likeCounts[p.ID]
		p.CommentCount = commentCounts[p.ID]
		_, p.IsLiked = liked[p.ID]
		p.IsOwner = viewerID != "" && p.AuthorID == viewerID
	}
	return nil
}

func (s *Service) loadMedia(ctx context.Context, postIDs []string) (map[string][]Media, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, file_url, media_type, created_at
		FROM post_media WHERE post_id = ANY($1)
		ORDER BY created_at
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := map[string][]Media{}
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.PostID, &m.FileURL, &m.MediaType, &m.CreatedAt); err != nil {
			return nil, err
		}
		media[m.PostID] = append(media[m.PostID], m)
	}
	return media, rows.Err()
}

func (s *Service) loadCounts(ctx context.Context, sql string, postIDs []string) (map[string]int, error) {
	rows, err := s.db.Query(ctx, sql, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *Service) loadLiked(ctx context.Context, viewerID string, postIDs []string) (map[string]struct{}, error) {
	liked := map[string]struct{}{}
	if viewerID == "" {
		return liked, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT post_id FROM post_likes WHERE user_id=$1 AND post_id = ANY($2)
	`, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = struct{}{}
	}
	return liked, rows.Err()
}
