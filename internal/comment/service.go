package comment

import (
	"context"
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"
	"github.com/Neomeniam/GeoMemories-DRF/internal/event"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotFound       = errors.New("comment not found")
	ErrNotOwner       = errors.New("only the author may modify this comment")
	ErrParentNotFound = errors.New("parent comment not found")
	ErrParentMismatch = errors.New("parent comment belongs to another post")
)

// PostGate answers whether a viewer passes the post's social visibility. The
// post service satisfies it; comments never bypass the post's policy.
type PostGate interface {
	CanView(ctx context.Context, postID, viewerID string) (bool, error)
}

type Service struct {
	db   db.Querier
	gate PostGate
	bus  *event.Bus
}

func NewService(db db.Querier, gate PostGate, bus *event.Bus) *Service {
	return &Service{db: db, gate: gate, bus: bus}
}

func (s *Service) Create(ctx context.Context, postID, authorID, text string, parentID *string) (Comment, error) {
	postAuthor, err := s.postAuthor(ctx, postID)
	if err != nil {
		return Comment{}, err
	}
	if err := s.checkGate(ctx, postID, authorID); err != nil {
		return Comment{}, err
	}

	var parentAuthor string
	if parentID != nil {
		var parentPost string
		err := s.db.QueryRow(ctx, `
			SELECT post_id, author_id FROM comments WHERE id=$1
		`, *parentID).Scan(&parentPost, &parentAuthor)
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, ErrParentNotFound
		}
		if err != nil {
			return Comment{}, err
		}
		if parentPost != postID {
			return Comment{}, ErrParentMismatch
		}
	}

	c := Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
		ParentID: parentID,
		IsOwner:  true,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, author_id, text, parent_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, c.ID, c.PostID, c.AuthorID, c.Text, c.ParentID)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Comment{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, event.CommentCreated{
			CommentID:      c.ID,
			PostID:         postID,
			PostAuthorID:   postAuthor,
			AuthorID:       authorID,
			ParentAuthorID: parentAuthor,
		})
	}
	return c, nil
}

// Thread returns the rendered comment tree for a post, flattened at
// RenderDepth, decorated with like counts and viewer flags.
func (s *Service) Thread(ctx context.Context, postID, viewerID string) ([]Comment, error) {
	if _, err := s.postAuthor(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.checkGate(ctx, postID, viewerID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, author_id, text, parent_id, created_at
		FROM comments WHERE post_id=$1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	var ids []string
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []Comment{}, nil
	}

	likeCounts, likedSet, err := s.loadLikes(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		c := &comments[i]
		c.LikeCount = likeCounts[c.ID]
		_, c.IsLiked = likedSet[c.ID]
		c.IsOwner = viewerID != "" && c.AuthorID == viewerID
	}

	return RenderThread(comments, RenderDepth), nil
}

func (s *Service) Update(ctx context.Context, commentID, viewerID, text string) (Comment, error) {
	c, err := s.get(ctx, commentID)
	if err != nil {
		return Comment{}, err
	}
	if c.AuthorID != viewerID {
		return Comment{}, ErrNotOwner
	}

	c.Text = text
	c.IsOwner = true
	_, err = s.db.Exec(ctx, `UPDATE comments SET text=$2 WHERE id=$1`, commentID, text)
	if err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, commentID, viewerID string) error {
	c, err := s.get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != viewerID {
		return ErrNotOwner
	}
	// Replies cascade with the parent row.
	_, err = s.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, commentID)
	return err
}

// ToggleLike flips the (comment, viewer) like with the same atomic
// insert-else-delete discipline posts use.
func (s *Service) ToggleLike(ctx context.Context, commentID, viewerID string) (bool, int, error) {
	if _, err := s.get(ctx, commentID); err != nil {
		return false, 0, err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO comment_likes (id, comment_id, user_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`, uuid.NewString(), commentID, viewerID)
	if err != nil {
		return false, 0, err
	}

	liked := tag.RowsAffected() == 1
	if !liked {
		if _, err := s.db.Exec(ctx, `
			DELETE FROM comment_likes WHERE comment_id=$1 AND user_id=$2
		`, commentID, viewerID); err != nil {
			return false, 0, err
		}
	}

	var count int
	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comment_likes WHERE comment_id=$1
	`, commentID).Scan(&count); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (s *Service) get(ctx context.Context, id string) (Comment, error) {
	var c Comment
	err := s.db.QueryRow(ctx, `
		SELECT id, post_id, author_id, text, parent_id, created_at
		FROM comments WHERE id=$1
	`, id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.ParentID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) postAuthor(ctx context.Context, postID string) (string, error) {
	var author string
	err := s.db.QueryRow(ctx, `SELECT author_id FROM posts WHERE id=$1`, postID).Scan(&author)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", err
	}
	return author, nil
}

func (s *Service) checkGate(ctx context.Context, postID, viewerID string) error {
	if s.gate == nil {
		return nil
	}
	ok, err := s.gate.CanView(ctx, postID, viewerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}

func (s *Service) loadLikes(ctx context.Context, viewerID string, commentIDs []string) (map[string]int, map[string]struct{}, error) {
	counts := map[string]int{}
	rows, err := s.db.Query(ctx, `
		SELECT comment_id, COUNT(*) FROM comment_likes
		WHERE comment_id = ANY($1) GROUP BY comment_id
	`, commentIDs)
	if err != nil {
		return nil, nil, err
	}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			rows.Close()
			return nil, nil, err
		}
		counts[id] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	liked := map[string]struct{}{}
	if viewerID == "" {
		return counts, liked, nil
	}
	rows, err = s.db.Query(ctx, `
		SELECT comment_id FROM comment_likes
		WHERE user_id=$1 AND comment_id = ANY($2)
	`, viewerID, commentIDs)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, nil, err
		}
		liked[id] = struct{}{}
	}
	return counts, liked, rows.Err()
}
