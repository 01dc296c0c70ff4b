package friendship

import (
	"context"
	"errors"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"
	"github.com/Neomeniam/GeoMemories-DRF/internal/event"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrDuplicate      = errors.New("friend request already exists")
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrIncomingPending = errors.New("this user already sent you a friend request")
	ErrNotFound       = errors.New("friend request not found")
	ErrNotRecipient   = errors.New("only the recipient can resolve a friend request")
	ErrNotPending     = errors.New("friend request is no longer pending")
)

type Service struct {
	db  db.Querier
	bus *event.Bus
}

func NewService(db db.Querier, bus *event.Bus) *Service {
	return &Service{db: db, bus: bus}
}

// FriendIDs resolves the set of users with an accepted friendship with userID,
// regardless of which side sent the original request. An empty viewer id yields
// an empty set, never an error. Recomputed per request; nothing is cached.
func (s *Service) FriendIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids := map[string]struct{}{}
	if userID == "" {
		return ids, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT CASE WHEN from_user_id=$1 THEN to_user_id ELSE from_user_id END
		FROM friendships
		WHERE (from_user_id=$1 OR to_user_id=$1) AND status='accepted'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Relation classifies viewer against subject: self, friends, sent, received or
// none, first match winning in that order.
func (s *Service) Relation(ctx context.Context, viewerID, subjectID string) (string, error) {
	if viewerID == "" {
		return RelationNone, nil
	}
	if viewerID == subjectID {
		return RelationSelf, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT from_user_id, status FROM friendships
		WHERE (from_user_id=$1 AND to_user_id=$2)
		   OR (from_user_id=$2 AND to_user_id=$1)
	`, viewerID, subjectID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var sent, received bool
	for rows.Next() {
		var from, status string
		if err := rows.Scan(&from, &status); err != nil {
			return "", err
		}
		switch {
		case status == StatusAccepted:
			return RelationFriends, nil
		case status == StatusPending && from == viewerID:
			sent = true
		case status == StatusPending && from == subjectID:
			received = true
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if sent {
		return RelationSent, nil
	}
	if received {
		return RelationReceived, nil
	}
	return RelationNone, nil
}

// PendingRequestID returns the id of a pending request from subject to viewer,
// or the empty string when there is none. Profile views use it to offer the
// accept action directly.
func (s *Service) PendingRequestID(ctx context.Context, viewerID, subjectID string) (string, error) {
	var id string
	err := s.db.QueryRow(ctx, `
		SELECT id FROM friendships
		WHERE from_user_id=$1 AND to_user_id=$2 AND status='pending'
	`, subjectID, viewerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateRequest opens a pending edge from fromID to toID. A row that already
// exists in the same direction is rejected as a duplicate, including rows left
// behind by a decline. An accepted or pending reverse edge is rejected too.
func (s *Service) CreateRequest(ctx context.Context, fromID, toID string) (Friendship, error) {
	if fromID == toID {
		return Friendship{}, ErrSelfRequest
	}

	rows, err := s.db.Query(ctx, `
		SELECT from_user_id, status FROM friendships
		WHERE (from_user_id=$1 AND to_user_id=$2)
		   OR (from_user_id=$2 AND to_user_id=$1)
	`, fromID, toID)
	if err != nil {
		return Friendship{}, err
	}
	for rows.Next() {
		var from, status string
		if err := rows.Scan(&from, &status); err != nil {
			rows.Close()
			return Friendship{}, err
		}
		switch {
		case status == StatusAccepted:
			rows.Close()
			return Friendship{}, ErrAlreadyFriends
		case from == fromID:
			rows.Close()
			return Friendship{}, ErrDuplicate
		case status == StatusPending:
			rows.Close()
			return Friendship{}, ErrIncomingPending
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Friendship{}, err
	}

	f := Friendship{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     StatusPending,
	}
	// ON CONFLICT absorbs a concurrent double-submit of the same request.
	err = s.db.QueryRow(ctx, `
		INSERT INTO friendships (id, from_user_id, to_user_id, status)
		VALUES ($1,$2,$3,'pending')
		ON CONFLICT (from_user_id, to_user_id) DO NOTHING
		RETURNING created_at
	`, f.ID, f.FromUserID, f.ToUserID).Scan(&f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Friendship{}, ErrDuplicate
	}
	if err != nil {
		return Friendship{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, event.FriendRequestCreated{
			RequestID:  f.ID,
			FromUserID: f.FromUserID,
			ToUserID:   f.ToUserID,
		})
	}
	return f, nil
}

// Resolve transitions a pending request to accepted or declined. Only the
// recipient may resolve it; accepted and declined are terminal. The matching
// friend-request notification is removed as part of the transition.
func (s *Service) Resolve(ctx context.Context, requestID, viewerID string, accept bool) (Friendship, error) {
	f, err := s.Get(ctx, requestID)
	if err != nil {
		return Friendship{}, err
	}
	if f.ToUserID != viewerID {
		return Friendship{}, ErrNotRecipient
	}
	if f.Status != StatusPending {
		return Friendship{}, ErrNotPending
	}

	status := StatusDeclined
	if accept {
		status = StatusAccepted
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE friendships SET status=$2 WHERE id=$1 AND status='pending'
	`, requestID, status)
	if err != nil {
		return Friendship{}, err
	}
	if tag.RowsAffected() == 0 {
		return Friendship{}, ErrNotPending
	}

	_, err = s.db.Exec(ctx, `
		DELETE FROM notifications
		WHERE recipient_id=$1 AND sender_id=$2 AND type='friend_request'
	`, f.ToUserID, f.FromUserID)
	if err != nil {
		return Friendship{}, err
	}

	f.Status = status
	return f, nil
}

func (s *Service) Get(ctx context.Context, id string) (Friendship, error) {
	var f Friendship
	err := s.db.QueryRow(ctx, `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM friendships WHERE id=$1
	`, id).Scan(&f.ID, &f.FromUserID, &f.ToUserID, &f.Status, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Friendship{}, ErrNotFound
	}
	if err != nil {
		return Friendship{}, err
	}
	return f, nil
}

// PendingReceived lists pending requests addressed to userID, newest first.
func (s *Service) PendingReceived(ctx context.Context, userID string) ([]Friendship, error) {
	return s.listPending(ctx, `to_user_id`, userID)
}

// PendingSent lists pending requests sent by userID, newest first.
func (s *Service) PendingSent(ctx context.Context, userID string) ([]Friendship, error) {
	return s.listPending(ctx, `from_user_id`, userID)
}

func (s *Service) listPending(ctx context.Context, column, userID string) ([]Friendship, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM friendships WHERE `+column+`=$1 AND status='pending'
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Friendship
	for rows.Next() {
		var f Friendship
		if err := rows.Scan(&f.ID, &f.FromUserID, &f.ToUserID, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
