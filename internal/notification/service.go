package notification

import (
	"context"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, senderID, recipientID, typ string, postID *string) (Notification, error) {
	n := Notification{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Type:        typ,
		PostID:      postID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (id, sender_id, recipient_id, type, post_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, n.ID, n.SenderID, n.RecipientID, n.Type, n.PostID)
	if err := row.Scan(&n.CreatedAt); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// List returns the recipient's notifications, newest first. Friend-request
// notifications whose underlying request is no longer pending are deleted
// before the read returns; the list never shows a stale request.
func (s *Service) List(ctx context.Context, recipientID string) ([]Notification, error) {
	_, err := s.db.Exec(ctx, `
		DELETE FROM notifications n
		WHERE n.recipient_id=$1 AND n.type='friend_request'
		  AND NOT EXISTS (
			SELECT 1 FROM friendships f
			WHERE f.from_user_id=n.sender_id AND f.to_user_id=$1 AND f.status='pending'
		  )
	`, recipientID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, sender_id, recipient_id, type, post_id, is_read, created_at
		FROM notifications WHERE recipient_id=$1
		ORDER BY created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.SenderID, &n.RecipientID, &n.Type, &n.PostID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET is_read=true
		WHERE recipient_id=$1 AND is_read=false
	`, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
