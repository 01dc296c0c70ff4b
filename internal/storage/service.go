package storage

import (
	"context"

	"github.com/Neomeniam/GeoMemories-DRF/internal/db"

	"github.com/google/uuid"
)

// Service registers uploaded media objects and hands back the URL the post
// media rows reference. The actual byte transfer happens out of band.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SaveObject(ctx context.Context, userID, url, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", err
	}
	return id, nil
}
