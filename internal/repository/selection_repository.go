package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// SelectionRepository отвечает за реакции клиентов (лайки и комментарии).
// Все записи идут через upsert по составному ключу (client_id, photo_id),
// поэтому повтор одной и той же операции идемпотентен.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository создаёт экземпляр репозитория.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// UpsertLike выставляет флаг лайка, не трогая комментарий.
// Снятие лайка не удаляет строку: комментарий без лайка должен пережить его.
func (r *SelectionRepository) UpsertLike(ctx context.Context, clientID string, photoID uuid.UUID, liked bool) error {
	query := `
		INSERT INTO client_selections (client_id, photo_id, is_liked, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id, photo_id)
		DO UPDATE SET is_liked = EXCLUDED.is_liked, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, clientID, photoID, liked); err != nil {
		return fmt.Errorf("selection repository: upsert like: %w", err)
	}
	return nil
}

// UpsertComment выставляет комментарий, не трогая лайк. nil очищает комментарий.
func (r *SelectionRepository) UpsertComment(ctx context.Context, clientID string, photoID uuid.UUID, comment *string) error {
	query := `
		INSERT INTO client_selections (client_id, photo_id, comment, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id, photo_id)
		DO UPDATE SET comment = EXCLUDED.comment, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, clientID, photoID, comment); err != nil {
		return fmt.Errorf("selection repository: upsert comment: %w", err)
	}
	return nil
}

// ListByClient возвращает все реакции клиента (одной галереи).
func (r *SelectionRepository) ListByClient(ctx context.Context, clientID string) ([]models.ClientSelection, error) {
	var selections []models.ClientSelection
	err := r.db.SelectContext(ctx, &selections,
		`SELECT * FROM client_selections WHERE client_id = $1`, clientID)
	if err != nil {
		return nil, fmt.Errorf("selection repository: list by client: %w", err)
	}
	return selections, nil
}

// ListByGallery возвращает все реакции по фотографиям одной галереи.
func (r *SelectionRepository) ListByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.ClientSelection, error) {
	var selections []models.ClientSelection
	err := r.db.SelectContext(ctx, &selections, `
		SELECT s.* FROM client_selections s
		JOIN client_photos p ON p.id = s.photo_id
		WHERE p.gallery_id = $1
		ORDER BY s.updated_at DESC`, galleryID)
	if err != nil {
		return nil, fmt.Errorf("selection repository: list by gallery: %w", err)
	}
	return selections, nil
}

// ListLikedPhotoIDs возвращает идентификаторы фотографий с активным лайком.
func (r *SelectionRepository) ListLikedPhotoIDs(ctx context.Context, clientID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT photo_id FROM client_selections WHERE client_id = $1 AND is_liked = TRUE`, clientID)
	if err != nil {
		return nil, fmt.Errorf("selection repository: list liked: %w", err)
	}
	return ids, nil
}
