package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// ClientPhotoRepository отвечает за фотографии клиентских галерей.
type ClientPhotoRepository struct {
	db *sqlx.DB
}

// NewClientPhotoRepository создаёт экземпляр репозитория.
func NewClientPhotoRepository(db *sqlx.DB) *ClientPhotoRepository {
	return &ClientPhotoRepository{db: db}
}

// InsertBatch сохраняет метаданные загруженных фотографий одним коммитом.
func (r *ClientPhotoRepository) InsertBatch(ctx context.Context, photos []models.ClientPhoto) error {
	if len(photos) == 0 {
		return nil
	}

	query := `INSERT INTO client_photos (gallery_id, image_url, original_filename) VALUES `
	args := make([]interface{}, 0, len(photos)*3)
	for i, p := range photos {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, p.GalleryID, p.ImageURL, p.OriginalFilename)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("client photo repository: batch insert: %w", err)
	}
	return nil
}

// ListByGallery возвращает фотографии галереи в порядке загрузки.
func (r *ClientPhotoRepository) ListByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.ClientPhoto, error) {
	var photos []models.ClientPhoto
	err := r.db.SelectContext(ctx, &photos,
		`SELECT * FROM client_photos WHERE gallery_id = $1 ORDER BY created_at`, galleryID)
	if err != nil {
		return nil, fmt.Errorf("client photo repository: list by gallery: %w", err)
	}
	return photos, nil
}

// ListByIDs возвращает фотографии по списку идентификаторов.
func (r *ClientPhotoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClientPhoto, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var photos []models.ClientPhoto
	err := r.db.SelectContext(ctx, &photos,
		`SELECT * FROM client_photos WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("client photo repository: list by ids: %w", err)
	}
	return photos, nil
}

// DeleteByImageURL удаляет фотографию по публичному URL.
func (r *ClientPhotoRepository) DeleteByImageURL(ctx context.Context, imageURL string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM client_photos WHERE image_url = $1`, imageURL)
	if err != nil {
		return fmt.Errorf("client photo repository: delete by url: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
