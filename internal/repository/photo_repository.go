package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// ErrPhotoNotFound возвращается, когда фотография не найдена.
var ErrPhotoNotFound = errors.New("photo not found")

// PhotoRepository отвечает за фотографии галерей проектов.
type PhotoRepository struct {
	db *sqlx.DB
}

// NewPhotoRepository создаёт экземпляр репозитория.
func NewPhotoRepository(db *sqlx.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// InsertBatch сохраняет метаданные загруженных фотографий одним коммитом.
func (r *PhotoRepository) InsertBatch(ctx context.Context, photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	// Batch INSERT, чтобы не плодить N+1 запросов при массовой загрузке.
	query := `INSERT INTO photos (project_id, image_url) VALUES `
	args := make([]interface{}, 0, len(photos)*2)
	for i, p := range photos {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, p.ProjectID, p.ImageURL)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("photo repository: batch insert: %w", err)
	}
	return nil
}

// ListByProject возвращает фотографии проекта в порядке загрузки.
func (r *PhotoRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.SelectContext(ctx, &photos,
		`SELECT * FROM photos WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("photo repository: list by project: %w", err)
	}
	return photos, nil
}

// DeleteByImageURL удаляет фотографию проекта по публичному URL.
func (r *PhotoRepository) DeleteByImageURL(ctx context.Context, projectID uuid.UUID, imageURL string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM photos WHERE project_id = $1 AND image_url = $2`, projectID, imageURL)
	if err != nil {
		return fmt.Errorf("photo repository: delete by url: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
