package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// ErrGalleryNotFound возвращается, когда клиентская галерея не найдена.
var ErrGalleryNotFound = errors.New("client gallery not found")

// ClientGalleryRepository отвечает за клиентские галереи.
type ClientGalleryRepository struct {
	db *sqlx.DB
}

// NewClientGalleryRepository создаёт экземпляр репозитория.
func NewClientGalleryRepository(db *sqlx.DB) *ClientGalleryRepository {
	return &ClientGalleryRepository{db: db}
}

// Create вставляет галерею и заполняет ID и CreatedAt.
func (r *ClientGalleryRepository) Create(ctx context.Context, g *models.ClientGallery) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO client_galleries (name, share_hash) VALUES ($1, $2) RETURNING id, created_at`,
		g.Name, g.ShareHash,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("client gallery repository: insert: %w", err)
	}
	return nil
}

// GetByID возвращает галерею по идентификатору.
func (r *ClientGalleryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientGallery, error) {
	var g models.ClientGallery
	err := r.db.GetContext(ctx, &g, `SELECT * FROM client_galleries WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGalleryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client gallery repository: get by id: %w", err)
	}
	return &g, nil
}

// GetByShareHash возвращает галерею по публичному токену доступа.
func (r *ClientGalleryRepository) GetByShareHash(ctx context.Context, hash string) (*models.ClientGallery, error) {
	var g models.ClientGallery
	err := r.db.GetContext(ctx, &g, `SELECT * FROM client_galleries WHERE share_hash = $1`, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGalleryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client gallery repository: get by hash: %w", err)
	}
	return &g, nil
}

// List возвращает все галереи, новые сверху.
func (r *ClientGalleryRepository) List(ctx context.Context) ([]models.ClientGallery, error) {
	var galleries []models.ClientGallery
	err := r.db.SelectContext(ctx, &galleries,
		`SELECT * FROM client_galleries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("client gallery repository: list: %w", err)
	}
	return galleries, nil
}

// Delete удаляет галерею; вложенные фотографии и реакции каскадируются на уровне БД.
func (r *ClientGalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM client_galleries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("client gallery repository: delete: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrGalleryNotFound
	}
	return nil
}
