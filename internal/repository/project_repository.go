package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// ErrProjectNotFound возвращается, когда проект не найден.
var ErrProjectNotFound = errors.New("project not found")

// ErrSlugTaken возвращается при нарушении уникальности slug на вставке.
var ErrSlugTaken = errors.New("slug already taken")

// ProjectOrder описывает целевую позицию проекта внутри группы соседей.
// ParentID задаёт группу: nil — корневой уровень.
type ProjectOrder struct {
	ID         uuid.UUID
	ParentID   *uuid.UUID
	OrderIndex int
}

// ProjectRepository отвечает за работу с проектами.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository создаёт экземпляр репозитория.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create вставляет новый проект и заполняет ID и CreatedAt.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (name, slug, is_published, order_index, is_collection, parent_id, description_cs, description_en, title_style)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		p.Name,
		p.Slug,
		p.IsPublished,
		p.OrderIndex,
		p.IsCollection,
		p.ParentID,
		p.DescriptionCS,
		p.DescriptionEN,
		p.TitleStyle,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation; уникальный индекс по slug — подстраховка
		// от одновременной двойной отправки формы.
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("project repository: insert: %w", err)
	}
	return nil
}

// GetByID возвращает проект по идентификатору.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project repository: get by id: %w", err)
	}
	return &p, nil
}

// GetBySlug возвращает проект по slug.
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project repository: get by slug: %w", err)
	}
	return &p, nil
}

// ListAll возвращает все проекты, отсортированные для построения дерева.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	query := `SELECT * FROM projects ORDER BY parent_id NULLS FIRST, order_index, created_at`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("project repository: list all: %w", err)
	}
	return projects, nil
}

// ListSiblings возвращает одну группу соседей, отсортированную по order_index.
func (r *ProjectRepository) ListSiblings(ctx context.Context, parentID *uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	var err error
	if parentID == nil {
		err = r.db.SelectContext(ctx, &projects,
			`SELECT * FROM projects WHERE parent_id IS NULL ORDER BY order_index, created_at`)
	} else {
		err = r.db.SelectContext(ctx, &projects,
			`SELECT * FROM projects WHERE parent_id = $1 ORDER BY order_index, created_at`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("project repository: list siblings: %w", err)
	}
	return projects, nil
}

// ListPublishedRoots возвращает опубликованные проекты корневого уровня.
func (r *ProjectRepository) ListPublishedRoots(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	query := `SELECT * FROM projects WHERE parent_id IS NULL AND is_published = TRUE ORDER BY order_index`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("project repository: list published: %w", err)
	}
	return projects, nil
}

// Count возвращает общее количество проектов.
func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`); err != nil {
		return 0, fmt.Errorf("project repository: count: %w", err)
	}
	return count, nil
}

// CountChildren возвращает количество прямых потомков проекта.
func (r *ProjectRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects WHERE parent_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("project repository: count children: %w", err)
	}
	return count, nil
}

// SlugExists проверяет, занят ли slug.
func (r *ProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("project repository: slug exists: %w", err)
	}
	return exists, nil
}

// Rename обновляет имя и slug проекта.
func (r *ProjectRepository) Rename(ctx context.Context, id uuid.UUID, name, slug string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = $2, slug = $3 WHERE id = $1`, id, name, slug)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("project repository: rename: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// SetPublished обновляет флаг публикации.
func (r *ProjectRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET is_published = $2 WHERE id = $1`, id, published)
	if err != nil {
		return fmt.Errorf("project repository: set published: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// SetTitleStyle обновляет стиль заголовка.
func (r *ProjectRepository) SetTitleStyle(ctx context.Context, id uuid.UUID, style models.TitleStyle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET title_style = $2 WHERE id = $1`, id, style)
	if err != nil {
		return fmt.Errorf("project repository: set title style: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// SetDescriptions обновляет описания проекта на обоих языках.
func (r *ProjectRepository) SetDescriptions(ctx context.Context, id uuid.UUID, cs, en *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET description_cs = $2, description_en = $3 WHERE id = $1`, id, cs, en)
	if err != nil {
		return fmt.Errorf("project repository: set descriptions: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// SetMainImage обновляет обложку проекта.
func (r *ProjectRepository) SetMainImage(ctx context.Context, id uuid.UUID, imageURL *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET main_image_url = $2 WHERE id = $1`, id, imageURL)
	if err != nil {
		return fmt.Errorf("project repository: set main image: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// ApplyOrdering применяет полный пересчёт позиций (и, при необходимости,
// родителей) одним коммитом. Либо применяются все строки, либо ни одной:
// первая же ошибка откатывает транзакцию целиком.
func (r *ProjectRepository) ApplyOrdering(ctx context.Context, updates []ProjectOrder) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("project repository: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, u := range updates {
		if _, err = tx.ExecContext(ctx,
			`UPDATE projects SET order_index = $2, parent_id = $3 WHERE id = $1`,
			u.ID, u.OrderIndex, u.ParentID,
		); err != nil {
			return fmt.Errorf("project repository: apply ordering for %s: %w", u.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("project repository: commit ordering: %w", err)
	}
	return nil
}

// Delete удаляет проект и возвращает ErrProjectNotFound, если удалять нечего.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("project repository: delete: %w", err)
	}
	return requireAffected(res, ErrProjectNotFound)
}

// requireAffected переводит "ни одна строка не затронута" в доменную ошибку.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("project repository: rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
