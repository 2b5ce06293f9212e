package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
	"github.com/ahavlova/portfolio-backend/internal/repository"
	"github.com/ahavlova/portfolio-backend/internal/storage"
)

// ProjectStore описывает взаимодействие сервиса с хранилищем проектов.
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	ListSiblings(ctx context.Context, parentID *uuid.UUID) ([]models.Project, error)
	Count(ctx context.Context) (int, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Rename(ctx context.Context, id uuid.UUID, name, slug string) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	SetTitleStyle(ctx context.Context, id uuid.UUID, style models.TitleStyle) error
	SetDescriptions(ctx context.Context, id uuid.UUID, cs, en *string) error
	SetMainImage(ctx context.Context, id uuid.UUID, imageURL *string) error
	ApplyOrdering(ctx context.Context, updates []repository.ProjectOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectPhotoStore описывает доступ к фотографиям проекта.
type ProjectPhotoStore interface {
	InsertBatch(ctx context.Context, photos []models.Photo) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Photo, error)
	DeleteByImageURL(ctx context.Context, projectID uuid.UUID, imageURL string) error
}

// ProjectService содержит бизнес-логику дерева портфолио: создание проектов
// и коллекций, порядок, публикацию и удаление.
type ProjectService struct {
	projects ProjectStore
	photos   ProjectPhotoStore
	files    storage.Storage
}

// NewProjectService создаёт новый сервис проектов.
func NewProjectService(projects ProjectStore, photos ProjectPhotoStore, files storage.Storage) *ProjectService {
	return &ProjectService{projects: projects, photos: photos, files: files}
}

// Create создаёт проект или коллекцию. Новый узел всегда не опубликован;
// позиция назначается по общему числу проектов, а плотная нумерация группы
// восстанавливается при первом перетаскивании.
func (s *ProjectService) Create(ctx context.Context, name string, isCollection bool, parentID *uuid.UUID) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя проекта не может быть пустым")
	}

	if parentID != nil {
		if isCollection {
			return nil, apperror.New(apperror.ErrCodeValidation, "коллекция не может быть вложена в коллекцию")
		}
		parent, err := s.projects.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrProjectNotFound) {
				return nil, apperror.ErrProjectNotFound
			}
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить родительскую коллекцию")
		}
		if !parent.IsCollection {
			return nil, apperror.New(apperror.ErrCodeValidation, "родителем может быть только коллекция")
		}
	}

	slug, err := GenerateSlug(ctx, s.projects, name)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать slug")
	}

	total, err := s.projects.Count(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось посчитать проекты")
	}

	p := &models.Project{
		Name:         name,
		Slug:         slug,
		IsPublished:  false,
		OrderIndex:   total,
		IsCollection: isCollection,
		ParentID:     parentID,
		TitleStyle:   models.TitleStyleWhiteText,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, apperror.ErrSlugConflict
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать проект")
	}

	logger.Log.WithField("project_id", p.ID).WithField("slug", p.Slug).Info("проект создан")
	return p, nil
}

// Tree возвращает полное дерево для админки.
func (s *ProjectService) Tree(ctx context.Context) ([]TreeNode, error) {
	all, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проекты")
	}
	return BuildTree(all), nil
}

// PublicTree возвращает дерево только из опубликованных узлов.
func (s *ProjectService) PublicTree(ctx context.Context) ([]TreeNode, error) {
	all, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проекты")
	}
	return PublishedTree(all), nil
}

// GetBySlug возвращает проект вместе с фотографиями для публичной страницы.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, []models.Photo, error) {
	p, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, nil, apperror.ErrProjectNotFound
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проект")
	}

	photos, err := s.photos.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}
	return p, photos, nil
}

// Reorder применяет новый порядок группы соседей. Запрошенный список обязан
// содержать ровно текущий состав группы; позиции перенумеровываются плотно
// с нуля и применяются одной транзакцией.
func (s *ProjectService) Reorder(ctx context.Context, parentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	siblings, err := s.projects.ListSiblings(ctx, parentID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить группу")
	}

	if !sameIDSet(siblings, orderedIDs) {
		return apperror.New(apperror.ErrCodeValidation, "порядок не совпадает с текущим составом группы")
	}

	if err := s.projects.ApplyOrdering(ctx, renumberGroup(orderedIDs, parentID)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось применить порядок")
	}
	return nil
}

// MoveToCollection переносит проект в другую группу: в коллекцию или на
// корневой уровень (parentID = nil). Обе группы перенумеровываются и
// применяются одной транзакцией, перенесённый проект встаёт в конец.
func (s *ProjectService) MoveToCollection(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проект")
	}
	if p.IsCollection && parentID != nil {
		return apperror.New(apperror.ErrCodeValidation, "коллекция не может быть вложена в коллекцию")
	}

	if parentID != nil {
		if *parentID == id {
			return apperror.New(apperror.ErrCodeValidation, "проект нельзя перенести в самого себя")
		}
		dest, err := s.projects.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repository.ErrProjectNotFound) {
				return apperror.ErrProjectNotFound
			}
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить коллекцию")
		}
		if !dest.IsCollection {
			return apperror.New(apperror.ErrCodeValidation, "перенести можно только в коллекцию")
		}
	}

	if sameParent(p.ParentID, parentID) {
		return nil
	}

	source, err := s.projects.ListSiblings(ctx, p.ParentID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить исходную группу")
	}
	dest, err := s.projects.ListSiblings(ctx, parentID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить целевую группу")
	}

	sourceIDs := make([]uuid.UUID, 0, len(source))
	for _, sib := range source {
		if sib.ID != id {
			sourceIDs = append(sourceIDs, sib.ID)
		}
	}
	destIDs := append(idsOf(dest), id)

	updates := renumberGroup(sourceIDs, p.ParentID)
	updates = append(updates, renumberGroup(destIDs, parentID)...)
	if err := s.projects.ApplyOrdering(ctx, updates); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось перенести проект")
	}
	return nil
}

// Rename переименовывает проект и пересчитывает slug по новому имени.
func (s *ProjectService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя проекта не может быть пустым")
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проект")
	}

	slug := p.Slug
	if name != p.Name {
		slug, err = GenerateSlug(ctx, s.projects, name)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать slug")
		}
	}

	if err := s.projects.Rename(ctx, id, name, slug); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlugTaken):
			return nil, apperror.ErrSlugConflict
		case errors.Is(err, repository.ErrProjectNotFound):
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось переименовать проект")
	}

	p.Name = name
	p.Slug = slug
	return p, nil
}

// ToggleVisibility переключает флаг публикации и возвращает новое значение.
func (s *ProjectService) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return false, apperror.ErrProjectNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проект")
	}

	next := !p.IsPublished
	if err := s.projects.SetPublished(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return false, apperror.ErrProjectNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить публикацию")
	}
	return next, nil
}

// UpdateTitleStyle меняет стиль отображения названия на обложке.
func (s *ProjectService) UpdateTitleStyle(ctx context.Context, id uuid.UUID, style models.TitleStyle) error {
	if !models.ValidTitleStyle(string(style)) {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный стиль заголовка: %s", style))
	}
	if err := s.projects.SetTitleStyle(ctx, id, style); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить стиль заголовка")
	}
	return nil
}

// UpdateDescriptions сохраняет описания проекта. Пустые строки после
// обрезки пробелов хранятся как NULL.
func (s *ProjectService) UpdateDescriptions(ctx context.Context, id uuid.UUID, cs, en string) error {
	if err := s.projects.SetDescriptions(ctx, id, normalizeText(cs), normalizeText(en)); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить описания")
	}
	return nil
}

// SetMainImage назначает обложку проекта.
func (s *ProjectService) SetMainImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	if err := s.projects.SetMainImage(ctx, id, normalizeText(imageURL)); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить обложку")
	}
	return nil
}

// Delete удаляет проект вместе с фотографиями. Непустая коллекция не
// удаляется: сначала нужно перенести или удалить вложенные проекты.
// Файлы в хранилище чистятся по возможности, после удаления записи.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить проект")
	}

	if p.IsCollection {
		n, err := s.projects.CountChildren(ctx, id)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось посчитать вложенные проекты")
		}
		if n > 0 {
			return apperror.ErrCollectionNotEmpty
		}
	}

	photos, err := s.photos.ListByProject(ctx, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось удалить проект")
	}

	s.removeFiles(ctx, photos, p.MainImageURL)
	return nil
}

// DeletePhoto удаляет одну фотографию проекта по её публичному URL.
func (s *ProjectService) DeletePhoto(ctx context.Context, projectID uuid.UUID, imageURL string) error {
	if err := s.photos.DeleteByImageURL(ctx, projectID, imageURL); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return apperror.ErrPhotoNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось удалить фотографию")
	}

	if key, ok := s.files.KeyFromPublicURL(imageURL); ok {
		if err := s.files.Delete(ctx, key); err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("файл не удалился из хранилища")
		}
	}
	return nil
}

// removeFiles подчищает файлы удалённого проекта. Ошибки хранилища только
// логируются: запись уже удалена, осиротевший файл хуже сломанного удаления.
func (s *ProjectService) removeFiles(ctx context.Context, photos []models.Photo, mainImageURL *string) {
	urls := make([]string, 0, len(photos)+1)
	for _, ph := range photos {
		urls = append(urls, ph.ImageURL)
	}
	if mainImageURL != nil {
		urls = append(urls, *mainImageURL)
	}

	for _, u := range urls {
		key, ok := s.files.KeyFromPublicURL(u)
		if !ok {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("файл не удалился из хранилища")
		}
	}
}

// normalizeText обрезает пробелы и превращает пустую строку в NULL.
func normalizeText(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
