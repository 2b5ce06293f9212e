package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
	"github.com/ahavlova/portfolio-backend/internal/repository"
	"github.com/ahavlova/portfolio-backend/internal/storage"
)

// GalleryStore описывает хранилище клиентских галерей.
type GalleryStore interface {
	Create(ctx context.Context, g *models.ClientGallery) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClientGallery, error)
	GetByShareHash(ctx context.Context, hash string) (*models.ClientGallery, error)
	List(ctx context.Context) ([]models.ClientGallery, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientPhotoStore описывает хранилище фотографий клиентских галерей.
type ClientPhotoStore interface {
	InsertBatch(ctx context.Context, photos []models.ClientPhoto) error
	ListByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.ClientPhoto, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ClientPhoto, error)
	DeleteByImageURL(ctx context.Context, imageURL string) error
}

// SelectionReader отдаёт реакции клиентов: отмеченные фотографии одного
// клиента и полный срез по галерее для админки.
type SelectionReader interface {
	ListLikedPhotoIDs(ctx context.Context, clientID string) ([]uuid.UUID, error)
	ListByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.ClientSelection, error)
}

// GalleryService управляет закрытыми галереями: создание со случайным
// ключом доступа, наполнение фотографиями и экспорт отбора для Lightroom.
type GalleryService struct {
	galleries GalleryStore
	photos    ClientPhotoStore
	likes     SelectionReader
	files     storage.Storage
}

// NewGalleryService создаёт новый сервис клиентских галерей.
func NewGalleryService(galleries GalleryStore, photos ClientPhotoStore, likes SelectionReader, files storage.Storage) *GalleryService {
	return &GalleryService{galleries: galleries, photos: photos, likes: likes, files: files}
}

// Create заводит галерею и генерирует ключ доступа из 16 случайных байт.
func (s *GalleryService) Create(ctx context.Context, name string) (*models.ClientGallery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя галереи не может быть пустым")
	}

	hash, err := newShareHash()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать ключ доступа")
	}

	g := &models.ClientGallery{Name: name, ShareHash: hash}
	if err := s.galleries.Create(ctx, g); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать галерею")
	}

	logger.Log.WithField("gallery_id", g.ID).Info("клиентская галерея создана")
	return g, nil
}

// List возвращает все галереи для админки.
func (s *GalleryService) List(ctx context.Context) ([]models.ClientGallery, error) {
	galleries, err := s.galleries.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить галереи")
	}
	return galleries, nil
}

// GetByShareHash открывает галерею по ключу доступа вместе с фотографиями.
// Неверный ключ неотличим от несуществующей галереи.
func (s *GalleryService) GetByShareHash(ctx context.Context, hash string) (*models.ClientGallery, []models.ClientPhoto, error) {
	g, err := s.galleries.GetByShareHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return nil, nil, apperror.ErrGalleryNotFound
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить галерею")
	}

	photos, err := s.photos.ListByGallery(ctx, g.ID)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}
	return g, photos, nil
}

// GetByID возвращает галерею вместе с фотографиями для админки.
func (s *GalleryService) GetByID(ctx context.Context, id uuid.UUID) (*models.ClientGallery, []models.ClientPhoto, error) {
	g, err := s.galleries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return nil, nil, apperror.ErrGalleryNotFound
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить галерею")
	}

	photos, err := s.photos.ListByGallery(ctx, g.ID)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}
	return g, photos, nil
}

// SelectionsOverview возвращает срез реакций по галерее для админки:
// кто из клиентов что отметил и прокомментировал.
func (s *GalleryService) SelectionsOverview(ctx context.Context, id uuid.UUID) ([]models.ClientSelection, error) {
	if _, err := s.galleries.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return nil, apperror.ErrGalleryNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить галерею")
	}

	selections, err := s.likes.ListByGallery(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить выбор клиентов")
	}
	return selections, nil
}

// Delete удаляет галерею со всеми фотографиями. Записи о выборе клиентов
// каскадно удаляет база, файлы чистятся по возможности.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	photos, err := s.photos.ListByGallery(ctx, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}

	if err := s.galleries.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGalleryNotFound) {
			return apperror.ErrGalleryNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось удалить галерею")
	}

	for _, ph := range photos {
		key, ok := s.files.KeyFromPublicURL(ph.ImageURL)
		if !ok {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("файл не удалился из хранилища")
		}
	}
	return nil
}

// DeletePhoto удаляет одну фотографию галереи по публичному URL.
func (s *GalleryService) DeletePhoto(ctx context.Context, imageURL string) error {
	if err := s.photos.DeleteByImageURL(ctx, imageURL); err != nil {
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

// LightroomExport собирает список исходных имён отмеченных фотографий
// без расширений, готовый для вставки в поиск Lightroom.
func (s *GalleryService) LightroomExport(ctx context.Context, galleryID uuid.UUID, clientID string) ([]string, error) {
	likedIDs, err := s.likes.ListLikedPhotoIDs(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить отмеченные фотографии")
	}
	if len(likedIDs) == 0 {
		return nil, nil
	}

	photos, err := s.photos.ListByIDs(ctx, likedIDs)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить фотографии")
	}

	names := make([]string, 0, len(photos))
	for _, ph := range photos {
		if ph.GalleryID != galleryID {
			continue
		}
		names = append(names, exportName(ph))
	}
	return names, nil
}

// uploadedNameRe вычленяет исходное имя из ключа вида "<millis>-<имя>".
var uploadedNameRe = regexp.MustCompile(`^\d{13,}-(.*)$`)

// exportName возвращает имя фотографии без расширения: из сохранённого
// original_filename, а для старых записей из хвоста URL загрузки.
func exportName(ph models.ClientPhoto) string {
	name := ""
	if ph.OriginalFilename != nil {
		name = *ph.OriginalFilename
	} else {
		name = path.Base(ph.ImageURL)
		if m := uploadedNameRe.FindStringSubmatch(name); m != nil {
			name = m[1]
		}
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

// newShareHash возвращает 32 hex-символа из 16 криптослучайных байт.
func newShareHash() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("gallery: генерация ключа: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
