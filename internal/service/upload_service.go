package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ahavlova/portfolio-backend/internal/imageproc"
	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
	"github.com/ahavlova/portfolio-backend/internal/storage"
)

// Области загрузки: префикс ключа объекта в хранилище.
const (
	ScopeProjects  = "projects"
	ScopeGalleries = "galleries"
	ScopeCovers    = "covers"
)

// UploadItem — один файл из формы загрузки.
type UploadItem struct {
	Filename string
	Data     []byte
}

// UploadedFile — результат успешной загрузки одного файла.
type UploadedFile struct {
	OriginalFilename string `json:"original_filename"`
	PublicURL        string `json:"public_url"`
}

// ProgressFunc вызывается после каждого завершённого файла.
type ProgressFunc func(done, total int)

// UploadService проводит пакет файлов через общий конвейер: сжатие,
// подписанный адрес, отправка в хранилище и фиксация записей в базе.
// Файлы обрабатываются параллельно ограниченным числом воркеров.
type UploadService struct {
	files  storage.Storage
	client *http.Client

	projectPhotos ProjectPhotoStore
	clientPhotos  ClientPhotoStore

	workers int
}

// NewUploadService создаёт сервис загрузки с заданным числом воркеров.
func NewUploadService(files storage.Storage, client *http.Client, projectPhotos ProjectPhotoStore, clientPhotos ClientPhotoStore, workers int) *UploadService {
	if workers <= 0 {
		workers = 4
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &UploadService{
		files:         files,
		client:        client,
		projectPhotos: projectPhotos,
		clientPhotos:  clientPhotos,
		workers:       workers,
	}
}

// SignUploads выдаёт подписанные адреса для прямой загрузки из браузера.
func (s *UploadService) SignUploads(ctx context.Context, scope string, ownerID uuid.UUID, filenames []string) ([]storage.UploadTarget, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	if len(filenames) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "список файлов пуст")
	}

	targets := make([]storage.UploadTarget, 0, len(filenames))
	for _, name := range filenames {
		key := storage.BuildObjectKey(scope, ownerID.String(), name)
		target, err := s.files.PresignUpload(ctx, key, "image/jpeg")
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "хранилище не выдало адрес загрузки")
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// UploadBatch сжимает и загружает пакет файлов. Успешные файлы проходят до
// конца даже при отказах соседей; итоговая ошибка перечисляет файлы,
// которые загрузить не удалось. Прогресс растёт только после подтверждённой
// загрузки файла.
func (s *UploadService) UploadBatch(ctx context.Context, scope string, ownerID uuid.UUID, items []UploadItem, progress ProgressFunc) ([]UploadedFile, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "список файлов пуст")
	}

	type result struct {
		idx  int
		file UploadedFile
		err  error
	}

	var (
		wg      sync.WaitGroup
		done    atomic.Int64
		results = make([]result, len(items))
		sem     = make(chan struct{}, s.workers)
	)

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item UploadItem) {
			defer wg.Done()
			defer func() { <-sem }()

			file, err := s.uploadOne(ctx, scope, ownerID, item)
			results[i] = result{idx: i, file: file, err: err}
			if err == nil {
				n := done.Add(1)
				if progress != nil {
					progress(int(n), len(items))
				}
			}
		}(i, item)
	}
	wg.Wait()

	var uploaded []UploadedFile
	var failed []string
	for _, r := range results {
		if r.err != nil {
			logger.Log.WithError(r.err).WithField("file", items[r.idx].Filename).Warn("файл не загрузился")
			failed = append(failed, items[r.idx].Filename)
			continue
		}
		uploaded = append(uploaded, r.file)
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return uploaded, apperror.New(apperror.ErrCodeBatch,
			fmt.Sprintf("не загрузились файлы: %s", strings.Join(failed, ", ")))
	}
	return uploaded, nil
}

// uploadOne проводит один файл через конвейер целиком.
func (s *UploadService) uploadOne(ctx context.Context, scope string, ownerID uuid.UUID, item UploadItem) (UploadedFile, error) {
	if !filetype.IsImage(item.Data) {
		return UploadedFile{}, fmt.Errorf("upload: %s не является изображением", item.Filename)
	}

	compressed, err := imageproc.Compress(item.Data)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload: сжатие %s: %w", item.Filename, err)
	}

	key := storage.BuildObjectKey(scope, ownerID.String(), item.Filename)
	target, err := s.files.PresignUpload(ctx, key, compressed.ContentType)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload: подпись %s: %w", item.Filename, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, bytes.NewReader(compressed.Data))
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload: запрос для %s: %w", item.Filename, err)
	}
	req.Header.Set("Content-Type", compressed.ContentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("upload: отправка %s: %w", item.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadedFile{}, fmt.Errorf("upload: хранилище ответило %d для %s", resp.StatusCode, item.Filename)
	}

	return UploadedFile{OriginalFilename: item.Filename, PublicURL: target.PublicURL}, nil
}

// CommitProjectPhotos фиксирует загруженные фотографии за проектом.
func (s *UploadService) CommitProjectPhotos(ctx context.Context, projectID uuid.UUID, urls []string) error {
	if len(urls) == 0 {
		return apperror.New(apperror.ErrCodeValidation, "список фотографий пуст")
	}

	photos := make([]models.Photo, 0, len(urls))
	for _, u := range urls {
		photos = append(photos, models.Photo{ProjectID: projectID, ImageURL: u})
	}
	if err := s.projectPhotos.InsertBatch(ctx, photos); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить фотографии")
	}
	return nil
}

// CommitClientPhotos фиксирует загруженные фотографии за клиентской
// галереей, сохраняя исходные имена для экспорта в Lightroom.
func (s *UploadService) CommitClientPhotos(ctx context.Context, galleryID uuid.UUID, files []UploadedFile) error {
	if len(files) == 0 {
		return apperror.New(apperror.ErrCodeValidation, "список фотографий пуст")
	}

	photos := make([]models.ClientPhoto, 0, len(files))
	for _, f := range files {
		name := normalizeText(f.OriginalFilename)
		photos = append(photos, models.ClientPhoto{
			GalleryID:        galleryID,
			ImageURL:         f.PublicURL,
			OriginalFilename: name,
		})
	}
	if err := s.clientPhotos.InsertBatch(ctx, photos); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить фотографии")
	}
	return nil
}

func validScope(scope string) error {
	switch scope {
	case ScopeProjects, ScopeGalleries, ScopeCovers:
		return nil
	}
	return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестная область загрузки: %s", scope))
}
