package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
	"github.com/ahavlova/portfolio-backend/internal/repository"
)

// fakeGalleryStore — галереи в памяти.
type fakeGalleryStore struct {
	galleries map[uuid.UUID]*models.ClientGallery
}

func newFakeGalleryStore() *fakeGalleryStore {
	return &fakeGalleryStore{galleries: make(map[uuid.UUID]*models.ClientGallery)}
}

func (f *fakeGalleryStore) Create(_ context.Context, g *models.ClientGallery) error {
	g.ID = uuid.New()
	cp := *g
	f.galleries[g.ID] = &cp
	return nil
}

func (f *fakeGalleryStore) GetByID(_ context.Context, id uuid.UUID) (*models.ClientGallery, error) {
	g, ok := f.galleries[id]
	if !ok {
		return nil, repository.ErrGalleryNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGalleryStore) GetByShareHash(_ context.Context, hash string) (*models.ClientGallery, error) {
	for _, g := range f.galleries {
		if g.ShareHash == hash {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repository.ErrGalleryNotFound
}

func (f *fakeGalleryStore) List(_ context.Context) ([]models.ClientGallery, error) {
	out := make([]models.ClientGallery, 0, len(f.galleries))
	for _, g := range f.galleries {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeGalleryStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.galleries[id]; !ok {
		return repository.ErrGalleryNotFound
	}
	delete(f.galleries, id)
	return nil
}

// fakeClientPhotoStore — фотографии клиентских галерей в памяти.
type fakeClientPhotoStore struct {
	photos []models.ClientPhoto
}

func (f *fakeClientPhotoStore) InsertBatch(_ context.Context, photos []models.ClientPhoto) error {
	for i := range photos {
		if photos[i].ID == (uuid.UUID{}) {
			photos[i].ID = uuid.New()
		}
	}
	f.photos = append(f.photos, photos...)
	return nil
}

func (f *fakeClientPhotoStore) ListByGallery(_ context.Context, galleryID uuid.UUID) ([]models.ClientPhoto, error) {
	var out []models.ClientPhoto
	for _, p := range f.photos {
		if p.GalleryID == galleryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClientPhotoStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.ClientPhoto, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.ClientPhoto
	for _, p := range f.photos {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClientPhotoStore) DeleteByImageURL(_ context.Context, imageURL string) error {
	for i, p := range f.photos {
		if p.ImageURL == imageURL {
			f.photos = append(f.photos[:i], f.photos[i+1:]...)
			return nil
		}
	}
	return repository.ErrPhotoNotFound
}

// fakeLikedLister отдаёт фиксированный набор реакций.
type fakeLikedLister struct {
	liked      []uuid.UUID
	selections []models.ClientSelection
}

func (f *fakeLikedLister) ListLikedPhotoIDs(_ context.Context, clientID string) ([]uuid.UUID, error) {
	return f.liked, nil
}

func (f *fakeLikedLister) ListByGallery(_ context.Context, _ uuid.UUID) ([]models.ClientSelection, error) {
	return f.selections, nil
}

func newGalleryService() (*GalleryService, *fakeGalleryStore, *fakeClientPhotoStore, *fakeLikedLister, *fakeFiles) {
	galleries := newFakeGalleryStore()
	photos := &fakeClientPhotoStore{}
	likes := &fakeLikedLister{}
	files := &fakeFiles{}
	return NewGalleryService(galleries, photos, likes, files), galleries, photos, likes, files
}

func TestGalleryCreateGeneratesShareHash(t *testing.T) {
	svc, _, _, _, _ := newGalleryService()

	g, err := svc.Create(context.Background(), "Svatba Novákovi")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	re := regexp.MustCompile(`^[0-9a-f]{32}$`)
	if !re.MatchString(g.ShareHash) {
		t.Errorf("ключ доступа должен быть 32 hex-символа, получено %q", g.ShareHash)
	}

	g2, err := svc.Create(context.Background(), "Другая")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if g2.ShareHash == g.ShareHash {
		t.Errorf("ключи доступа не должны повторяться")
	}
}

func TestGalleryCreateEmptyName(t *testing.T) {
	svc, _, _, _, _ := newGalleryService()

	if _, err := svc.Create(context.Background(), "  "); !apperror.IsValidation(err) {
		t.Errorf("ожидалась ошибка валидации, получено: %v", err)
	}
}

func TestGalleryGetByShareHash(t *testing.T) {
	svc, _, photos, _, _ := newGalleryService()

	g, err := svc.Create(context.Background(), "Svatba")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	photos.InsertBatch(context.Background(), []models.ClientPhoto{
		{GalleryID: g.ID, ImageURL: "http://files.test/client/g/1-a.jpg"},
	})

	got, gotPhotos, err := svc.GetByShareHash(context.Background(), g.ShareHash)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.ID != g.ID || len(gotPhotos) != 1 {
		t.Errorf("галерея должна открываться по ключу с фотографиями")
	}

	if _, _, err := svc.GetByShareHash(context.Background(), "0000"); !apperror.IsNotFound(err) {
		t.Errorf("неверный ключ должен давать NOT_FOUND, получено: %v", err)
	}
}

func TestGalleryDeleteCleansFiles(t *testing.T) {
	svc, _, photos, _, files := newGalleryService()

	g, err := svc.Create(context.Background(), "Svatba")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	photos.InsertBatch(context.Background(), []models.ClientPhoto{
		{GalleryID: g.ID, ImageURL: "http://files.test/client/g/1-a.jpg"},
		{GalleryID: g.ID, ImageURL: "http://files.test/client/g/2-b.jpg"},
	})

	if err := svc.Delete(context.Background(), g.ID); err != nil {
		t.Fatalf("неожиданная ошибка удаления: %v", err)
	}
	if len(files.deleted) != 2 {
		t.Errorf("файлы галереи должны удалиться из хранилища, удалено %d", len(files.deleted))
	}
}

func TestLightroomExportNames(t *testing.T) {
	svc, _, photos, likes, _ := newGalleryService()
	galleryID := uuid.New()
	otherGallery := uuid.New()

	orig := "DSC_0042.NEF"
	batch := []models.ClientPhoto{
		// Имя из original_filename, расширение отрезается.
		{GalleryID: galleryID, ImageURL: "http://files.test/client/g/1-x.jpg", OriginalFilename: &orig},
		// Старая запись без original_filename: имя из хвоста URL загрузки.
		{GalleryID: galleryID, ImageURL: "http://files.test/client/g/1756500000000-IMG_9001.jpg"},
		// Отмеченная фотография из другой галереи не попадает в экспорт.
		{GalleryID: otherGallery, ImageURL: "http://files.test/client/o/1-y.jpg"},
	}
	if err := photos.InsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	likes.liked = []uuid.UUID{photos.photos[0].ID, photos.photos[1].ID, photos.photos[2].ID}

	names, err := svc.LightroomExport(context.Background(), galleryID, "client-1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("ожидалось 2 имени, получено %d: %v", len(names), names)
	}
	if names[0] != "DSC_0042" {
		t.Errorf("имя из original_filename без расширения, получено %q", names[0])
	}
	if names[1] != "IMG_9001" {
		t.Errorf("имя из URL без префикса загрузки и расширения, получено %q", names[1])
	}
}

func TestLightroomExportNoLikes(t *testing.T) {
	svc, _, _, _, _ := newGalleryService()

	names, err := svc.LightroomExport(context.Background(), uuid.New(), "client-1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("без отметок экспорт должен быть пустым")
	}
}
