package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/storage"
)

type stubGalleryStore struct {
	gallery *models.ClientGallery
}

func (s *stubGalleryStore) Create(context.Context, *models.ClientGallery) error { return nil }
func (s *stubGalleryStore) GetByID(context.Context, uuid.UUID) (*models.ClientGallery, error) {
	return s.gallery, nil
}
func (s *stubGalleryStore) GetByShareHash(context.Context, string) (*models.ClientGallery, error) {
	return s.gallery, nil
}
func (s *stubGalleryStore) List(context.Context) ([]models.ClientGallery, error) { return nil, nil }
func (s *stubGalleryStore) Delete(context.Context, uuid.UUID) error { return nil }

type stubClientPhotoStore struct {
	photos []models.ClientPhoto
}

func (s *stubClientPhotoStore) InsertBatch(context.Context, []models.ClientPhoto) error { return nil }
func (s *stubClientPhotoStore) ListByGallery(context.Context, uuid.UUID) ([]models.ClientPhoto, error) {
	return s.photos, nil
}
func (s *stubClientPhotoStore) ListByIDs(context.Context, []uuid.UUID) ([]models.ClientPhoto, error) {
	return s.photos, nil
}
func (s *stubClientPhotoStore) DeleteByImageURL(context.Context, string) error { return nil }

type stubSelectionReader struct {
	liked []uuid.UUID
}

func (s *stubSelectionReader) ListLikedPhotoIDs(context.Context, string) ([]uuid.UUID, error) {
	return s.liked, nil
}
func (s *stubSelectionReader) ListByGallery(context.Context, uuid.UUID) ([]models.ClientSelection, error) {
	return nil, nil
}

type stubStorage struct{}

func (stubStorage) PresignUpload(context.Context, string, string) (storage.UploadTarget, error) {
	return storage.UploadTarget{}, nil
}
func (stubStorage) Delete(context.Context, string) error { return nil }
func (stubStorage) PublicURL(key string) string { return "http://files.test/" + key }
func (stubStorage) KeyFromPublicURL(string) (string, bool) { return "", false }

func TestGalleryHandler_LightroomExport_PlainText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	galleryID := uuid.New()
	name1 := "IMG_0001.jpg"
	photos := []models.ClientPhoto{
		{ID: uuid.New(), GalleryID: galleryID, ImageURL: "http://files.test/galleries/a.jpg", OriginalFilename: &name1},
		{ID: uuid.New(), GalleryID: galleryID, ImageURL: "http://files.test/galleries/1700000000000-IMG_0002.jpg"},
	}
	galleries := service.NewGalleryService(
		&stubGalleryStore{gallery: &models.ClientGallery{ID: galleryID}},
		&stubClientPhotoStore{photos: photos},
		&stubSelectionReader{liked: []uuid.UUID{photos[0].ID, photos[1].ID}},
		stubStorage{},
	)
	handler := NewGalleryHandler(galleries, nil)

	r := gin.New()
	r.GET("/galleries/:id/export", handler.LightroomExport)

	req, _ := http.NewRequest("GET", "/galleries/"+galleryID.String()+"/export?client_id=klient-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "IMG_0001\nIMG_0002", w.Body.String())
}
