package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/dto"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/validation"
)

// GalleryHandler обслуживает клиентские галереи: административное
// управление и публичный доступ по ключу.
type GalleryHandler struct {
	galleries *service.GalleryService
	uploads   *service.UploadService
}

// NewGalleryHandler создаёт новый хэндлер.
func NewGalleryHandler(galleries *service.GalleryService, uploads *service.UploadService) *GalleryHandler {
	return &GalleryHandler{galleries: galleries, uploads: uploads}
}

// Create обрабатывает POST /api/admin/galleries.
func (h *GalleryHandler) Create(c *gin.Context) {
	var req dto.CreateGalleryRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "имя галереи обязательно")
		return
	}
	if err := validation.ValidateGalleryName(req.Name); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gallery, err := h.galleries.Create(c.Request.Context(), req.Name)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gallery)
}

// List обрабатывает GET /api/admin/galleries.
func (h *GalleryHandler) List(c *gin.Context) {
	galleries, err := h.galleries.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"galleries": galleries})
}

// GetByID обрабатывает GET /api/admin/galleries/:id.
func (h *GalleryHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gallery, photos, err := h.galleries.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GalleryPageResponse{Gallery: gallery, Photos: photos})
}

// Delete обрабатывает DELETE /api/admin/galleries/:id.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.galleries.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetByShareHash обрабатывает GET /api/galleries/:hash — публичный вход
// клиента по ссылке из письма.
func (h *GalleryHandler) GetByShareHash(c *gin.Context) {
	hash := c.Param("hash")
	if err := validation.ValidateShareHash(hash); err != nil {
		// Формат ключа не раскрываем: кривой ключ равен несуществующему.
		c.JSON(http.StatusNotFound, gin.H{"error": "галерея не найдена"})
		return
	}

	gallery, photos, err := h.galleries.GetByShareHash(c.Request.Context(), hash)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GalleryPageResponse{Gallery: gallery, Photos: photos})
}

// CommitPhotos обрабатывает POST /api/admin/galleries/:id/photos.
func (h *GalleryHandler) CommitPhotos(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.CommitClientPhotosRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "список файлов обязателен")
		return
	}

	files := make([]service.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, service.UploadedFile{
			OriginalFilename: f.OriginalFilename,
			PublicURL:        f.PublicURL,
		})
	}
	if err := h.uploads.CommitClientPhotos(c.Request.Context(), id, files); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Selections обрабатывает GET /api/admin/galleries/:id/selections:
// срез реакций всех клиентов галереи.
func (h *GalleryHandler) Selections(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	selections, err := h.galleries.SelectionsOverview(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SelectionSeedResponse{Selections: selections})
}

// DeletePhoto обрабатывает DELETE /api/admin/galleries/photos.
func (h *GalleryHandler) DeletePhoto(c *gin.Context) {
	var req dto.DeletePhotoRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "адрес фотографии обязателен")
		return
	}

	if err := h.galleries.DeletePhoto(c.Request.Context(), req.ImageURL); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LightroomExport обрабатывает GET /api/admin/galleries/:id/export.
// Отдаёт текстовый файл с именами отмеченных фотографий, по одному на
// строку, для вставки в поиск Lightroom.
func (h *GalleryHandler) LightroomExport(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	clientID := c.Query("client_id")
	if err := validation.ValidateClientID(clientID); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	names, err := h.galleries.LightroomExport(c.Request.Context(), id, clientID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="vyber-fotografii.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.Join(names, "\n")))
}
