package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ahavlova/portfolio-backend/internal/dto"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/storage"
	"github.com/ahavlova/portfolio-backend/internal/validation"
)

// MediaHandler обслуживает конвейер загрузки: подписанные адреса, пакетную
// загрузку через сервер и фиксацию записей. При локальном хранилище он же
// принимает прямые PUT и раздаёт файлы.
type MediaHandler struct {
	uploads *service.UploadService
	// local заполняется только при STORAGE_BACKEND=local.
	local *storage.LocalStorage
}

// NewMediaHandler создаёт новый хэндлер. local может быть nil (S3).
func NewMediaHandler(uploads *service.UploadService, local *storage.LocalStorage) *MediaHandler {
	return &MediaHandler{uploads: uploads, local: local}
}

// SignUploads обрабатывает POST /api/admin/media/upload-urls: выдаёт
// подписанные адреса для прямой загрузки из браузера.
func (h *MediaHandler) SignUploads(c *gin.Context) {
	var req dto.SignUploadsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "область, владелец и список файлов обязательны")
		return
	}
	if err := validation.ValidateFilenames(req.Filenames); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	targets, err := h.uploads.SignUploads(c.Request.Context(), req.Scope, req.OwnerID, req.Filenames)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

// UploadBatch обрабатывает POST /api/admin/media/upload: пакетная загрузка
// через сервер со сжатием. Частичный отказ возвращает 207 со списком
// упавших файлов и уже загруженными соседями.
func (h *MediaHandler) UploadBatch(c *gin.Context) {
	scope := c.PostForm("scope")
	owner, err := uuid.Parse(c.PostForm("owner_id"))
	if err != nil {
		common.RespondBadRequest(c, "owner_id должен быть корректным UUID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondBadRequest(c, "ожидалась multipart-форма с файлами")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		common.RespondBadRequest(c, "список файлов пуст")
		return
	}
	if len(files) > validation.MaxBatchSize {
		common.RespondBadRequest(c, "слишком много файлов за один раз")
		return
	}

	items := make([]service.UploadItem, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			common.RespondBadRequest(c, "не удалось прочитать файл "+fh.Filename)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			common.RespondBadRequest(c, "не удалось прочитать файл "+fh.Filename)
			return
		}
		items = append(items, service.UploadItem{Filename: fh.Filename, Data: data})
	}

	uploaded, err := h.uploads.UploadBatch(c.Request.Context(), scope, owner, items, nil)
	if err != nil {
		c.JSON(http.StatusMultiStatus, dto.UploadBatchResponse{Uploaded: uploaded, Failed: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UploadBatchResponse{Uploaded: uploaded})
}

// CommitProjectPhotos обрабатывает POST /api/admin/projects/:id/photos.
func (h *MediaHandler) CommitProjectPhotos(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.CommitProjectPhotosRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "список адресов обязателен")
		return
	}

	if err := h.uploads.CommitProjectPhotos(c.Request.Context(), id, req.URLs); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DirectPut обрабатывает PUT /media/upload при локальном хранилище.
// Запрос авторизуется подписью из подписанного адреса, тип файла
// проверяется по магическим байтам.
func (h *MediaHandler) DirectPut(c *gin.Context) {
	if h.local == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "прямые загрузки доступны только при локальном хранилище"})
		return
	}

	key := c.Query("key")
	if err := h.local.VerifyUpload(key, c.Query("exp"), c.Query("sig")); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "подпись загрузки недействительна"})
		return
	}

	// Заглядываем в начало тела, чтобы убедиться, что это изображение.
	head := make([]byte, 262)
	n, err := io.ReadFull(c.Request.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		common.RespondBadRequest(c, "не удалось прочитать тело запроса")
		return
	}
	head = head[:n]
	if !filetype.IsImage(head) {
		common.RespondBadRequest(c, "разрешены только изображения")
		return
	}

	body := io.MultiReader(bytes.NewReader(head), c.Request.Body)
	if err := h.local.Save(key, body); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "файл превышает допустимый размер"})
			return
		}
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ServeFile обрабатывает GET /media/*filepath при локальном хранилище.
func (h *MediaHandler) ServeFile(c *gin.Context) {
	if h.local == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "файлы раздаёт внешнее хранилище"})
		return
	}

	key := c.Param("filepath")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	f, err := h.local.Open(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "файл не найден"})
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "файл не найден"})
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(c.Writer, c.Request, key, fi.ModTime(), f)
}
