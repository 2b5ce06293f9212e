package dto

import (
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

// LoginResponse — результат входа администратора.
type LoginResponse struct {
	OK bool `json:"ok"`
}

// SessionResponse — состояние сессии текущего запроса.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// TreeResponse — дерево портфолио.
type TreeResponse struct {
	Tree []service.TreeNode `json:"tree"`
}

// ProjectPageResponse — проект с фотографиями для публичной страницы.
type ProjectPageResponse struct {
	Project *models.Project `json:"project"`
	Photos  []models.Photo  `json:"photos"`
}

// GalleryPageResponse — клиентская галерея с фотографиями.
type GalleryPageResponse struct {
	Gallery *models.ClientGallery `json:"gallery"`
	Photos  []models.ClientPhoto  `json:"photos"`
}

// SelectionSeedResponse — сохранённый выбор клиента при открытии галереи.
type SelectionSeedResponse struct {
	Selections []models.ClientSelection `json:"selections"`
}

// ToggleLikeResponse — новое значение отметки после переключения.
type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

// UploadBatchResponse — результат пакетной загрузки.
type UploadBatchResponse struct {
	Uploaded []service.UploadedFile `json:"uploaded"`
	Failed   string                 `json:"failed,omitempty"`
}
