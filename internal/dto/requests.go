package dto

import "github.com/google/uuid"

// LoginRequest — форма входа администратора.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateProjectRequest — создание проекта или коллекции.
type CreateProjectRequest struct {
	Name         string     `json:"name" binding:"required"`
	IsCollection bool       `json:"is_collection"`
	ParentID     *uuid.UUID `json:"parent_id"`
}

// RenameProjectRequest — переименование проекта.
type RenameProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// ReorderRequest — новый порядок одной группы соседей.
type ReorderRequest struct {
	ParentID   *uuid.UUID  `json:"parent_id"`
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}

// MoveProjectRequest — перенос проекта в коллекцию или на корневой уровень.
type MoveProjectRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// TitleStyleRequest — смена стиля заголовка обложки.
type TitleStyleRequest struct {
	TitleStyle string `json:"title_style" binding:"required"`
}

// DescriptionsRequest — двуязычные описания проекта.
type DescriptionsRequest struct {
	DescriptionCS string `json:"description_cs"`
	DescriptionEN string `json:"description_en"`
}

// MainImageRequest — назначение обложки проекта.
type MainImageRequest struct {
	ImageURL string `json:"image_url"`
}

// DeletePhotoRequest — удаление фотографии по публичному URL.
type DeletePhotoRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// CreateGalleryRequest — создание клиентской галереи.
type CreateGalleryRequest struct {
	Name string `json:"name" binding:"required"`
}

// SignUploadsRequest — запрос подписанных адресов для прямой загрузки.
type SignUploadsRequest struct {
	Scope     string    `json:"scope" binding:"required"`
	OwnerID   uuid.UUID `json:"owner_id" binding:"required"`
	Filenames []string  `json:"filenames" binding:"required"`
}

// CommitProjectPhotosRequest — фиксация загруженных фотографий проекта.
type CommitProjectPhotosRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// UploadedFileRef — одна загруженная фотография при фиксации.
type UploadedFileRef struct {
	OriginalFilename string `json:"original_filename"`
	PublicURL        string `json:"public_url" binding:"required"`
}

// CommitClientPhotosRequest — фиксация загруженных фотографий галереи.
type CommitClientPhotosRequest struct {
	Files []UploadedFileRef `json:"files" binding:"required"`
}

// ToggleLikeRequest — переключение отметки клиента.
type ToggleLikeRequest struct {
	ClientID string    `json:"client_id" binding:"required"`
	PhotoID  uuid.UUID `json:"photo_id" binding:"required"`
}

// CommentRequest — комментарий клиента к фотографии.
type CommentRequest struct {
	ClientID string    `json:"client_id" binding:"required"`
	PhotoID  uuid.UUID `json:"photo_id" binding:"required"`
	Comment  string    `json:"comment"`
}
