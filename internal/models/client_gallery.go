package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientGallery описывает закрытую клиентскую галерею для отбора фотографий.
// ShareHash — непубличный токен, одновременно идентификатор и ключ доступа.
type ClientGallery struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ShareHash string    `db:"share_hash" json:"share_hash"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClientPhoto описывает фотографию клиентской галереи.
type ClientPhoto struct {
	ID               uuid.UUID `db:"id" json:"id"`
	GalleryID        uuid.UUID `db:"gallery_id" json:"gallery_id"`
	ImageURL         string    `db:"image_url" json:"image_url"`
	OriginalFilename *string   `db:"original_filename" json:"original_filename,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ClientSelection описывает реакцию клиента на фотографию: лайк и/или комментарий.
// Уникальность пары (client_id, photo_id) — единственная гарантия согласованности.
// Снятие лайка сохраняет строку (is_liked=false), чтобы не потерять комментарий.
type ClientSelection struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"client_id"`
	PhotoID   uuid.UUID `db:"photo_id" json:"photo_id"`
	IsLiked   bool      `db:"is_liked" json:"is_liked"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
