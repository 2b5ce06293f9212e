package models

import (
	"time"

	"github.com/google/uuid"
)

// TitleStyle определяет стиль отображения названия проекта на публичной странице.
type TitleStyle string

const (
	TitleStyleWhiteText    TitleStyle = "white_text"
	TitleStyleWhiteOnBlack TitleStyle = "white_on_black"
	TitleStyleBlackText    TitleStyle = "black_text"
	TitleStyleBlackOnWhite TitleStyle = "black_on_white"
)

// ValidTitleStyle проверяет, что значение входит в список допустимых стилей.
func ValidTitleStyle(s string) bool {
	switch TitleStyle(s) {
	case TitleStyleWhiteText, TitleStyleWhiteOnBlack, TitleStyleBlackText, TitleStyleBlackOnWhite:
		return true
	}
	return false
}

// Project описывает проект портфолио. Проект с IsCollection=true играет роль
// папки и может содержать дочерние проекты (ровно один уровень вложенности).
type Project struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Slug          string     `db:"slug" json:"slug"`
	IsPublished   bool       `db:"is_published" json:"is_published"`
	OrderIndex    int        `db:"order_index" json:"order_index"`
	IsCollection  bool       `db:"is_collection" json:"is_collection"`
	ParentID      *uuid.UUID `db:"parent_id" json:"parent_id,omitempty"`
	DescriptionCS *string    `db:"description_cs" json:"description_cs,omitempty"`
	DescriptionEN *string    `db:"description_en" json:"description_en,omitempty"`
	MainImageURL  *string    `db:"main_image_url" json:"main_image_url,omitempty"`
	TitleStyle    TitleStyle `db:"title_style" json:"title_style"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Photo описывает фотографию галереи проекта. Принадлежит ровно одному проекту.
type Photo struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
