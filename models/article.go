package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArticleStatusDraft     = "DRAFT"
	ArticleStatusPublished = "PUBLISHED"
	ArticleStatusArchived  = "ARCHIVED"
)

type Article struct {
	BaseModel

	Title   string `gorm:"size:255;not null" json:"title"`
	Slug    string `gorm:"size:255;not null;index:idx_articles_active_slug,unique,where:is_active = true" json:"slug"`
	Content string `gorm:"type:text;not null" json:"content"`

	// Categoria é obrigatória; a relação com tags é many-to-many.
	CategoryID uuid.UUID `gorm:"type:uuid;not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:article_tags" json:"tags,omitempty"`

	Status      string     `gorm:"size:20;default:'DRAFT'" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

func (Article) TableName() string {
	return "articles"
}

// ValidArticleStatus informa se o valor é um status conhecido.
func ValidArticleStatus(value string) bool {
	switch value {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived:
		return true
	}
	return false
}
