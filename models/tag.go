package models

type Tag struct {
	BaseModel

	Name  string `gorm:"size:50;not null;index:idx_tags_active_name,unique,where:is_active = true" json:"name"`
	Color string `gorm:"size:7;default:'#007bff'" json:"color"`

	Articles []Article `gorm:"many2many:article_tags" json:"articles,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}
