package models

import "github.com/google/uuid"

type Category struct {
	BaseModel

	Name        string     `gorm:"size:100;not null;index:idx_categories_active_name,unique,where:is_active = true" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	Parent      *Category  `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID;references:ID" json:"children,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
