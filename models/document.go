package models

const (
	DocumentCategoryPolicy    = "POLICY"
	DocumentCategoryProcedure = "PROCEDURE"
	DocumentCategoryManual    = "MANUAL"
	DocumentCategoryOther     = "OTHER"
)

// DocumentCategories são as categorias aceitas no campo category.
var DocumentCategories = []string{
	DocumentCategoryPolicy,
	DocumentCategoryProcedure,
	DocumentCategoryManual,
	DocumentCategoryOther,
}

type Document struct {
	BaseModel

	// Título único entre documentos ativos; o índice parcial é a
	// autoridade, a checagem no handler é só cortesia.
	Title       string `gorm:"size:255;not null;index:idx_documents_active_title,unique,where:is_active = true" json:"title"`
	Content     string `gorm:"type:text" json:"content"`
	FilePath    string `gorm:"type:text" json:"file_path"`
	Category    string `gorm:"size:50;default:'OTHER'" json:"category"`
	IsPublished bool   `gorm:"default:false" json:"is_published"`
}

func (Document) TableName() string {
	return "documents"
}

// ValidDocumentCategory informa se o valor é uma categoria conhecida.
func ValidDocumentCategory(value string) bool {
	for _, c := range DocumentCategories {
		if c == value {
			return true
		}
	}
	return false
}
