package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

var documentFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "title", Column: "title", Kind: services.FilterString},
		{Param: "category", Column: "category", Kind: services.FilterString},
		{Param: "is_published", Column: "is_published", Kind: services.FilterBool},
		{Param: "created_at", Column: "created_at", Kind: services.FilterDate},
	},
}

type documentInput struct {
	Title       string `form:"title" json:"title"`
	Content     string `form:"content" json:"content"`
	Category    string `form:"category" json:"category"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// GetDocuments lista documentos ativos, mais recentes primeiro.
func GetDocuments(c *gin.Context) {
	query := documentFilters.Apply(models.Active(config.DB).Model(&models.Document{}), queryParams(c))

	var total int64
	query.Count(&total)

	var documents []models.Document
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar documentos."})
		return
	}
	listResponse(c, documents, total, page, limit, paginated)
}

// GetDocument busca um documento ativo pelo UUID externo.
func GetDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := models.Active(config.DB).First(&document, "id = ?", id).Error; err != nil {
		notFound(c, "document")
		return
	}
	c.JSON(http.StatusOK, document)
}

// GetPublishedDocuments lista apenas documentos publicados.
func GetPublishedDocuments(c *gin.Context) {
	query := models.Active(config.DB).Model(&models.Document{}).Where("is_published = ?", true)

	var total int64
	query.Count(&total)

	var documents []models.Document
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar documentos."})
		return
	}
	listResponse(c, documents, total, page, limit, paginated)
}

func validateDocumentInput(input documentInput, hasFile bool) map[string]string {
	fieldErrors := map[string]string{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		fieldErrors["title"] = "O título é obrigatório."
	} else if utf8.RuneCountInString(title) < 3 {
		fieldErrors["title"] = "O título deve ter pelo menos 3 caracteres."
	}
	if input.Category != "" && !models.ValidDocumentCategory(input.Category) {
		fieldErrors["category"] = "Categoria de documento inválida."
	}
	if strings.TrimSpace(input.Content) == "" && !hasFile {
		fieldErrors["content"] = "Informe o conteúdo ou envie um arquivo."
		fieldErrors["file"] = "Informe o conteúdo ou envie um arquivo."
	}
	return fieldErrors
}

// saveDocumentFile grava o anexo no storage e devolve o caminho
// persistível e o caminho do objeto, para remoção caso a escrita no
// banco falhe depois.
func saveDocumentFile(c *gin.Context) (string, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectPath := services.DocumentObjectPath(filepath.Base(fileHeader.Filename))
	stored, err := storage.Save(objectPath, data, contentType)
	if err != nil {
		return "", "", err
	}
	return stored, objectPath, nil
}

// CreateDocument cria um documento. Aceita JSON ou multipart com
// arquivo anexo; conteúdo ou arquivo, ao menos um dos dois.
func CreateDocument(c *gin.Context) {
	var input documentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	_, fileErr := c.FormFile("file")
	hasFile := fileErr == nil

	if fieldErrors := validateDocumentInput(input, hasFile); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	filePath, objectPath, err := saveDocumentFile(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar o arquivo."})
		return
	}

	category := input.Category
	if category == "" {
		category = models.DocumentCategoryOther
	}

	document := models.Document{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		FilePath: filePath,
		Category: category,
	}
	if input.IsPublished != nil {
		document.IsPublished = *input.IsPublished
	}
	document.Stamp(actorID(c))

	if err := config.DB.Create(&document).Error; err != nil {
		// não deixa o objeto órfão no storage
		if objectPath != "" {
			storage.Delete(objectPath)
		}
		saveError(c, err, "document")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionCreate, "Document", document.ID, document.Title)
	c.JSON(http.StatusCreated, document)
}

// UpdateDocument atualiza campos informados. PUT e PATCH tratam o
// corpo da mesma forma: campo ausente não é tocado.
func UpdateDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := models.Active(config.DB).First(&document, "id = ?", id).Error; err != nil {
		notFound(c, "document")
		return
	}

	var input documentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	if input.Category != "" && !models.ValidDocumentCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category": "Categoria de documento inválida."}})
		return
	}
	if input.Title != "" && utf8.RuneCountInString(strings.TrimSpace(input.Title)) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"title": "O título deve ter pelo menos 3 caracteres."}})
		return
	}

	filePath, objectPath, err := saveDocumentFile(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar o arquivo."})
		return
	}
	if filePath != "" {
		document.FilePath = filePath
	}

	if input.Title != "" {
		document.Title = strings.TrimSpace(input.Title)
	}
	if input.Content != "" {
		document.Content = input.Content
	}
	if input.Category != "" {
		document.Category = input.Category
	}
	if input.IsPublished != nil {
		document.IsPublished = *input.IsPublished
	}
	document.StampUpdate(actorID(c))

	if err := config.DB.Save(&document).Error; err != nil {
		if objectPath != "" {
			storage.Delete(objectPath)
		}
		saveError(c, err, "document")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Document", document.ID, document.Title)
	c.JSON(http.StatusOK, document)
}

// PublishDocument marca o documento como publicado.
func PublishDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := models.Active(config.DB).First(&document, "id = ?", id).Error; err != nil {
		notFound(c, "document")
		return
	}

	document.IsPublished = true
	document.StampUpdate(actorID(c))
	if err := config.DB.Save(&document).Error; err != nil {
		saveError(c, err, "document")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Document", document.ID, document.Title)
	c.JSON(http.StatusOK, document)
}

// DeleteDocument faz a remoção lógica.
func DeleteDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := models.Active(config.DB).First(&document, "id = ?", id).Error; err != nil {
		notFound(c, "document")
		return
	}

	if err := models.SoftDelete(config.DB, "documents", document.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover documento."})
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionDelete, "Document", document.ID, document.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Documento removido com sucesso."})
}

// HardDeleteDocument remove a linha de verdade. Rota restrita a staff.
func HardDeleteDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var document models.Document
	if err := config.DB.First(&document, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "document")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar documento."})
		return
	}

	if err := models.HardDelete(config.DB, &models.Document{}, document.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao excluir documento."})
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionDelete, "Document", document.ID, document.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Documento excluído definitivamente."})
}
