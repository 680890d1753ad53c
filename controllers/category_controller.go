package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

var categoryFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "name", Column: "name", Kind: services.FilterString},
		{Param: "parent", Column: "parent_id", Kind: services.FilterUUID},
	},
}

type categoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// CategoryNode é um nó da árvore de categorias.
type CategoryNode struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Children    []CategoryNode `json:"children"`
}

// GetCategories lista categorias ativas.
func GetCategories(c *gin.Context) {
	query := categoryFilters.Apply(models.Active(config.DB).Model(&models.Category{}), queryParams(c))

	var total int64
	query.Count(&total)

	var categories []models.Category
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias."})
		return
	}
	listResponse(c, categories, total, page, limit, paginated)
}

// GetCategory busca uma categoria ativa.
func GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := models.Active(config.DB).First(&category, "id = ?", id).Error; err != nil {
		notFound(c, "category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategoryChildren lista as filhas diretas de uma categoria.
func GetCategoryChildren(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := models.Active(config.DB).First(&category, "id = ?", id).Error; err != nil {
		notFound(c, "category")
		return
	}

	var children []models.Category
	if err := models.Active(config.DB).Where("parent_id = ?", category.ID).Order("name ASC").Find(&children).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": children, "total": len(children)})
}

func buildCategoryTree(categories []models.Category, parentID *uuid.UUID) []CategoryNode {
	nodes := []CategoryNode{}
	for _, category := range categories {
		matches := (parentID == nil && category.ParentID == nil) ||
			(parentID != nil && category.ParentID != nil && *category.ParentID == *parentID)
		if !matches {
			continue
		}
		id := category.ID
		nodes = append(nodes, CategoryNode{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Children:    buildCategoryTree(categories, &id),
		})
	}
	return nodes
}

// GetCategoryTree devolve a hierarquia completa, com cache.
func GetCategoryTree(c *gin.Context) {
	var cached []CategoryNode
	if cache.GetJSON(c.Request.Context(), services.CacheKeyCategoryTree, &cached) {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	var categories []models.Category
	if err := models.Active(config.DB).Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias."})
		return
	}

	tree := buildCategoryTree(categories, nil)
	cache.SetJSON(c.Request.Context(), services.CacheKeyCategoryTree, tree)
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

func resolveParent(raw *string) (*uuid.UUID, string) {
	if raw == nil || *raw == "" {
		return nil, ""
	}
	parentID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, "Categoria pai inválida."
	}
	var parent models.Category
	if err := models.Active(config.DB).First(&parent, "id = ?", parentID).Error; err != nil {
		return nil, "Categoria pai não encontrada."
	}
	return &parent.ID, ""
}

// CreateCategory cria uma categoria, opcionalmente filha de outra.
func CreateCategory(c *gin.Context) {
	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"name": "O nome é obrigatório."}})
		return
	}

	parentID, parentErr := resolveParent(input.ParentID)
	if parentErr != "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"parent_id": parentErr}})
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ParentID:    parentID,
	}
	category.Stamp(actorID(c))

	if err := config.DB.Create(&category).Error; err != nil {
		saveError(c, err, "category")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyCategoryTree)
	auditor.Record(actorFrom(c), models.AuditActionCreate, "Category", category.ID, category.Name)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory atualiza nome, descrição ou pai.
func UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := models.Active(config.DB).First(&category, "id = ?", id).Error; err != nil {
		notFound(c, "category")
		return
	}

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	if input.ParentID != nil {
		parentID, parentErr := resolveParent(input.ParentID)
		if parentErr != "" {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"parent_id": parentErr}})
			return
		}
		if parentID != nil && *parentID == category.ID {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"parent_id": "Uma categoria não pode ser pai de si mesma."}})
			return
		}
		category.ParentID = parentID
	}
	if input.Name != "" {
		category.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	category.StampUpdate(actorID(c))

	if err := config.DB.Save(&category).Error; err != nil {
		saveError(c, err, "category")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyCategoryTree)
	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Category", category.ID, category.Name)
	c.JSON(http.StatusOK, category)
}

// DeleteCategory remove logicamente. Categorias com filhas ou artigos
// ativos não podem ser removidas.
func DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := models.Active(config.DB).First(&category, "id = ?", id).Error; err != nil {
		notFound(c, "category")
		return
	}

	var children int64
	models.Active(config.DB).Model(&models.Category{}).Where("parent_id = ?", category.ID).Count(&children)
	if children > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category": "A categoria possui subcategorias ativas e não pode ser removida."}})
		return
	}

	var articles int64
	models.Active(config.DB).Model(&models.Article{}).Where("category_id = ?", category.ID).Count(&articles)
	if articles > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category": "A categoria possui artigos ativos e não pode ser removida."}})
		return
	}

	if err := models.SoftDelete(config.DB, "categories", category.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover categoria."})
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyCategoryTree)
	auditor.Record(actorFrom(c), models.AuditActionDelete, "Category", category.ID, category.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Categoria removida com sucesso."})
}
