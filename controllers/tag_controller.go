package controllers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

var tagFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "name", Column: "name", Kind: services.FilterString},
		{Param: "color", Column: "color", Kind: services.FilterString},
	},
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type tagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PopularTag é uma tag acompanhada da contagem de artigos ativos.
type PopularTag struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Count int64     `json:"count"`
}

// GetTags lista tags ativas.
func GetTags(c *gin.Context) {
	query := tagFilters.Apply(models.Active(config.DB).Model(&models.Tag{}), queryParams(c))

	var total int64
	query.Count(&total)

	var tags []models.Tag
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar tags."})
		return
	}
	listResponse(c, tags, total, page, limit, paginated)
}

// GetTag busca uma tag ativa.
func GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tag models.Tag
	if err := models.Active(config.DB).First(&tag, "id = ?", id).Error; err != nil {
		notFound(c, "tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// GetPopularTags lista as dez tags com mais artigos ativos, com cache.
func GetPopularTags(c *gin.Context) {
	var cached []PopularTag
	if cache.GetJSON(c.Request.Context(), services.CacheKeyPopularTags, &cached) {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	var popular []PopularTag
	err := models.Active(config.DB).Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.color, count(article_tags.article_id) AS count").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.color").
		Order("count DESC, tags.name ASC").
		Limit(10).
		Scan(&popular).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar tags."})
		return
	}

	cache.SetJSON(c.Request.Context(), services.CacheKeyPopularTags, popular)
	c.JSON(http.StatusOK, gin.H{"data": popular})
}

func validateTagColor(color string) bool {
	return color == "" || hexColorPattern.MatchString(color)
}

// CreateTag cria uma tag.
func CreateTag(c *gin.Context) {
	var input tagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"name": "O nome é obrigatório."}})
		return
	}
	if !validateTagColor(input.Color) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"color": "A cor deve estar no formato #RRGGBB."}})
		return
	}

	tag := models.Tag{Name: strings.TrimSpace(input.Name), Color: input.Color}
	tag.Stamp(actorID(c))

	if err := config.DB.Create(&tag).Error; err != nil {
		saveError(c, err, "tag")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionCreate, "Tag", tag.ID, tag.Name)
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag atualiza nome ou cor.
func UpdateTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tag models.Tag
	if err := models.Active(config.DB).First(&tag, "id = ?", id).Error; err != nil {
		notFound(c, "tag")
		return
	}

	var input tagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if !validateTagColor(input.Color) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"color": "A cor deve estar no formato #RRGGBB."}})
		return
	}

	if input.Name != "" {
		tag.Name = strings.TrimSpace(input.Name)
	}
	if input.Color != "" {
		tag.Color = input.Color
	}
	tag.StampUpdate(actorID(c))

	if err := config.DB.Save(&tag).Error; err != nil {
		saveError(c, err, "tag")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Tag", tag.ID, tag.Name)
	c.JSON(http.StatusOK, tag)
}

// DeleteTag remove logicamente a tag.
func DeleteTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var tag models.Tag
	if err := models.Active(config.DB).First(&tag, "id = ?", id).Error; err != nil {
		notFound(c, "tag")
		return
	}

	if err := models.SoftDelete(config.DB, "tags", tag.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover tag."})
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionDelete, "Tag", tag.ID, tag.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Tag removida com sucesso."})
}
