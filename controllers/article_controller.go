package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

var articleFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "title", Column: "title", Kind: services.FilterString},
		{Param: "status", Column: "status", Kind: services.FilterString},
		{Param: "category", Column: "category_id", Kind: services.FilterUUID},
		{Param: "published_at", Column: "published_at", Kind: services.FilterDate},
	},
}

type articleInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CategoryID string   `json:"category_id"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
}

// uniqueArticleSlug gera um slug a partir do título, sufixando um
// contador enquanto houver colisão com artigos ativos.
func uniqueArticleSlug(title string, selfID uuid.UUID) string {
	base := slug.Make(title)
	candidate := base
	for i := 2; ; i++ {
		var count int64
		models.Active(config.DB).Model(&models.Article{}).
			Where("slug = ? AND id <> ?", candidate, selfID).
			Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func resolveTags(tx *gorm.DB, names []string, actor *uuid.UUID) ([]models.Tag, error) {
	tags := []models.Tag{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var tag models.Tag
		err := models.Active(tx).Where("name = ?", name).First(&tag).Error
		if err != nil {
			tag = models.Tag{Name: name}
			tag.Stamp(actor)
			if err := tx.Create(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetArticles lista artigos ativos com categoria e tags carregadas.
func GetArticles(c *gin.Context) {
	query := articleFilters.Apply(models.Active(config.DB).Model(&models.Article{}), queryParams(c))

	var total int64
	query.Count(&total)

	var articles []models.Article
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Preload("Category").Preload("Tags").Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar artigos."})
		return
	}
	listResponse(c, articles, total, page, limit, paginated)
}

// GetArticle busca um artigo ativo por UUID ou slug.
func GetArticle(c *gin.Context) {
	param := c.Param("id")
	query := models.Active(config.DB).Preload("Category").Preload("Tags")

	var article models.Article
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		err = query.First(&article, "id = ?", id).Error
	} else {
		err = query.First(&article, "slug = ?", param).Error
	}
	if err != nil {
		notFound(c, "article")
		return
	}
	c.JSON(http.StatusOK, article)
}

// CreateArticle cria um artigo em rascunho por padrão.
func CreateArticle(c *gin.Context) {
	var input articleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fieldErrors["title"] = "O título é obrigatório."
	}
	if strings.TrimSpace(input.Content) == "" {
		fieldErrors["content"] = "O conteúdo é obrigatório."
	}
	if input.Status != "" && !models.ValidArticleStatus(input.Status) {
		fieldErrors["status"] = "Status de artigo inválido."
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		fieldErrors["category_id"] = "A categoria é obrigatória."
	} else {
		var category models.Category
		if err := models.Active(config.DB).First(&category, "id = ?", categoryID).Error; err != nil {
			fieldErrors["category_id"] = "Categoria não encontrada."
		}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	status := input.Status
	if status == "" {
		status = models.ArticleStatusDraft
	}

	article := models.Article{
		Title:      strings.TrimSpace(input.Title),
		Slug:       uniqueArticleSlug(input.Title, uuid.Nil),
		Content:    input.Content,
		CategoryID: categoryID,
		Status:     status,
	}
	if status == models.ArticleStatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.Stamp(actorID(c))

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.Tags, actorID(c))
		if err != nil {
			return err
		}
		if err := tx.Create(&article).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			return tx.Model(&article).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		saveError(c, err, "article")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionCreate, "Article", article.ID, article.Title)
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle atualiza campos informados; título novo refaz o slug.
func UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := models.Active(config.DB).First(&article, "id = ?", id).Error; err != nil {
		notFound(c, "article")
		return
	}

	var input articleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	if input.Status != "" && !models.ValidArticleStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"status": "Status de artigo inválido."}})
		return
	}

	if input.CategoryID != "" {
		categoryID, err := uuid.Parse(input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category_id": "Categoria inválida."}})
			return
		}
		var category models.Category
		if err := models.Active(config.DB).First(&category, "id = ?", categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"category_id": "Categoria não encontrada."}})
			return
		}
		article.CategoryID = categoryID
	}

	if input.Title != "" && input.Title != article.Title {
		article.Title = strings.TrimSpace(input.Title)
		article.Slug = uniqueArticleSlug(article.Title, article.ID)
	}
	if input.Content != "" {
		article.Content = input.Content
	}
	if input.Status != "" && input.Status != article.Status {
		article.Status = input.Status
		if input.Status == models.ArticleStatusPublished && article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
	}
	article.StampUpdate(actorID(c))

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&article).Error; err != nil {
			return err
		}
		if input.Tags != nil {
			tags, err := resolveTags(tx, input.Tags, actorID(c))
			if err != nil {
				return err
			}
			return tx.Model(&article).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		saveError(c, err, "article")
		return
	}
	if input.Tags != nil {
		cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Article", article.ID, article.Title)
	c.JSON(http.StatusOK, article)
}

// PublishArticle muda o status para publicado e carimba a data.
func PublishArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := models.Active(config.DB).First(&article, "id = ?", id).Error; err != nil {
		notFound(c, "article")
		return
	}

	article.Status = models.ArticleStatusPublished
	if article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.StampUpdate(actorID(c))

	if err := config.DB.Save(&article).Error; err != nil {
		saveError(c, err, "article")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Article", article.ID, article.Title)
	c.JSON(http.StatusOK, article)
}

type articleTagsInput struct {
	Tags []string `json:"tags"`
}

// AddArticleTags associa tags ao artigo, criando as inexistentes.
func AddArticleTags(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := models.Active(config.DB).First(&article, "id = ?", id).Error; err != nil {
		notFound(c, "article")
		return
	}

	var input articleTagsInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"tags": "Informe ao menos uma tag."}})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, input.Tags, actorID(c))
		if err != nil {
			return err
		}
		return tx.Model(&article).Association("Tags").Append(tags)
	})
	if err != nil {
		saveError(c, err, "article")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Article", article.ID, article.Title)

	config.DB.Preload("Tags").First(&article, "id = ?", article.ID)
	c.JSON(http.StatusOK, article)
}

// RemoveArticleTags desassocia tags do artigo. Tags desconhecidas são
// ignoradas.
func RemoveArticleTags(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := models.Active(config.DB).First(&article, "id = ?", id).Error; err != nil {
		notFound(c, "article")
		return
	}

	var input articleTagsInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Tags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"tags": "Informe ao menos uma tag."}})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var tags []models.Tag
		if err := models.Active(tx).Where("name IN ?", input.Tags).Find(&tags).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			return tx.Model(&article).Association("Tags").Delete(tags)
		}
		return nil
	})
	if err != nil {
		saveError(c, err, "article")
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Article", article.ID, article.Title)

	config.DB.Preload("Tags").First(&article, "id = ?", article.ID)
	c.JSON(http.StatusOK, article)
}

// DeleteArticle remove logicamente o artigo.
func DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := models.Active(config.DB).First(&article, "id = ?", id).Error; err != nil {
		notFound(c, "article")
		return
	}

	if err := models.SoftDelete(config.DB, "articles", article.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover artigo."})
		return
	}

	cache.Invalidate(c.Request.Context(), services.CacheKeyPopularTags)
	auditor.Record(actorFrom(c), models.AuditActionDelete, "Article", article.ID, article.Title)
	c.JSON(http.StatusOK, gin.H{"message": "Artigo removido com sucesso."})
}
