package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/middleware"
	"github.com/nithub/nit-backend/services"
)

// Dependências compartilhadas dos handlers, injetadas uma vez na
// subida do processo.
var (
	auditor  *services.Auditor
	cache    *services.Cache
	storage  services.Storage
	keycloak *services.KeycloakClient
	kong     *services.KongClient
	logger   zerolog.Logger
)

// Setup injeta as dependências dos controllers.
func Setup(a *services.Auditor, c *services.Cache, s services.Storage, kc *services.KeycloakClient, kg *services.KongClient, log zerolog.Logger) {
	auditor = a
	cache = c
	storage = s
	keycloak = kc
	kong = kg
	logger = log
}

// actorFrom monta o ator de auditoria a partir do principal da
// requisição. Sem principal, o ator fica vazio (campos nulos).
func actorFrom(c *gin.Context) services.Actor {
	user := middleware.CurrentUser(c)
	if user == nil {
		return services.Actor{}
	}
	id := user.ID
	return services.Actor{ID: &id, Email: user.Email}
}

// actorID devolve o UUID do principal, ou nil.
func actorID(c *gin.Context) *uuid.UUID {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

// queryParams achata a query string no primeiro valor de cada chave.
func queryParams(c *gin.Context) map[string]string {
	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// paginate aplica a paginação quando `page` veio na query string;
// sem `page` a listagem volta completa, como nas consultas internas.
func paginate(c *gin.Context, query *gorm.DB) (*gorm.DB, int, int, bool) {
	if _, ok := c.GetQuery("page"); !ok {
		return query, 0, 0, false
	}

	page := 1
	limit := 10
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	return query.Offset((page - 1) * limit).Limit(limit), page, limit, true
}

// listResponse monta o envelope de listagem.
func listResponse(c *gin.Context, data any, total int64, page, limit int, paginated bool) {
	if !paginated {
		c.JSON(http.StatusOK, gin.H{"data": data, "total": total})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       data,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

// isUniqueViolation detecta violação de unicidade do PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// saveError traduz o erro de escrita: conflito de unicidade vira 400
// com mensagem amigável, o resto vira 500. O detalhe original sempre
// vai para o log do servidor, nunca para o cliente.
func saveError(c *gin.Context, err error, resource string) {
	logger.Error().Err(err).Str("resource", resource).Msg("falha de escrita")

	if isUniqueViolation(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []string{
				"Parece que há um conflito entre os dados que você está tentando salvar" +
					" e os seus dados atuais. Revise suas entradas e tente novamente.",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor."})
}

// parseID valida o parâmetro de rota :id como UUID.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro não encontrado."})
		return uuid.Nil, false
	}
	return id, true
}

// notFound responde 404 com a chave do recurso.
func notFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, gin.H{
		"status_code": http.StatusNotFound,
		"errors":      gin.H{resource: "Não encontrado."},
	})
}
