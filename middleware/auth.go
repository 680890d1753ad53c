package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

// Chaves gravadas no contexto da requisição.
const (
	ContextUserKey  = "user"
	ContextRolesKey = "roles"
)

// Outcome é o resultado tipado de uma estratégia de autenticação.
type Outcome int

const (
	// A estratégia não se aplica à requisição (sem token/headers).
	OutcomeNotApplicable Outcome = iota
	// A estratégia resolveu um principal.
	OutcomeResolved
	// A estratégia se aplica e rejeitou a credencial.
	OutcomeRejected
)

// Resolution carrega o resultado de uma estratégia.
type Resolution struct {
	Outcome Outcome
	User    *models.User
	Roles   []string
	Message string
}

// Strategy resolve um principal a partir da requisição.
type Strategy interface {
	Resolve(c *gin.Context) Resolution
}

// Authenticate aplica as estratégias em ordem: bearer do Keycloak
// primeiro, depois os headers confiáveis do Kong. A primeira que se
// aplicar decide; se nenhuma se aplicar, a requisição anônima segue (as
// rotas protegidas barram depois com RequireAuth).
func Authenticate(strategies ...Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, strategy := range strategies {
			res := strategy.Resolve(c)
			switch res.Outcome {
			case OutcomeNotApplicable:
				continue
			case OutcomeRejected:
				c.JSON(http.StatusUnauthorized, gin.H{"error": res.Message})
				c.Abort()
				return
			case OutcomeResolved:
				if !res.User.IsActive {
					c.JSON(http.StatusForbidden, gin.H{"error": "Usuário inativo ou removido."})
					c.Abort()
					return
				}
				c.Set(ContextUserKey, res.User)
				c.Set(ContextRolesKey, res.Roles)
				c.Next()
				return
			}
		}
		c.Next()
	}
}

// RequireAuth barra requisições sem principal resolvido.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser devolve o principal da requisição, ou nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Estratégia 1: bearer token do Keycloak

// TokenValidator é o pedaço do cliente Keycloak que a estratégia usa.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*services.KeycloakClaims, error)
}

type KeycloakBearerStrategy struct {
	Keycloak TokenValidator
	DB       *gorm.DB

	// Bypass de desenvolvimento: só honrado quando o processo NÃO
	// está em release mode E ENABLE_DEBUG_AUTH=true. Risco conhecido
	// se mal configurado em produção.
	DebugAuth bool
}

func (s *KeycloakBearerStrategy) Resolve(c *gin.Context) Resolution {
	token, res := extractBearer(c)
	if res != nil {
		return *res
	}
	if token == "" {
		return Resolution{Outcome: OutcomeNotApplicable}
	}

	if s.DebugAuth && gin.Mode() != gin.ReleaseMode && strings.HasPrefix(token, "debug-token-") {
		user, err := s.findOrCreateUser(&services.KeycloakClaims{
			Subject:  "debug-123",
			Email:    "debug@nit.local",
			Username: "debug-user",
			Roles:    []string{"api-access"},
		})
		if err != nil {
			return Resolution{Outcome: OutcomeRejected, Message: "Falha ao resolver usuário de debug."}
		}
		return Resolution{Outcome: OutcomeResolved, User: user, Roles: []string{"api-access"}}
	}

	claims, err := s.Keycloak.Validate(c.Request.Context(), token)
	if err != nil {
		return Resolution{Outcome: OutcomeRejected, Message: "Token Keycloak inválido ou expirado."}
	}

	user, err := s.findOrCreateUser(claims)
	if err != nil {
		return Resolution{Outcome: OutcomeRejected, Message: "Falha ao resolver usuário do token."}
	}

	return Resolution{Outcome: OutcomeResolved, User: user, Roles: claims.Roles}
}

// findOrCreateUser localiza o usuário local pelo subject do Keycloak;
// sem vínculo ainda, tenta pelo e-mail e vincula; por fim cria um
// registro novo. Autenticação é do Keycloak; aqui não existe senha.
func (s *KeycloakBearerStrategy) findOrCreateUser(claims *services.KeycloakClaims) (*models.User, error) {
	var user models.User

	err := s.DB.Where("keycloak_id = ?", claims.Subject).First(&user).Error
	if err == nil {
		s.syncUser(&user, claims)
		return &user, nil
	}

	if claims.Email != "" {
		err = s.DB.Where("email = ?", claims.Email).First(&user).Error
		if err == nil {
			user.KeycloakID = claims.Subject
			s.syncUser(&user, claims)
			return &user, nil
		}
	}

	username := claims.Username
	if username == "" {
		username = claims.Email
	}
	if username == "" {
		username = "user_" + claims.Subject
	}

	user = models.User{
		Email:      claims.Email,
		Username:   username,
		KeycloakID: claims.Subject,
		Status:     models.UserStatusRegisterUncompleted,
	}
	user.IsActive = true
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *KeycloakBearerStrategy) syncUser(user *models.User, claims *services.KeycloakClaims) {
	changed := false
	if claims.Username != "" && user.Username != claims.Username {
		user.Username = claims.Username
		changed = true
	}
	if user.KeycloakID != claims.Subject {
		user.KeycloakID = claims.Subject
		changed = true
	}
	if changed {
		s.DB.Model(user).Updates(map[string]any{
			"username":    user.Username,
			"keycloak_id": user.KeycloakID,
		})
	}
}

// extractBearer separa o token do header Authorization. Header
// presente mas malformado é rejeição, não ausência.
func extractBearer(c *gin.Context) (string, *Resolution) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", nil
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", &Resolution{Outcome: OutcomeRejected, Message: "Header Authorization inválido."}
	}
	return parts[1], nil
}

// ---------------------------------------------------------------------------
// Estratégia 2: headers confiáveis do gateway (Kong)

type KongConsumerStrategy struct {
	DB *gorm.DB
}

func (s *KongConsumerStrategy) Resolve(c *gin.Context) Resolution {
	consumerID := c.GetHeader("X-Consumer-ID")
	if consumerID == "" {
		return Resolution{Outcome: OutcomeNotApplicable}
	}

	consumerUsername := c.GetHeader("X-Consumer-Username")
	consumerCustomID := c.GetHeader("X-Consumer-Custom-ID")

	var user models.User

	// Quem chega pelos headers do gateway já passou pela ACL do
	// Kong; o papel "service" marca essa origem.

	// custom_id pode carregar o UUID do usuário local
	if consumerCustomID != "" {
		if err := s.DB.Where("id = ?", consumerCustomID).First(&user).Error; err == nil {
			return Resolution{Outcome: OutcomeResolved, User: &user, Roles: []string{"service"}}
		}
	}

	if consumerUsername != "" {
		err := s.DB.Where("username = ? OR email = ?", consumerUsername, consumerUsername).First(&user).Error
		if err == nil {
			return Resolution{Outcome: OutcomeResolved, User: &user, Roles: []string{"service"}}
		}
	}

	// Principal de serviço transitório, nunca persistido: só vive
	// durante esta requisição.
	username := consumerUsername
	if username == "" {
		username = "kong_consumer_" + consumerID
	}
	service := models.User{
		Email:    consumerID + "@kong.service",
		Username: username,
		Status:   models.UserStatusActive,
	}
	service.IsActive = true

	return Resolution{Outcome: OutcomeResolved, User: &service, Roles: []string{"service"}}
}
