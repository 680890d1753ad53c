package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStrategy struct {
	res Resolution
}

func (s stubStrategy) Resolve(*gin.Context) Resolution { return s.res }

func testContext(headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, rec
}

func TestExtractBearer(t *testing.T) {
	c, _ := testContext(nil)
	token, res := extractBearer(c)
	assert.Empty(t, token)
	assert.Nil(t, res, "sem header a estratégia não se aplica")

	c, _ = testContext(map[string]string{"Authorization": "Bearer tok-123"})
	token, res = extractBearer(c)
	assert.Equal(t, "tok-123", token)
	assert.Nil(t, res)

	c, _ = testContext(map[string]string{"Authorization": "bearer tok-123"})
	token, _ = extractBearer(c)
	assert.Equal(t, "tok-123", token)

	c, _ = testContext(map[string]string{"Authorization": "Token abc"})
	_, res = extractBearer(c)
	require.NotNil(t, res)
	assert.Equal(t, OutcomeRejected, res.Outcome)

	c, _ = testContext(map[string]string{"Authorization": "Bearer"})
	_, res = extractBearer(c)
	require.NotNil(t, res)
	assert.Equal(t, OutcomeRejected, res.Outcome)
}

func runAuthenticated(t *testing.T, strategies []Strategy, protected bool) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Use(Authenticate(strategies...))
	if protected {
		router.Use(RequireAuth())
	}
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestAuthenticateAnonymousPassesOpenRoute(t *testing.T) {
	rec := runAuthenticated(t, []Strategy{
		stubStrategy{Resolution{Outcome: OutcomeNotApplicable}},
	}, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateAnonymousBlockedOnProtectedRoute(t *testing.T) {
	rec := runAuthenticated(t, []Strategy{
		stubStrategy{Resolution{Outcome: OutcomeNotApplicable}},
	}, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectionStopsChain(t *testing.T) {
	rec := runAuthenticated(t, []Strategy{
		stubStrategy{Resolution{Outcome: OutcomeRejected, Message: "Token Keycloak inválido ou expirado."}},
		stubStrategy{Resolution{Outcome: OutcomeResolved, User: activeUser()}},
	}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token Keycloak inválido ou expirado.")
}

func TestAuthenticateFirstApplicableWins(t *testing.T) {
	rec := runAuthenticated(t, []Strategy{
		stubStrategy{Resolution{Outcome: OutcomeNotApplicable}},
		stubStrategy{Resolution{Outcome: OutcomeResolved, User: activeUser()}},
	}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateInactivePrincipal(t *testing.T) {
	user := activeUser()
	user.IsActive = false
	rec := runAuthenticated(t, []Strategy{
		stubStrategy{Resolution{Outcome: OutcomeResolved, User: user}},
	}, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func activeUser() *models.User {
	user := &models.User{
		Email:    "user@nit.local",
		Username: "user",
		Status:   models.UserStatusActive,
	}
	user.IsActive = true
	return user
}

// Só o X-Consumer-ID presente: sem custom_id e sem username a
// estratégia não consulta o banco e sintetiza um principal de serviço
// transitório.
func TestKongConsumerTransientPrincipal(t *testing.T) {
	strategy := &KongConsumerStrategy{}

	c, _ := testContext(map[string]string{"X-Consumer-ID": "svc-42"})
	res := strategy.Resolve(c)

	require.Equal(t, OutcomeResolved, res.Outcome)
	assert.Equal(t, "svc-42@kong.service", res.User.Email)
	assert.Equal(t, "kong_consumer_svc-42", res.User.Username)
	assert.True(t, res.User.IsActive)
	assert.Equal(t, []string{"service"}, res.Roles)
	assert.Zero(t, res.User.PKID, "principal transitório nunca é persistido")
}

type stubValidator struct {
	claims *services.KeycloakClaims
	err    error
}

func (s stubValidator) Validate(context.Context, string) (*services.KeycloakClaims, error) {
	return s.claims, s.err
}

// Com ENABLE_DEBUG_AUTH desligado o prefixo de debug é um token como
// outro qualquer e cai na validação normal.
func TestDebugTokenIgnoredWhenDisabled(t *testing.T) {
	strategy := &KeycloakBearerStrategy{
		Keycloak:  stubValidator{err: errors.New("token inválido")},
		DebugAuth: false,
	}

	c, _ := testContext(map[string]string{"Authorization": "Bearer debug-token-x"})
	res := strategy.Resolve(c)
	assert.Equal(t, OutcomeRejected, res.Outcome)
}

func TestKeycloakBearerNotApplicableWithoutHeader(t *testing.T) {
	strategy := &KeycloakBearerStrategy{Keycloak: stubValidator{}}

	c, _ := testContext(nil)
	res := strategy.Resolve(c)
	assert.Equal(t, OutcomeNotApplicable, res.Outcome)
}

func TestKongConsumerNotApplicableWithoutHeaders(t *testing.T) {
	strategy := &KongConsumerStrategy{}

	c, _ := testContext(nil)
	res := strategy.Resolve(c)
	assert.Equal(t, OutcomeNotApplicable, res.Outcome)
}

func TestRequireStaff(t *testing.T) {
	router := gin.New()
	staff := activeUser()
	staff.IsStaff = true

	router.GET("/admin", func(c *gin.Context) {
		c.Set(ContextUserKey, staff)
	}, RequireStaff(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/negado", func(c *gin.Context) {
		c.Set(ContextUserKey, activeUser())
	}, RequireStaff(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/anonimo", RequireStaff(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/negado", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anonimo", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		c.Set(ContextUserKey, activeUser())
		c.Set(ContextRolesKey, []string{"api-access"})
	}, RequireRoles("admin", "api-access"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/sem-papel", func(c *gin.Context) {
		c.Set(ContextUserKey, activeUser())
		c.Set(ContextRolesKey, []string{"other"})
	}, RequireRoles("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sem-papel", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Mesma cadeia aplicada às rotas privadas: autenticação seguida da
// exigência do papel api-access (ou "service", para o gateway).
func TestPrivateRouteRoleGate(t *testing.T) {
	serve := func(res Resolution) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(Authenticate(stubStrategy{res}))
		router.GET("/", RequireAuth(), RequireRoles("api-access", "service"), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	rec := serve(Resolution{Outcome: OutcomeResolved, User: activeUser(), Roles: []string{"api-access"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(Resolution{Outcome: OutcomeResolved, User: activeUser(), Roles: []string{"service"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	// autenticado mas sem nenhum dos papéis exigidos
	rec = serve(Resolution{Outcome: OutcomeResolved, User: activeUser()})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(Resolution{Outcome: OutcomeNotApplicable})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
