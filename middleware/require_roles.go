package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireStaff barra quem não for colaborador (is_staff). Usado nas
// operações administrativas, como o hard delete.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
			c.Abort()
			return
		}
		if !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Você não tem permissão para acessar este recurso."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles exige que o principal carregue ao menos um dos papéis
// do realm informados.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
			c.Abort()
			return
		}

		roles, _ := c.Get(ContextRolesKey)
		current, _ := roles.([]string)

		for _, want := range allowed {
			for _, have := range current {
				if want == have {
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Você não tem permissão para acessar este recurso."})
		c.Abort()
	}
}
