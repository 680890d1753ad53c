package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nithub/nit-backend/config"
)

const probeTimeout = 5 * time.Second

func databaseHealthy(ctx context.Context) bool {
	if config.DB == nil {
		return false
	}
	sqlDB, err := config.DB.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// KeycloakHealth sonda o servidor de identidade.
func KeycloakHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if err := keycloak.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// KongHealth sonda a Admin API do gateway.
func KongHealth(c *gin.Context) {
	if kong == nil || !kong.Configured() {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if err := kong.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HealthCheck agrega banco, Keycloak e Kong. Qualquer dependência
// fora do ar derruba o conjunto para 503, com o detalhe por sonda.
func HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if databaseHealthy(ctx) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "unavailable"
		healthy = false
	}

	if keycloak != nil {
		if err := keycloak.Health(ctx); err != nil {
			checks["keycloak"] = "unavailable"
			healthy = false
		} else {
			checks["keycloak"] = "ok"
		}
	}

	if kong != nil && kong.Configured() {
		if err := kong.Health(ctx); err != nil {
			checks["kong"] = "unavailable"
			healthy = false
		} else {
			checks["kong"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": checks})
}
