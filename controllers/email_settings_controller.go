package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/models"
)

type emailSettingsInput struct {
	NotificationSubject  string `json:"notification_subject"`
	NotificationTemplate string `json:"notification_template"`
}

// GetEmailSettings devolve a configuração ativa de e-mail.
func GetEmailSettings(c *gin.Context) {
	var settings models.EmailSettings
	if err := models.Active(config.DB).First(&settings).Error; err != nil {
		notFound(c, "email_settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// CreateEmailSettings cria a configuração de e-mail. Só pode existir
// uma ativa; a checagem prévia é cortesia, quem garante é o índice
// parcial do banco.
func CreateEmailSettings(c *gin.Context) {
	var input emailSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	var existing int64
	models.Active(config.DB).Model(&models.EmailSettings{}).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": gin.H{"email_settings": "Já existe uma configuração de e-mail ativa."},
		})
		return
	}

	settings := models.EmailSettings{
		Singleton:            true,
		NotificationSubject:  input.NotificationSubject,
		NotificationTemplate: input.NotificationTemplate,
	}
	settings.Stamp(actorID(c))

	if err := config.DB.Create(&settings).Error; err != nil {
		saveError(c, err, "email_settings")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionCreate, "EmailSettings", settings.ID, settings.NotificationSubject)
	c.JSON(http.StatusCreated, settings)
}

// UpdateEmailSettings atualiza a configuração ativa.
func UpdateEmailSettings(c *gin.Context) {
	var settings models.EmailSettings
	if err := models.Active(config.DB).First(&settings).Error; err != nil {
		notFound(c, "email_settings")
		return
	}

	var input emailSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	if input.NotificationSubject != "" {
		settings.NotificationSubject = input.NotificationSubject
	}
	if input.NotificationTemplate != "" {
		settings.NotificationTemplate = input.NotificationTemplate
	}
	settings.StampUpdate(actorID(c))

	if err := config.DB.Save(&settings).Error; err != nil {
		saveError(c, err, "email_settings")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "EmailSettings", settings.ID, settings.NotificationSubject)
	c.JSON(http.StatusOK, settings)
}

// DeleteEmailSettings desativa a configuração, liberando o índice
// parcial para uma nova.
func DeleteEmailSettings(c *gin.Context) {
	var settings models.EmailSettings
	if err := models.Active(config.DB).First(&settings).Error; err != nil {
		notFound(c, "email_settings")
		return
	}

	if err := models.SoftDelete(config.DB, "email_settings", settings.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover configuração."})
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionDelete, "EmailSettings", settings.ID, settings.NotificationSubject)
	c.JSON(http.StatusOK, gin.H{"message": "Configuração removida com sucesso."})
}
