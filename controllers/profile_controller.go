package controllers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/middleware"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
	"github.com/nithub/nit-backend/utils"
)

type profileInput struct {
	Name      string     `form:"name" json:"name"`
	Phone     string     `form:"phone" json:"phone"`
	Cellphone string     `form:"cellphone" json:"cellphone"`
	Born      *time.Time `form:"born" time_format:"2006-01-02" json:"born"`
}

// GetMyProfile devolve o perfil do usuário autenticado.
func GetMyProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
		return
	}

	var profile models.Profile
	if err := models.Active(config.DB).Preload("Address").First(&profile, "user_id = ?", user.ID).Error; err != nil {
		notFound(c, "profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// saveAvatar grava o avatar no storage e devolve a URL persistível e
// o caminho do objeto, para remoção caso a escrita no banco falhe.
func saveAvatar(c *gin.Context, profile *models.Profile) (string, string, error) {
	fileHeader, err := c.FormFile("avatar")
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
	objectPath := services.AvatarObjectPath(profile.ID.String(), fileHeader.Filename)
	stored, err := storage.Save(objectPath, data, contentType)
	if err != nil {
		return "", "", err
	}
	return stored, objectPath, nil
}

// UpdateMyProfile atualiza o perfil do usuário autenticado. Aceita
// multipart com avatar anexo.
func UpdateMyProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
		return
	}

	var profile models.Profile
	if err := models.Active(config.DB).First(&profile, "user_id = ?", user.ID).Error; err != nil {
		notFound(c, "profile")
		return
	}

	var input profileInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	fieldErrors := map[string]string{}
	if input.Phone != "" {
		phone, err := utils.NormalizePhone(input.Phone)
		if err != nil {
			fieldErrors["phone"] = err.Error()
		} else {
			input.Phone = phone
		}
	}
	if input.Cellphone != "" {
		cellphone, err := utils.NormalizeCellphone(input.Cellphone)
		if err != nil {
			fieldErrors["cellphone"] = err.Error()
		} else {
			input.Cellphone = cellphone
		}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	avatarURL, objectPath, err := saveAvatar(c, &profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar o avatar."})
		return
	}
	if avatarURL != "" {
		profile.Avatar = avatarURL
	}

	if input.Name != "" {
		profile.Name = strings.TrimSpace(input.Name)
	}
	if input.Phone != "" {
		profile.Phone = input.Phone
	}
	if input.Cellphone != "" {
		profile.Cellphone = input.Cellphone
	}
	if input.Born != nil {
		profile.Born = input.Born
	}
	profile.StampUpdate(actorID(c))

	if err := config.DB.Save(&profile).Error; err != nil {
		// não deixa o avatar órfão no storage
		if objectPath != "" {
			storage.Delete(objectPath)
		}
		saveError(c, err, "profile")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Profile", profile.ID, profile.Name)
	c.JSON(http.StatusOK, profile)
}
