package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/middleware"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
	"github.com/nithub/nit-backend/utils"
)

var userFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "email", Column: "email", Kind: services.FilterString},
		{Param: "username", Column: "username", Kind: services.FilterString},
		{Param: "status", Column: "status", Kind: services.FilterString},
		{Param: "is_staff", Column: "is_staff", Kind: services.FilterBool},
		{Param: "date_joined", Column: "date_joined", Kind: services.FilterDate},
	},
}

type onboardingInput struct {
	Name          string       `json:"name"`
	CPFCNPJ       string       `json:"cpf_cnpj"`
	RG            string       `json:"rg"`
	Phone         string       `json:"phone"`
	Cellphone     string       `json:"cellphone"`
	Born          *time.Time   `json:"born"`
	Terms         bool         `json:"terms"`
	ReceiveEmails bool         `json:"receive_emails"`
	OtherEmails   string       `json:"other_emails"`
	Address       addressInput `json:"address"`
}

type userUpdateInput struct {
	Username      string `json:"username"`
	RG            string `json:"rg"`
	ReceiveEmails *bool  `json:"receive_emails"`
	OtherEmails   string `json:"other_emails"`
	Status        string `json:"status"`
	IsStaff       *bool  `json:"is_staff"`
}

// GetUsers lista usuários ativos. Rota restrita a staff.
func GetUsers(c *gin.Context) {
	query := userFilters.Apply(models.Active(config.DB).Model(&models.User{}), queryParams(c))

	var total int64
	query.Count(&total)

	var users []models.User
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar usuários."})
		return
	}
	listResponse(c, users, total, page, limit, paginated)
}

// GetUser busca um usuário ativo.
func GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var user models.User
	if err := models.Active(config.DB).Preload("Clients").First(&user, "id = ?", id).Error; err != nil {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetMe devolve o usuário autenticado com perfil e endereço.
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
		return
	}

	var profile models.Profile
	err := models.Active(config.DB).Preload("Address").First(&profile, "user_id = ?", user.ID).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": user, "profile": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

func validateOnboarding(input *onboardingInput) map[string]string {
	fieldErrors := map[string]string{}

	if strings.TrimSpace(input.Name) == "" {
		fieldErrors["name"] = "O nome é obrigatório."
	}
	if !input.Terms {
		fieldErrors["terms"] = "É necessário aceitar os termos de uso."
	}

	cleaned, err := utils.ValidateCPFCNPJ(input.CPFCNPJ)
	if err != nil {
		fieldErrors["cpf_cnpj"] = err.Error()
	} else {
		input.CPFCNPJ = cleaned
	}

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
	if rg, err := utils.NormalizeRG(input.RG); err != nil {
		fieldErrors["rg"] = err.Error()
	} else {
		input.RG = rg
	}

	for field, message := range input.Address.normalize() {
		fieldErrors["address."+field] = message
	}
	return fieldErrors
}

// CompleteOnboarding conclui o primeiro acesso: valida documentos,
// cria perfil e endereço numa transação e ativa o usuário.
func CompleteOnboarding(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
		return
	}
	if user.FirstLoginAccomplished {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"user": "O primeiro acesso já foi concluído."}})
		return
	}

	var input onboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if fieldErrors := validateOnboarding(&input); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	actor := actorID(c)
	var profile models.Profile

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		address := models.Address{
			Street:     input.Address.Street,
			District:   input.Address.District,
			Number:     input.Address.Number,
			Complement: input.Address.Complement,
			City:       input.Address.City,
			State:      input.Address.State,
			Country:    input.Address.Country,
			CEP:        input.Address.CEP,
		}
		address.Stamp(actor)
		if err := tx.Create(&address).Error; err != nil {
			return err
		}

		profile = models.Profile{
			UserID:    user.ID,
			Name:      strings.TrimSpace(input.Name),
			Phone:     input.Phone,
			Cellphone: input.Cellphone,
			Born:      input.Born,
			AddressID: &address.ID,
		}
		profile.Stamp(actor)
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"cpf_cnpj":                 input.CPFCNPJ,
			"rg":                       input.RG,
			"terms":                    input.Terms,
			"receive_emails":           input.ReceiveEmails,
			"other_emails":             input.OtherEmails,
			"status":                   models.UserStatusActive,
			"first_login_accomplished": true,
			"updated_at":               time.Now(),
			"updated_by":               actor,
		}).Error
	})
	if err != nil {
		saveError(c, err, "user")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "User", user.ID, user.Email)

	var updated models.User
	if err := models.Active(config.DB).First(&updated, "id = ?", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar usuário."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated, "profile": profile})
}

// UpdateUser atualiza campos administrativos. Status e is_staff só
// mudam pelas mãos de staff.
func UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var user models.User
	if err := models.Active(config.DB).First(&user, "id = ?", id).Error; err != nil {
		notFound(c, "user")
		return
	}

	var input userUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}

	if input.Status != "" {
		if input.Status != models.UserStatusRegisterUncompleted &&
			input.Status != models.UserStatusActive &&
			input.Status != models.UserStatusSuspended {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"status": "Status de usuário inválido."}})
			return
		}
		user.Status = input.Status
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if input.RG != "" {
		rg, err := utils.NormalizeRG(input.RG)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"rg": err.Error()}})
			return
		}
		user.RG = rg
	}
	if input.ReceiveEmails != nil {
		user.ReceiveEmails = *input.ReceiveEmails
	}
	if input.OtherEmails != "" {
		user.OtherEmails = input.OtherEmails
	}
	if input.IsStaff != nil {
		user.IsStaff = *input.IsStaff
	}
	user.StampUpdate(actorID(c))

	if err := config.DB.Save(&user).Error; err != nil {
		saveError(c, err, "user")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "User", user.ID, user.Email)
	c.JSON(http.StatusOK, user)
}

// DeleteUser desativa o usuário. O registro no Keycloak não é tocado.
func DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var user models.User
	if err := models.Active(config.DB).First(&user, "id = ?", id).Error; err != nil {
		notFound(c, "user")
		return
	}

	if err := models.SoftDelete(config.DB, "users", user.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover usuário."})
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionDelete, "User", user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Usuário removido com sucesso."})
}
