package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/middleware"
	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
	"github.com/nithub/nit-backend/utils"
)

var addressFilters = services.FilterSet{
	Fields: []services.FilterField{
		{Param: "city", Column: "city", Kind: services.FilterString},
		{Param: "state", Column: "state", Kind: services.FilterString},
		{Param: "cep", Column: "cep", Kind: services.FilterString},
	},
}

type addressInput struct {
	Street     string `json:"street"`
	District   string `json:"district"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	CEP        string `json:"cep"`
}

// normaliza e valida o endereço, acumulando erros por campo.
func (input *addressInput) normalize() map[string]string {
	fieldErrors := map[string]string{}

	input.Street = strings.TrimSpace(input.Street)
	input.City = utils.TitleTrim(input.City)
	input.State = strings.ToUpper(strings.TrimSpace(input.State))
	input.Country = utils.NormalizeCountry(input.Country)

	cep, err := utils.NormalizeCEP(input.CEP)
	if err != nil {
		fieldErrors["cep"] = err.Error()
	} else {
		input.CEP = cep
	}

	if input.State != "" && !models.ValidBrazilState(input.State) {
		fieldErrors["state"] = "UF inválida."
	}
	return fieldErrors
}

// GetAddresses lista endereços ativos.
func GetAddresses(c *gin.Context) {
	query := addressFilters.Apply(models.Active(config.DB).Model(&models.Address{}), queryParams(c))

	var total int64
	query.Count(&total)

	var addresses []models.Address
	paged, page, limit, paginated := paginate(c, query)
	if err := models.NewestFirst(paged).Find(&addresses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar endereços."})
		return
	}
	listResponse(c, addresses, total, page, limit, paginated)
}

// GetAddress busca um endereço ativo.
func GetAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var address models.Address
	if err := models.Active(config.DB).First(&address, "id = ?", id).Error; err != nil {
		notFound(c, "address")
		return
	}
	c.JSON(http.StatusOK, address)
}

// GetMyAddress devolve o endereço do perfil do usuário autenticado.
func GetMyAddress(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Autenticação necessária."})
		return
	}

	var profile models.Profile
	if err := models.Active(config.DB).First(&profile, "user_id = ?", user.ID).Error; err != nil {
		notFound(c, "address")
		return
	}
	if profile.AddressID == nil {
		notFound(c, "address")
		return
	}

	var address models.Address
	if err := models.Active(config.DB).First(&address, "id = ?", *profile.AddressID).Error; err != nil {
		notFound(c, "address")
		return
	}
	c.JSON(http.StatusOK, address)
}

// CreateAddress cria um endereço normalizado.
func CreateAddress(c *gin.Context) {
	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if fieldErrors := input.normalize(); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	address := models.Address{
		Street:     input.Street,
		District:   input.District,
		Number:     input.Number,
		Complement: input.Complement,
		City:       input.City,
		State:      input.State,
		Country:    input.Country,
		CEP:        input.CEP,
	}
	address.Stamp(actorID(c))

	if err := config.DB.Create(&address).Error; err != nil {
		saveError(c, err, "address")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionCreate, "Address", address.ID, address.FullAddress())
	c.JSON(http.StatusCreated, address)
}

// UpdateAddress atualiza campos informados, renormalizando.
func UpdateAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var address models.Address
	if err := models.Active(config.DB).First(&address, "id = ?", id).Error; err != nil {
		notFound(c, "address")
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos."})
		return
	}
	if fieldErrors := input.normalize(); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	if input.Street != "" {
		address.Street = input.Street
	}
	if input.District != "" {
		address.District = input.District
	}
	if input.Number != "" {
		address.Number = input.Number
	}
	if input.Complement != "" {
		address.Complement = input.Complement
	}
	if input.City != "" {
		address.City = input.City
	}
	if input.State != "" {
		address.State = input.State
	}
	if input.Country != "" {
		address.Country = input.Country
	}
	if input.CEP != "" {
		address.CEP = input.CEP
	}
	address.StampUpdate(actorID(c))

	if err := config.DB.Save(&address).Error; err != nil {
		saveError(c, err, "address")
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionUpdate, "Address", address.ID, address.FullAddress())
	c.JSON(http.StatusOK, address)
}

// DeleteAddress remove logicamente o endereço.
func DeleteAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var address models.Address
	if err := models.Active(config.DB).First(&address, "id = ?", id).Error; err != nil {
		notFound(c, "address")
		return
	}

	if err := models.SoftDelete(config.DB, "addresses", address.ID, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover endereço."})
		return
	}

	auditor.Record(actorFrom(c), models.AuditActionDelete, "Address", address.ID, address.FullAddress())
	c.JSON(http.StatusOK, gin.H{"message": "Endereço removido com sucesso."})
}
