package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserStatusRegisterUncompleted = "REGISTER_UNCOMPLETED"
	UserStatusActive              = "ACTIVE"
	UserStatusSuspended           = "SUSPENDED"
)

// User é o registro local de um principal autenticado via Keycloak.
// Login, senha e reset são responsabilidade do Keycloak; aqui ficam
// apenas os dados de negócio do usuário.
type User struct {
	BaseModel

	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username string `gorm:"size:255;uniqueIndex" json:"username"`
	CPFCNPJ  string `gorm:"column:cpf_cnpj;size:14;index:idx_users_active_cpf_cnpj,unique,where:is_active = true AND cpf_cnpj <> ''" json:"cpf_cnpj"`
	RG       string `gorm:"size:50" json:"rg"`

	// Vínculo com o subject do token; vazio para principals de serviço.
	KeycloakID string `gorm:"size:255;index:idx_users_keycloak_id,unique,where:keycloak_id <> ''" json:"keycloak_id"`

	Status                  string    `gorm:"size:30;default:'REGISTER_UNCOMPLETED'" json:"status"`
	IsStaff                 bool      `gorm:"default:false" json:"is_staff"`
	DateJoined              time.Time `gorm:"autoCreateTime" json:"date_joined"`
	FirstLoginAccomplished  bool      `gorm:"default:false" json:"first_login_accomplished"`
	Terms                   bool      `gorm:"default:false" json:"terms"`
	ReceiveEmails           bool      `gorm:"default:false" json:"receive_emails"`
	OtherEmails             string    `gorm:"type:text" json:"other_emails"`

	Clients []Client `gorm:"foreignKey:UserID;references:ID" json:"clients,omitempty"`
}

func (User) TableName() string {
	return "users"
}

type Profile struct {
	BaseModel

	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Phone     string     `gorm:"size:10" json:"phone"`
	Cellphone string     `gorm:"size:11" json:"cellphone"`
	Born      *time.Time `json:"born"`
	Avatar    string     `gorm:"type:text" json:"avatar"`
	AddressID *uuid.UUID `gorm:"type:uuid" json:"address_id"`
	Address   *Address   `gorm:"foreignKey:AddressID;references:ID" json:"address,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Client struct {
	BaseModel

	UserID  uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User    *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name    string    `gorm:"size:255" json:"name"`
	CPFCNPJ string    `gorm:"column:cpf_cnpj;size:14;not null" json:"cpf_cnpj"`
}

func (Client) TableName() string {
	return "clients"
}
