package models

// EmailSettings centraliza os templates de e-mail do sistema.
//
// Singleton: o índice parcial único sobre is_active é a autoridade;
// o banco rejeita uma segunda configuração ativa mesmo sob escritas
// concorrentes. As checagens de aplicação são apenas cortesia de UX.
type EmailSettings struct {
	BaseModel

	// Valor constante em todas as linhas; combinado com o índice
	// parcial, garante no máximo um registro ativo.
	Singleton bool `gorm:"default:true;not null;index:idx_email_settings_singleton,unique,where:is_active = true" json:"-"`

	NotificationSubject  string `gorm:"size:255;default:'Nova notificação'" json:"notification_subject"`
	NotificationTemplate string `gorm:"type:text" json:"notification_template"`
}

func (EmailSettings) TableName() string {
	return "email_settings"
}
