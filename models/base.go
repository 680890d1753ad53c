package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carrega os campos comuns de todos os modelos do sistema:
// chave sequencial interna, UUID externo, rastreabilidade de
// criação/atualização/remoção e a flag de soft delete.
//
// Um registro está "vivo" quando IsActive=true. O delete padrão apenas
// desativa o registro; a remoção física só acontece via HardDelete.
type BaseModel struct {
	PKID      int64      `gorm:"column:pkid;primaryKey;autoIncrement" json:"-"`
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();uniqueIndex;not null" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	DeletedAt *time.Time `json:"deleted_at"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"deleted_by"`
	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
}

// Active é o escopo padrão de consulta: apenas registros vivos.
// Consultas administrativas usam o db sem escopo.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// Inactive filtra apenas registros desativados.
func Inactive(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", false)
}

// NewestFirst é a ordenação padrão das listagens.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// SoftDelete desativa o registro e grava quem/quando removeu.
// Relacionamentos NÃO são propagados automaticamente; cada chamador
// decide o que fazer com os filhos.
func SoftDelete(db *gorm.DB, table string, id uuid.UUID, actor *uuid.UUID) error {
	now := time.Now()
	return db.Table(table).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":  false,
			"deleted_at": now,
			"deleted_by": actor,
			"updated_at": now,
		}).Error
}

// HardDelete remove o registro fisicamente, ativo ou não.
// Operação irreversível.
func HardDelete(db *gorm.DB, model any, id uuid.UUID) error {
	return db.Unscoped().Where("id = ?", id).Delete(model).Error
}

// Stamp preenche o autor da criação. Principal ausente (operação de
// sistema não autenticada) deixa o campo nulo, sem erro.
func (b *BaseModel) Stamp(actor *uuid.UUID) {
	b.CreatedBy = actor
}

// StampUpdate preenche o autor da última atualização.
func (b *BaseModel) StampUpdate(actor *uuid.UUID) {
	b.UpdatedBy = actor
}
