package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditEntry é a trilha de auditoria legível: quem fez o quê, em qual
// objeto. Gravada por todo create/update/destroy da API.
type AuditEntry struct {
	PKID       int64      `gorm:"column:pkid;primaryKey;autoIncrement" json:"-"`
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();uniqueIndex;not null" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`
	ActorEmail string     `gorm:"size:255" json:"actor_email"`
	ObjectType string     `gorm:"size:100;not null;index" json:"object_type"`
	ObjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"object_id"`
	ObjectRepr string     `gorm:"size:255" json:"object_repr"`
	Action     string     `gorm:"size:20;not null" json:"action"`
	Message    string     `gorm:"type:text" json:"message"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
