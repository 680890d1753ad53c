package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nithub/nit-backend/models"
)

// Auditor grava a trilha de auditoria de create/update/destroy.
// É chamado explicitamente pelos handlers que fazem a mutação, nada
// de hooks globais escondidos.
type Auditor struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAuditor(db *gorm.DB, log zerolog.Logger) *Auditor {
	return &Auditor{db: db, log: log.With().Str("component", "audit").Logger()}
}

// Actor identifica quem executou a operação; nil para operações de
// sistema sem principal.
type Actor struct {
	ID    *uuid.UUID
	Email string
}

// Record persiste uma entrada de auditoria e emite o log estruturado.
// Falha na gravação não derruba a operação principal, só vira warning.
func (a *Auditor) Record(actor Actor, action, objectType string, objectID uuid.UUID, repr string) {
	entry := models.AuditEntry{
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		ObjectType: objectType,
		ObjectID:   objectID,
		ObjectRepr: repr,
		Action:     action,
		Message:    actionMessage(action) + " " + repr,
	}

	if err := a.db.Create(&entry).Error; err != nil {
		a.log.Warn().Err(err).
			Str("object_type", objectType).
			Str("action", action).
			Msg("falha ao gravar auditoria")
	}

	a.log.Info().
		Str("action", action).
		Str("object_type", objectType).
		Str("object_id", objectID.String()).
		Str("actor", actor.Email).
		Msg(entry.Message)
}

func actionMessage(action string) string {
	switch action {
	case models.AuditActionCreate:
		return "Criado"
	case models.AuditActionUpdate:
		return "Atualizado"
	case models.AuditActionDelete:
		return "Removido"
	}
	return action
}
