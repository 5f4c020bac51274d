package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionDossierCreated = "dossier_created"
	ActionDossierUpdated = "dossier_updated"
	ActionDossierDeleted = "dossier_deleted"
	ActionModuleCreated  = "module_created"
	ActionModuleUpdated  = "module_updated"
	ActionModuleDeleted  = "module_deleted"
	ActionFileCreated    = "file_created"
	ActionFileVersioned  = "file_versioned"
)

// ActionLog is append-only. Entries survive the deletion of the entities
// they reference: user, dossier and module references are cleared, never
// cascaded.
type ActionLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	DossierID *uuid.UUID `gorm:"type:uuid"`
	Dossier   *Dossier   `gorm:"foreignKey:DossierID;constraint:OnDelete:SET NULL"`
	ModuleID  *uuid.UUID `gorm:"type:uuid"`
	Module    *Module    `gorm:"foreignKey:ModuleID;constraint:OnDelete:SET NULL"`
	Action    string     `gorm:"type:varchar(100);not null"`
	Details   string     `gorm:"type:text"`
	At        time.Time  `gorm:"autoCreateTime;index"`
}

func (ActionLog) TableName() string {
	return "actions_log"
}
