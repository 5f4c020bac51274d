package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition reports a status change the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

type DossierStatus string

const (
	DossierDraft     DossierStatus = "draft"
	DossierSubmitted DossierStatus = "submitted"
	DossierApproved  DossierStatus = "approved"
	DossierRejected  DossierStatus = "rejected"
)

func (s DossierStatus) Valid() bool {
	switch s {
	case DossierDraft, DossierSubmitted, DossierApproved, DossierRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo enforces the dossier lifecycle:
// draft -> submitted -> (approved | rejected). Terminal states are frozen.
func (s DossierStatus) CanTransitionTo(next DossierStatus) bool {
	switch s {
	case DossierDraft:
		return next == DossierSubmitted
	case DossierSubmitted:
		return next == DossierApproved || next == DossierRejected
	default:
		return false
	}
}

type Dossier struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	Tenant         *Tenant       `gorm:"foreignKey:TenantID"`
	Reference      string        `gorm:"type:varchar(100);not null"`
	NameFR         string        `gorm:"column:name_fr;type:varchar(255);not null"`
	NameAR         string        `gorm:"column:name_ar;type:varchar(255);not null"`
	Status         DossierStatus `gorm:"type:varchar(20);default:'draft';index"`
	ProgressionPct int           `gorm:"default:0;check:progression_pct >= 0 AND progression_pct <= 100"`
	CreatedBy      uuid.UUID     `gorm:"type:uuid;not null"`
	Creator        *User         `gorm:"foreignKey:CreatedBy"`
	Modules        []Module      `gorm:"foreignKey:DossierID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Module struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DossierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Dossier   *Dossier  `gorm:"foreignKey:DossierID"`
	Number    int       `gorm:"not null;check:number >= 1 AND number <= 5"`
	Title     string    `gorm:"type:varchar(255)"`
	Status    string    `gorm:"type:varchar(50);default:'pending'"`
	Checksum  string    `gorm:"type:varchar(64)"`
	Files     []File    `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidModuleNumber mirrors the check constraint; dossiers hold at most
// five numbered CTD modules.
func ValidModuleNumber(n int) bool {
	return n >= 1 && n <= 5
}
