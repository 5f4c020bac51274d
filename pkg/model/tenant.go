package model

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Users     []User    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Roles     []Role    `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Dossiers  []Dossier `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type Role struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tenant      *Tenant   `gorm:"foreignKey:TenantID"`
	Name        string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`

	Permissions []RolePermission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// Permission is global, not tenant-scoped.
type Permission struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Code        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

type RolePermission struct {
	RoleID       uint        `gorm:"primaryKey"`
	PermissionID uint        `gorm:"primaryKey"`
	Permission   *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}
