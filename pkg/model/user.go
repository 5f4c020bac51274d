package model

import (
	"time"

	"github.com/google/uuid"
)

// User email is unique per tenant, never globally: two tenants may each
// have a user with the same address.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_users_email_tenant"`
	Tenant         *Tenant   `gorm:"foreignKey:TenantID"`
	RoleID         *uint     `gorm:"index"`
	Role           *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_tenant"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	IsActive       bool      `gorm:"default:true"`
	IsSuperuser    bool      `gorm:"default:false"`
	IsVerified     bool      `gorm:"default:true"`
	Locale         string    `gorm:"type:varchar(5);default:'fr'"`
	CreatedAt      time.Time
}
