package model

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ModuleID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Module     *Module   `gorm:"foreignKey:ModuleID"`
	Path       string    `gorm:"type:varchar(500);not null"`
	MIME       string    `gorm:"column:mime;type:varchar(100);not null"`
	Size       int64     `gorm:"not null"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	Uploader   *User     `gorm:"foreignKey:UploadedBy"`

	// Version counts committed FileVersions; CurrentVersionID always points
	// at the FileVersion with the highest VersionNumber. Both are maintained
	// in the same transaction that inserts the version row.
	Version          int          `gorm:"default:0"`
	CurrentVersionID *uuid.UUID   `gorm:"type:uuid"`
	CurrentVersion   *FileVersion `gorm:"foreignKey:CurrentVersionID;constraint:OnDelete:SET NULL"`

	Versions  []FileVersion `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileVersion is an immutable snapshot; rows are only ever inserted.
type FileVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FileID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_file_versions_file_number"`
	VersionNumber int       `gorm:"not null;uniqueIndex:idx_file_versions_file_number"`
	S3Key         string    `gorm:"column:s3_key;type:varchar(500);not null"`
	Checksum      string    `gorm:"type:varchar(64);not null"`
	CreatedAt     time.Time
}
