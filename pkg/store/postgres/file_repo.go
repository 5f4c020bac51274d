package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MokokAf/amm-saas/pkg/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// CreateWithVersion inserts the file together with its first version in one
// transaction, so a file never exists without a current version.
func (r *FileRepository) CreateWithVersion(ctx context.Context, file *model.File, s3Key, checksum string) (*model.FileVersion, error) {
	var version model.FileVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if file.ID == uuid.Nil {
			file.ID = uuid.New()
		}
		file.Version = 1

		if err := tx.Create(file).Error; err != nil {
			return err
		}

		version = model.FileVersion{
			ID:            uuid.New(),
			FileID:        file.ID,
			VersionNumber: 1,
			S3Key:         s3Key,
			Checksum:      checksum,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		return tx.Model(&model.File{}).
			Where("id = ?", file.ID).
			Update("current_version_id", version.ID).Error
	})
	if err != nil {
		return nil, err
	}

	file.CurrentVersionID = &version.ID
	return &version, nil
}

// AddVersion appends the next version and repoints the file's current
// version in the same transaction. The file row is locked so concurrent
// uploads cannot mint the same version number; history is never rewritten.
func (r *FileRepository) AddVersion(ctx context.Context, tenantID, fileID uuid.UUID, s3Key, checksum string, size int64) (*model.FileVersion, error) {
	var version model.FileVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file model.File
		err := tx.
			Select("files.*").
			Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "files"}}).
			Joins("JOIN modules ON modules.id = files.module_id").
			Joins("JOIN dossiers ON dossiers.id = modules.dossier_id").
			Where("files.id = ? AND dossiers.tenant_id = ?", fileID, tenantID).
			First(&file).Error
		if err != nil {
			return err
		}

		version = model.FileVersion{
			ID:            uuid.New(),
			FileID:        file.ID,
			VersionNumber: file.Version + 1,
			S3Key:         s3Key,
			Checksum:      checksum,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		return tx.Model(&model.File{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"version":            version.VersionNumber,
				"current_version_id": version.ID,
				"size":               size,
				"updated_at":         time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *FileRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).
		Select("files.*").
		Joins("JOIN modules ON modules.id = files.module_id").
		Joins("JOIN dossiers ON dossiers.id = modules.dossier_id").
		Where("files.id = ? AND dossiers.tenant_id = ?", id, tenantID).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) ListByModule(ctx context.Context, tenantID, moduleID uuid.UUID) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Select("files.*").
		Joins("JOIN modules ON modules.id = files.module_id").
		Joins("JOIN dossiers ON dossiers.id = modules.dossier_id").
		Where("files.module_id = ? AND dossiers.tenant_id = ?", moduleID, tenantID).
		Order("files.created_at ASC").
		Find(&files).Error
	return files, err
}

// ListVersions returns the full history, oldest first; the last entry is
// always the file's current version.
func (r *FileRepository) ListVersions(ctx context.Context, tenantID, fileID uuid.UUID) ([]model.FileVersion, error) {
	if _, err := r.Get(ctx, tenantID, fileID); err != nil {
		return nil, err
	}

	var versions []model.FileVersion
	err := r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("version_number ASC").
		Find(&versions).Error
	return versions, err
}
