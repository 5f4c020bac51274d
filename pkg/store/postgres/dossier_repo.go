package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MokokAf/amm-saas/pkg/model"
)

// DossierRepository scopes every read and write by tenant id in the WHERE
// clause, so a dossier owned by another tenant behaves exactly like a
// dossier that does not exist.
type DossierRepository struct {
	db *gorm.DB
}

func NewDossierRepository(db *gorm.DB) *DossierRepository {
	return &DossierRepository{db: db}
}

func (r *DossierRepository) Create(ctx context.Context, dossier *model.Dossier) error {
	return r.db.WithContext(ctx).Create(dossier).Error
}

func (r *DossierRepository) List(ctx context.Context, tenantID uuid.UUID) ([]model.Dossier, error) {
	var dossiers []model.Dossier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&dossiers).Error
	return dossiers, err
}

func (r *DossierRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Dossier, error) {
	var dossier model.Dossier
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&dossier).Error
	if err != nil {
		return nil, err
	}
	return &dossier, nil
}

func (r *DossierRepository) Update(ctx context.Context, tenantID, id uuid.UUID, updates map[string]interface{}) (*model.Dossier, error) {
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&model.Dossier{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.Get(ctx, tenantID, id)
}

// UpdateStatus applies a status change together with any other field
// updates in one transaction. The dossier row is locked so a concurrent
// request cannot move it between the lifecycle check and the write;
// terminal states stay frozen. Setting the current status again is a
// no-op and succeeds. The returned bool reports whether the status
// actually changed.
func (r *DossierRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, next model.DossierStatus, updates map[string]interface{}) (*model.Dossier, bool, error) {
	var dossier model.Dossier
	changed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND tenant_id = ?", id, tenantID).
			First(&dossier).Error
		if err != nil {
			return err
		}

		if next != dossier.Status {
			if !dossier.Status.CanTransitionTo(next) {
				return model.ErrInvalidTransition
			}
			updates["status"] = next
			changed = true
		}

		if len(updates) == 0 {
			return nil
		}

		updates["updated_at"] = time.Now().UTC()
		if err := tx.Model(&model.Dossier{}).
			Where("id = ?", dossier.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", dossier.ID).First(&dossier).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &dossier, changed, nil
}

func (r *DossierRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Dossier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ModuleRepository reaches the tenant through the owning dossier.
type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *ModuleRepository) ListByDossier(ctx context.Context, tenantID, dossierID uuid.UUID) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Select("modules.*").
		Joins("JOIN dossiers ON dossiers.id = modules.dossier_id").
		Where("modules.dossier_id = ? AND dossiers.tenant_id = ?", dossierID, tenantID).
		Order("modules.number ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Module, error) {
	var module model.Module
	err := r.db.WithContext(ctx).
		Select("modules.*").
		Joins("JOIN dossiers ON dossiers.id = modules.dossier_id").
		Where("modules.id = ? AND dossiers.tenant_id = ?", id, tenantID).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) Update(ctx context.Context, tenantID, id uuid.UUID, updates map[string]interface{}) (*model.Module, error) {
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("id = ? AND dossier_id IN (?)",
			id,
			r.db.Model(&model.Dossier{}).Select("id").Where("tenant_id = ?", tenantID),
		).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.Get(ctx, tenantID, id)
}

func (r *ModuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND dossier_id IN (?)",
			id,
			r.db.Model(&model.Dossier{}).Select("id").Where("tenant_id = ?", tenantID),
		).
		Delete(&model.Module{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
