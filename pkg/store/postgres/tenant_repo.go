package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MokokAf/amm-saas/pkg/model"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *TenantRepository) GetByName(ctx context.Context, name string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Oldest returns the first tenant ever created; registration without an
// explicit tenant lands there.
func (r *TenantRepository) Oldest(ctx context.Context) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Delete cascades to every user, role, dossier, module, file and file
// version the tenant owns; the constraints do the walking.
func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
