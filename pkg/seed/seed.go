package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MokokAf/amm-saas/pkg/auth"
	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

const tenantName = "LabTest"

// ErrAlreadySeeded reports that the bootstrap tenant already exists; the
// seed is a no-op in that case and safe to run any number of times.
var ErrAlreadySeeded = errors.New("database already seeded")

// Run populates the initial tenant "LabTest" with admin/user roles, two
// accounts and one sample dossier at 10% progression.
func Run(ctx context.Context, store *postgres.Store, logger *zap.Logger) error {
	tenants := postgres.NewTenantRepository(store.DB())
	if _, err := tenants.GetByName(ctx, tenantName); err == nil {
		return ErrAlreadySeeded
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing tenant: %w", err)
	}

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	userHash, err := auth.HashPassword("user1234")
	if err != nil {
		return fmt.Errorf("failed to hash user password: %w", err)
	}

	return store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant := model.Tenant{ID: uuid.New(), Name: tenantName}
		if err := postgres.NewTenantRepository(tx).Create(ctx, &tenant); err != nil {
			return err
		}

		roles := postgres.NewRoleRepository(tx)
		adminRole := model.Role{TenantID: tenant.ID, Name: "admin", Description: "Administrateur laboratoire"}
		userRole := model.Role{TenantID: tenant.ID, Name: "user", Description: "Utilisateur standard"}
		if err := roles.Create(ctx, &adminRole); err != nil {
			return err
		}
		if err := roles.Create(ctx, &userRole); err != nil {
			return err
		}

		admin := model.User{
			ID:             uuid.New(),
			TenantID:       tenant.ID,
			RoleID:         &adminRole.ID,
			Email:          "admin@labtest.com",
			HashedPassword: adminHash,
			IsActive:       true,
			IsSuperuser:    true,
			IsVerified:     true,
			Locale:         "fr",
		}
		user := model.User{
			ID:             uuid.New(),
			TenantID:       tenant.ID,
			RoleID:         &userRole.ID,
			Email:          "user@labtest.com",
			HashedPassword: userHash,
			IsActive:       true,
			IsVerified:     true,
			Locale:         "fr",
		}
		users := postgres.NewUserRepository(tx)
		if err := users.Create(ctx, &admin); err != nil {
			return err
		}
		if err := users.Create(ctx, &user); err != nil {
			return err
		}

		dossier := model.Dossier{
			ID:             uuid.New(),
			TenantID:       tenant.ID,
			Reference:      "AMM-DEMO-001",
			NameFR:         "Médicament Démo",
			NameAR:         "دواء تجريبي",
			Status:         model.DossierDraft,
			ProgressionPct: 10,
			CreatedBy:      admin.ID,
		}
		if err := postgres.NewDossierRepository(tx).Create(ctx, &dossier); err != nil {
			return err
		}

		logger.Info("seed completed",
			zap.String("tenant", tenant.Name),
			zap.String("tenant_id", tenant.ID.String()),
		)
		return nil
	})
}
