package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MokokAf/amm-saas/pkg/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error: %v", err)
	}

	return db, mock
}

func dossierRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "reference", "name_fr", "name_ar",
		"status", "progression_pct", "created_by", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(
			id.String(), uuid.New().String(), "REF-1", "X", "Y",
			"draft", 0, uuid.New().String(), time.Now(), time.Now(),
		)
	}
	return rows
}

func TestDossierListScopedToTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(dossierRows(uuid.New(), uuid.New()))

	dossiers, err := repo.List(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(dossiers) != 2 {
		t.Fatalf("expected 2 dossiers, got %d", len(dossiers))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierGetFiltersByTenant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(dossierID, tenantID, 1).
		WillReturnRows(dossierRows(dossierID))

	dossier, err := repo.Get(context.Background(), tenantID, dossierID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if dossier.ID != dossierID {
		t.Fatalf("expected dossier %s, got %s", dossierID, dossier.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierGetCrossTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnRows(dossierRows())

	_, err := repo.Get(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierDeleteCrossTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectExec(`DELETE FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(dossierID, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), tenantID, dossierID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectExec(`DELETE FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(dossierID, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), tenantID, dossierID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionLogAppendOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewActionLogRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO "actions_log"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	entry := &model.ActionLog{
		UserID:   &userID,
		TenantID: uuid.New(),
		Action:   model.ActionDossierCreated,
		Details:  "dossier REF-1 created",
	}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func dossierRow(id uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "reference", "name_fr", "name_ar",
		"status", "progression_pct", "created_by", "created_at", "updated_at",
	}).AddRow(
		id.String(), uuid.New().String(), "REF-1", "X", "Y",
		status, 0, uuid.New().String(), time.Now(), time.Now(),
	)
}

func TestDossierUpdateStatusLocksRowAndTransitions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2.*FOR UPDATE`).
		WithArgs(dossierID, tenantID, 1).
		WillReturnRows(dossierRow(dossierID, "draft"))
	mock.ExpectExec(`UPDATE "dossiers" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("submitted", sqlmock.AnyArg(), dossierID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1`).
		WithArgs(dossierID, 1).
		WillReturnRows(dossierRow(dossierID, "submitted"))
	mock.ExpectCommit()

	dossier, changed, err := repo.UpdateStatus(context.Background(), tenantID, dossierID, model.DossierSubmitted, map[string]interface{}{})
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if !changed {
		t.Fatal("expected changed = true")
	}
	if dossier.Status != model.DossierSubmitted {
		t.Fatalf("expected status submitted, got %s", dossier.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierUpdateStatusTerminalStateFrozen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2.*FOR UPDATE`).
		WithArgs(dossierID, tenantID, 1).
		WillReturnRows(dossierRow(dossierID, "rejected"))
	mock.ExpectRollback()

	_, _, err := repo.UpdateStatus(context.Background(), tenantID, dossierID, model.DossierApproved, map[string]interface{}{})
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDossierUpdateStatusSameStatusIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDossierRepository(db)
	tenantID := uuid.New()
	dossierID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dossiers" WHERE id = \$1 AND tenant_id = \$2.*FOR UPDATE`).
		WithArgs(dossierID, tenantID, 1).
		WillReturnRows(dossierRow(dossierID, "submitted"))
	mock.ExpectCommit()

	dossier, changed, err := repo.UpdateStatus(context.Background(), tenantID, dossierID, model.DossierSubmitted, map[string]interface{}{})
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if changed {
		t.Fatal("expected changed = false")
	}
	if dossier.Status != model.DossierSubmitted {
		t.Fatalf("expected status submitted, got %s", dossier.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
