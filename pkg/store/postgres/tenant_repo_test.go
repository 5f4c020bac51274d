package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestTenantGetByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
		AddRow(id.String(), "LabTest", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE name = \$1`).
		WithArgs("LabTest", 1).
		WillReturnRows(rows)

	tenant, err := repo.GetByName(context.Background(), "LabTest")
	if err != nil {
		t.Fatalf("GetByName() error: %v", err)
	}
	if tenant.ID != id {
		t.Errorf("GetByName() ID = %s, want %s", tenant.ID, id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTenantGetByNameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE name = \$1`).
		WithArgs("Nobody", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

	if _, err := repo.GetByName(context.Background(), "Nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByName() error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestTenantOldest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
		AddRow(id.String(), "LabTest", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "tenants" ORDER BY created_at ASC`).
		WithArgs(1).
		WillReturnRows(rows)

	tenant, err := repo.Oldest(context.Background())
	if err != nil {
		t.Fatalf("Oldest() error: %v", err)
	}
	if tenant.Name != "LabTest" {
		t.Errorf("Oldest() Name = %q, want %q", tenant.Name, "LabTest")
	}
}

func TestTenantDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "tenants" WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTenantDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTenantRepository(db)

	mock.ExpectExec(`DELETE FROM "tenants" WHERE id = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Delete() error = %v, want gorm.ErrRecordNotFound", err)
	}
}
