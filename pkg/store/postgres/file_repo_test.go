package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MokokAf/amm-saas/pkg/model"
)

func fileRow(id uuid.UUID, version int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "module_id", "path", "mime", "size", "uploaded_by",
		"version", "current_version_id", "created_at", "updated_at",
	}).AddRow(
		id.String(), uuid.New().String(), "dossiers/doc.pdf", "application/pdf",
		int64(1024), uuid.New().String(), version, nil, time.Now(), time.Now(),
	)
}

func TestFileCreateWithVersionStartsChainAtOne(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)

	file := &model.File{
		ModuleID:   uuid.New(),
		Path:       "dossiers/doc.pdf",
		MIME:       "application/pdf",
		Size:       1024,
		UploadedBy: uuid.New(),
	}

	fileID := uuid.New()
	file.ID = fileID
	versionID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "files"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(fileID.String(), 1))
	mock.ExpectQuery(`INSERT INTO "file_versions"`).
		WithArgs(sqlmock.AnyArg(), fileID.String(), 1, "s3/doc-v1", "abc123", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(versionID.String()))
	mock.ExpectExec(`UPDATE "files" SET "current_version_id"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	version, err := repo.CreateWithVersion(context.Background(), file, "s3/doc-v1", "abc123")
	if err != nil {
		t.Fatalf("CreateWithVersion() error: %v", err)
	}
	if version.VersionNumber != 1 {
		t.Fatalf("expected version number 1, got %d", version.VersionNumber)
	}
	if file.Version != 1 {
		t.Fatalf("expected file counter 1, got %d", file.Version)
	}
	if file.CurrentVersionID == nil || *file.CurrentVersionID != version.ID {
		t.Fatal("expected current version to point at the new row")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFileAddVersionBumpsCounterAndRepointsCurrent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	tenantID := uuid.New()
	fileID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT files\.\* FROM "files" JOIN modules ON modules\.id = files\.module_id JOIN dossiers ON dossiers\.id = modules\.dossier_id WHERE files\.id = \$1 AND dossiers\.tenant_id = \$2.*FOR UPDATE OF "files"`).
		WithArgs(fileID, tenantID, 1).
		WillReturnRows(fileRow(fileID, 3))
	mock.ExpectQuery(`INSERT INTO "file_versions"`).
		WithArgs(sqlmock.AnyArg(), fileID.String(), 4, "s3/doc-v4", "def456", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`UPDATE "files" SET "current_version_id"=\$1,"size"=\$2,"updated_at"=\$3,"version"=\$4 WHERE id = \$5`).
		WithArgs(sqlmock.AnyArg(), int64(2048), sqlmock.AnyArg(), 4, fileID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	version, err := repo.AddVersion(context.Background(), tenantID, fileID, "s3/doc-v4", "def456", 2048)
	if err != nil {
		t.Fatalf("AddVersion() error: %v", err)
	}
	if version.VersionNumber != 4 {
		t.Fatalf("expected version number 4, got %d", version.VersionNumber)
	}
	if version.FileID != fileID {
		t.Fatalf("expected file id %s, got %s", fileID, version.FileID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFileAddVersionCrossTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT files\.\* FROM "files" JOIN modules.*FOR UPDATE OF "files"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.AddVersion(context.Background(), uuid.New(), uuid.New(), "s3/key", "sum", 1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
