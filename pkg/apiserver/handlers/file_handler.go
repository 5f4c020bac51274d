package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/metrics"
	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

type FileHandler struct {
	db     *postgres.Store
	audit  *AuditRecorder
	logger *zap.Logger
}

func NewFileHandler(db *postgres.Store, audit *AuditRecorder, logger *zap.Logger) *FileHandler {
	return &FileHandler{db: db, audit: audit, logger: logger}
}

type fileCreateRequest struct {
	Path     string `json:"path" binding:"required,max=500"`
	MIME     string `json:"mime" binding:"required,max=100"`
	Size     int64  `json:"size" binding:"min=0"`
	S3Key    string `json:"s3_key" binding:"required,max=500"`
	Checksum string `json:"checksum" binding:"required,max=64"`
}

type fileVersionCreateRequest struct {
	S3Key    string `json:"s3_key" binding:"required,max=500"`
	Checksum string `json:"checksum" binding:"required,max=64"`
	Size     int64  `json:"size" binding:"min=0"`
}

type fileResponse struct {
	ID               string `json:"id"`
	ModuleID         string `json:"module_id"`
	Path             string `json:"path"`
	MIME             string `json:"mime"`
	Size             int64  `json:"size"`
	UploadedBy       string `json:"uploaded_by"`
	Version          int    `json:"version"`
	CurrentVersionID string `json:"current_version_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type fileVersionResponse struct {
	ID            string `json:"id"`
	FileID        string `json:"file_id"`
	VersionNumber int    `json:"version_number"`
	S3Key         string `json:"s3_key"`
	Checksum      string `json:"checksum"`
	CreatedAt     string `json:"created_at"`
}

// Create registers a file under a module together with its first version.
func (h *FileHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	var req fileCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	modules := postgres.NewModuleRepository(h.db.DB())
	module, err := modules.Get(ctx, p.TenantID, moduleID)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to get module", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create file"})
		return
	}

	file := &model.File{
		ModuleID:   module.ID,
		Path:       req.Path,
		MIME:       req.MIME,
		Size:       req.Size,
		UploadedBy: p.UserID,
	}

	files := postgres.NewFileRepository(h.db.DB())
	if _, err := files.CreateWithVersion(ctx, file, req.S3Key, req.Checksum); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create file", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to create file"})
		return
	}

	metrics.FileVersionsTotal.WithLabelValues(p.TenantID.String()).Inc()
	h.audit.Record(ctx, p, model.ActionFileCreated,
		fmt.Sprintf("file %s uploaded", file.Path), &module.DossierID, &module.ID)

	c.JSON(http.StatusCreated, mapFile(file))
}

func (h *FileHandler) ListByModule(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	ctx := c.Request.Context()

	modules := postgres.NewModuleRepository(h.db.DB())
	if _, err := modules.Get(ctx, p.TenantID, moduleID); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to get module", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	files := postgres.NewFileRepository(h.db.DB())
	list, err := files.ListByModule(ctx, p.TenantID, moduleID)
	if err != nil {
		h.logger.Error("failed to list files", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	response := make([]fileResponse, 0, len(list))
	for i := range list {
		response = append(response, mapFile(&list[i]))
	}

	c.JSON(http.StatusOK, response)
}

// AddVersion appends an immutable version and moves the current-version
// pointer; earlier versions stay readable forever.
func (h *FileHandler) AddVersion(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var req fileVersionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	files := postgres.NewFileRepository(h.db.DB())
	version, err := files.AddVersion(ctx, p.TenantID, fileID, req.S3Key, req.Checksum, req.Size)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to add file version", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to add file version"})
		return
	}

	metrics.FileVersionsTotal.WithLabelValues(p.TenantID.String()).Inc()
	h.audit.Record(ctx, p, model.ActionFileVersioned,
		fmt.Sprintf("file %s version %d committed", fileID, version.VersionNumber), nil, nil)

	c.JSON(http.StatusCreated, mapFileVersion(version))
}

func (h *FileHandler) ListVersions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	files := postgres.NewFileRepository(h.db.DB())
	versions, err := files.ListVersions(c.Request.Context(), p.TenantID, fileID)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to list file versions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list file versions"})
		return
	}

	response := make([]fileVersionResponse, 0, len(versions))
	for i := range versions {
		response = append(response, mapFileVersion(&versions[i]))
	}

	c.JSON(http.StatusOK, response)
}

func mapFile(file *model.File) fileResponse {
	response := fileResponse{
		ID:         file.ID.String(),
		ModuleID:   file.ModuleID.String(),
		Path:       file.Path,
		MIME:       file.MIME,
		Size:       file.Size,
		UploadedBy: file.UploadedBy.String(),
		Version:    file.Version,
		CreatedAt:  formatTime(file.CreatedAt),
	}
	if file.CurrentVersionID != nil {
		response.CurrentVersionID = file.CurrentVersionID.String()
	}
	return response
}

func mapFileVersion(version *model.FileVersion) fileVersionResponse {
	return fileVersionResponse{
		ID:            version.ID.String(),
		FileID:        version.FileID.String(),
		VersionNumber: version.VersionNumber,
		S3Key:         version.S3Key,
		Checksum:      version.Checksum,
		CreatedAt:     formatTime(version.CreatedAt),
	}
}
