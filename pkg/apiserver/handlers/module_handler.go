package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

type ModuleHandler struct {
	db     *postgres.Store
	audit  *AuditRecorder
	logger *zap.Logger
}

func NewModuleHandler(db *postgres.Store, audit *AuditRecorder, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{db: db, audit: audit, logger: logger}
}

type moduleCreateRequest struct {
	Number int    `json:"number" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"omitempty,max=255"`
	Status string `json:"status" binding:"omitempty,max=50"`
}

type moduleUpdateRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=255"`
	Status   *string `json:"status" binding:"omitempty,max=50"`
	Checksum *string `json:"checksum" binding:"omitempty,max=64"`
}

type moduleResponse struct {
	ID        string `json:"id"`
	DossierID string `json:"dossier_id"`
	Number    int    `json:"number"`
	Title     string `json:"title,omitempty"`
	Status    string `json:"status"`
	Checksum  string `json:"checksum,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *ModuleHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dossier id"})
		return
	}

	var req moduleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Ownership gate: the dossier must exist under the caller's tenant.
	dossiers := postgres.NewDossierRepository(h.db.DB())
	if _, err := dossiers.Get(ctx, p.TenantID, dossierID); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to get dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create module"})
		return
	}

	module := &model.Module{
		ID:        uuid.New(),
		DossierID: dossierID,
		Number:    req.Number,
		Title:     req.Title,
		Status:    req.Status,
	}
	if module.Status == "" {
		module.Status = "pending"
	}

	modules := postgres.NewModuleRepository(h.db.DB())
	if err := modules.Create(ctx, module); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create module", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to create module"})
		return
	}

	h.audit.Record(ctx, p, model.ActionModuleCreated,
		fmt.Sprintf("module %d created", module.Number), &dossierID, &module.ID)

	c.JSON(http.StatusCreated, mapModule(module))
}

func (h *ModuleHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dossier id"})
		return
	}

	ctx := c.Request.Context()

	dossiers := postgres.NewDossierRepository(h.db.DB())
	if _, err := dossiers.Get(ctx, p.TenantID, dossierID); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to get dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list modules"})
		return
	}

	modules := postgres.NewModuleRepository(h.db.DB())
	list, err := modules.ListByDossier(ctx, p.TenantID, dossierID)
	if err != nil {
		h.logger.Error("failed to list modules", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list modules"})
		return
	}

	response := make([]moduleResponse, 0, len(list))
	for i := range list {
		response = append(response, mapModule(&list[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	var req moduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Checksum != nil {
		updates["checksum"] = *req.Checksum
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	modules := postgres.NewModuleRepository(h.db.DB())
	module, err := modules.Update(c.Request.Context(), p.TenantID, moduleID, updates)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to update module", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to update module"})
		return
	}

	h.audit.Record(c.Request.Context(), p, model.ActionModuleUpdated,
		fmt.Sprintf("module %d updated", module.Number), &module.DossierID, &module.ID)

	c.JSON(http.StatusOK, mapModule(module))
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}

	modules := postgres.NewModuleRepository(h.db.DB())
	if err := modules.Delete(c.Request.Context(), p.TenantID, moduleID); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to delete module", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete module"})
		return
	}

	h.audit.Record(c.Request.Context(), p, model.ActionModuleDeleted,
		fmt.Sprintf("module %s deleted", moduleID), nil, nil)

	c.Status(http.StatusNoContent)
}

func mapModule(module *model.Module) moduleResponse {
	return moduleResponse{
		ID:        module.ID.String(),
		DossierID: module.DossierID.String(),
		Number:    module.Number,
		Title:     module.Title,
		Status:    module.Status,
		Checksum:  module.Checksum,
		CreatedAt: formatTime(module.CreatedAt),
		UpdatedAt: formatTime(module.UpdatedAt),
	}
}
