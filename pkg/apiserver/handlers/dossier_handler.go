package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/metrics"
	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

type DossierHandler struct {
	db     *postgres.Store
	audit  *AuditRecorder
	logger *zap.Logger
}

func NewDossierHandler(db *postgres.Store, audit *AuditRecorder, logger *zap.Logger) *DossierHandler {
	return &DossierHandler{db: db, audit: audit, logger: logger}
}

type dossierCreateRequest struct {
	Reference      string `json:"reference" binding:"required,max=100"`
	NameFR         string `json:"name_fr" binding:"required,max=255"`
	NameAR         string `json:"name_ar" binding:"required,max=255"`
	ProgressionPct *int   `json:"progression_pct" binding:"omitempty,min=0,max=100"`
}

type dossierUpdateRequest struct {
	Reference      *string `json:"reference" binding:"omitempty,max=100"`
	NameFR         *string `json:"name_fr" binding:"omitempty,max=255"`
	NameAR         *string `json:"name_ar" binding:"omitempty,max=255"`
	Status         *string `json:"status"`
	ProgressionPct *int    `json:"progression_pct" binding:"omitempty,min=0,max=100"`
}

type dossierResponse struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	Reference      string `json:"reference"`
	NameFR         string `json:"name_fr"`
	NameAR         string `json:"name_ar"`
	Status         string `json:"status"`
	ProgressionPct int    `json:"progression_pct"`
	CreatedBy      string `json:"created_by"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// Create assigns the tenant from the principal, never from the payload, so
// a caller cannot create a dossier under another tenant.
func (h *DossierHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dossierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	dossier := &model.Dossier{
		ID:        uuid.New(),
		TenantID:  p.TenantID,
		Reference: req.Reference,
		NameFR:    req.NameFR,
		NameAR:    req.NameAR,
		Status:    model.DossierDraft,
		CreatedBy: p.UserID,
	}
	if req.ProgressionPct != nil {
		dossier.ProgressionPct = *req.ProgressionPct
	}

	repo := postgres.NewDossierRepository(h.db.DB())
	if err := repo.Create(c.Request.Context(), dossier); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create dossier", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to create dossier"})
		return
	}

	metrics.DossiersTotal.WithLabelValues(p.TenantID.String(), string(dossier.Status)).Inc()
	h.audit.Record(c.Request.Context(), p, model.ActionDossierCreated,
		fmt.Sprintf("dossier %s created", dossier.Reference), &dossier.ID, nil)

	c.JSON(http.StatusCreated, mapDossier(dossier))
}

func (h *DossierHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	repo := postgres.NewDossierRepository(h.db.DB())
	dossiers, err := repo.List(c.Request.Context(), p.TenantID)
	if err != nil {
		h.logger.Error("failed to list dossiers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list dossiers"})
		return
	}

	response := make([]dossierResponse, 0, len(dossiers))
	for i := range dossiers {
		response = append(response, mapDossier(&dossiers[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *DossierHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dossier id"})
		return
	}

	repo := postgres.NewDossierRepository(h.db.DB())
	dossier, err := repo.Get(c.Request.Context(), p.TenantID, dossierID)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to get dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get dossier"})
		return
	}

	c.JSON(http.StatusOK, mapDossier(dossier))
}

func (h *DossierHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dossier id"})
		return
	}

	var req dossierUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	repo := postgres.NewDossierRepository(h.db.DB())
	ctx := c.Request.Context()

	updates := map[string]interface{}{}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.NameFR != nil {
		updates["name_fr"] = *req.NameFR
	}
	if req.NameAR != nil {
		updates["name_ar"] = *req.NameAR
	}
	if req.ProgressionPct != nil {
		updates["progression_pct"] = *req.ProgressionPct
	}
	if req.Status != nil {
		next := model.DossierStatus(*req.Status)
		if !next.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		// The lifecycle check and the write share one transaction with
		// the dossier row locked, so a concurrent request cannot move
		// the dossier in between.
		dossier, changed, err := repo.UpdateStatus(ctx, p.TenantID, dossierID, next, updates)
		if err != nil {
			if isNotFound(err) {
				forbidden(c)
				return
			}
			if errors.Is(err, model.ErrInvalidTransition) {
				c.JSON(http.StatusConflict, gin.H{
					"error": fmt.Sprintf("cannot transition dossier to %s", next),
				})
				return
			}
			status := storeErrorStatus(err)
			if status == http.StatusInternalServerError {
				h.logger.Error("failed to update dossier", zap.Error(err))
			}
			c.JSON(status, gin.H{"error": "failed to update dossier"})
			return
		}

		if changed {
			metrics.DossiersTotal.WithLabelValues(p.TenantID.String(), string(dossier.Status)).Inc()
		}
		h.audit.Record(ctx, p, model.ActionDossierUpdated,
			fmt.Sprintf("dossier %s updated", dossier.Reference), &dossier.ID, nil)

		c.JSON(http.StatusOK, mapDossier(dossier))
		return
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	dossier, err := repo.Update(ctx, p.TenantID, dossierID, updates)
	if err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to update dossier", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to update dossier"})
		return
	}

	h.audit.Record(ctx, p, model.ActionDossierUpdated,
		fmt.Sprintf("dossier %s updated", dossier.Reference), &dossier.ID, nil)

	c.JSON(http.StatusOK, mapDossier(dossier))
}

// Delete cascades to modules, files and file versions through the store's
// foreign keys.
func (h *DossierHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	dossierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dossier id"})
		return
	}

	repo := postgres.NewDossierRepository(h.db.DB())
	if err := repo.Delete(c.Request.Context(), p.TenantID, dossierID); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to delete dossier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete dossier"})
		return
	}

	// The dossier row is gone, so the log keeps the id in the details only.
	h.audit.Record(c.Request.Context(), p, model.ActionDossierDeleted,
		fmt.Sprintf("dossier %s deleted", dossierID), nil, nil)

	c.Status(http.StatusNoContent)
}

func mapDossier(dossier *model.Dossier) dossierResponse {
	return dossierResponse{
		ID:             dossier.ID.String(),
		TenantID:       dossier.TenantID.String(),
		Reference:      dossier.Reference,
		NameFR:         dossier.NameFR,
		NameAR:         dossier.NameAR,
		Status:         string(dossier.Status),
		ProgressionPct: dossier.ProgressionPct,
		CreatedBy:      dossier.CreatedBy.String(),
		CreatedAt:      formatTime(dossier.CreatedAt),
		UpdatedAt:      formatTime(dossier.UpdatedAt),
	}
}
