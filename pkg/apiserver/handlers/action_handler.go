package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

type ActionHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewActionHandler(db *postgres.Store, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{db: db, logger: logger}
}

type actionResponse struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	DossierID string `json:"dossier_id,omitempty"`
	ModuleID  string `json:"module_id,omitempty"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	At        string `json:"at"`
}

func (h *ActionHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	limit := parseLimit(c.Query("limit"), 50)
	offset := parseOffset(c.Query("offset"))

	repo := postgres.NewActionLogRepository(h.db.DB())
	entries, total, err := repo.ListByTenant(c.Request.Context(), p.TenantID, limit, offset)
	if err != nil {
		h.logger.Error("failed to list actions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list actions"})
		return
	}

	response := make([]actionResponse, 0, len(entries))
	for i := range entries {
		response = append(response, mapAction(&entries[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"actions": response,
		"total":   total,
	})
}

func mapAction(entry *model.ActionLog) actionResponse {
	response := actionResponse{
		ID:      entry.ID,
		Action:  entry.Action,
		Details: entry.Details,
		At:      formatTime(entry.At),
	}
	if entry.UserID != nil {
		response.UserID = entry.UserID.String()
	}
	if entry.DossierID != nil {
		response.DossierID = entry.DossierID.String()
	}
	if entry.ModuleID != nil {
		response.ModuleID = entry.ModuleID.String()
	}
	return response
}
