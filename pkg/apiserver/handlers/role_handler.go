package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

// RoleHandler is superuser-only: regular users have no business editing
// the role catalogue of their tenant.
type RoleHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewRoleHandler(db *postgres.Store, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{db: db, logger: logger}
}

type roleCreateRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description"`
}

type roleResponse struct {
	ID          uint   `json:"id"`
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *RoleHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !p.IsSuperuser {
		forbidden(c)
		return
	}

	repo := postgres.NewRoleRepository(h.db.DB())
	roles, err := repo.List(c.Request.Context(), p.TenantID)
	if err != nil {
		h.logger.Error("failed to list roles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list roles"})
		return
	}

	response := make([]roleResponse, 0, len(roles))
	for i := range roles {
		response = append(response, mapRole(&roles[i]))
	}

	c.JSON(http.StatusOK, response)
}

func (h *RoleHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !p.IsSuperuser {
		forbidden(c)
		return
	}

	var req roleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	role := &model.Role{
		TenantID:    p.TenantID,
		Name:        req.Name,
		Description: req.Description,
	}

	repo := postgres.NewRoleRepository(h.db.DB())
	if err := repo.Create(c.Request.Context(), role); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create role", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": "failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, mapRole(role))
}

// Delete removes the role; users referencing it keep their accounts with
// the role reference cleared by the store.
func (h *RoleHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !p.IsSuperuser {
		forbidden(c)
		return
	}

	roleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}

	repo := postgres.NewRoleRepository(h.db.DB())
	if err := repo.Delete(c.Request.Context(), p.TenantID, uint(roleID)); err != nil {
		if isNotFound(err) {
			forbidden(c)
			return
		}
		h.logger.Error("failed to delete role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete role"})
		return
	}

	c.Status(http.StatusNoContent)
}

func mapRole(role *model.Role) roleResponse {
	return roleResponse{
		ID:          role.ID,
		TenantID:    role.TenantID.String(),
		Name:        role.Name,
		Description: role.Description,
	}
}
