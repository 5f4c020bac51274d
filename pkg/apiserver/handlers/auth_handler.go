package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/auth"
	"github.com/MokokAf/amm-saas/pkg/metrics"
	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

type AuthHandler struct {
	db     *postgres.Store
	tokens *auth.TokenManager
	audit  *AuditRecorder
	logger *zap.Logger
}

func NewAuthHandler(db *postgres.Store, tokens *auth.TokenManager, audit *AuditRecorder, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, tokens: tokens, audit: audit, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenant_id"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenant_id"`
}

type updateMeRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Locale   *string `json:"locale"`
}

type userResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	IsVerified  bool   `json:"is_verified"`
	Locale      string `json:"locale"`
	CreatedAt   string `json:"created_at"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	users := postgres.NewUserRepository(h.db.DB())

	var user *model.User
	var err error
	if req.TenantID != "" {
		tenantID, parseErr := uuid.Parse(req.TenantID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant_id"})
			return
		}
		user, err = users.GetByEmail(ctx, tenantID, req.Email)
	} else {
		user, err = users.FindByEmail(ctx, req.Email)
	}

	// Unknown account, wrong password and inactive account all answer the
	// same way.
	if err != nil || !auth.VerifyPassword(req.Password, user.HashedPassword) || !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.audit.Record(ctx, auth.Principal{UserID: user.ID, TenantID: user.TenantID}, model.ActionLogin, "", nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": gin.H{"password": err.Error()}})
			return
		}
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	ctx := c.Request.Context()
	tenants := postgres.NewTenantRepository(h.db.DB())

	var tenantID uuid.UUID
	if req.TenantID != "" {
		tenantID, err = uuid.Parse(req.TenantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant_id"})
			return
		}
	} else {
		tenant, err := tenants.Oldest(ctx)
		if err != nil {
			h.logger.Error("no tenant available for registration", zap.Error(err))
			c.JSON(http.StatusConflict, gin.H{"error": "no tenant available"})
			return
		}
		tenantID = tenant.ID
	}

	user := &model.User{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Email:          req.Email,
		HashedPassword: hash,
		IsActive:       true,
		IsVerified:     true,
		Locale:         "fr",
	}

	users := postgres.NewUserRepository(h.db.DB())
	if err := users.Create(ctx, user); err != nil {
		status := storeErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create user", zap.Error(err))
			c.JSON(status, gin.H{"error": "failed to register"})
			return
		}
		c.JSON(status, gin.H{"error": "email already registered for tenant"})
		return
	}

	h.audit.Record(ctx, auth.Principal{UserID: user.ID, TenantID: user.TenantID}, model.ActionRegister, "", nil, nil)

	c.JSON(http.StatusCreated, mapUser(user))
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	users := postgres.NewUserRepository(h.db.DB())
	user, err := users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, mapUser(user))
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Locale != nil {
		updates["locale"] = *req.Locale
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": gin.H{"password": err.Error()}})
				return
			}
			h.logger.Error("failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		updates["hashed_password"] = hash
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	users := postgres.NewUserRepository(h.db.DB())
	user, err := users.Update(c.Request.Context(), p.TenantID, p.UserID, updates)
	if err != nil {
		status := storeErrorStatus(err)
		if status != http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "email already registered for tenant"})
			return
		}
		h.logger.Error("failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, mapUser(user))
}

func mapUser(user *model.User) userResponse {
	return userResponse{
		ID:          user.ID.String(),
		TenantID:    user.TenantID.String(),
		Email:       user.Email,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		IsVerified:  user.IsVerified,
		Locale:      user.Locale,
		CreatedAt:   formatTime(user.CreatedAt),
	}
}
