package handlers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/auth"
	"github.com/MokokAf/amm-saas/pkg/eventbus"
	"github.com/MokokAf/amm-saas/pkg/model"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
)

// AuditRecorder appends action-log entries and fans them out on the event
// bus. Recording is best effort: a failed append is logged, never bubbled
// into the response.
type AuditRecorder struct {
	db     *postgres.Store
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewAuditRecorder(db *postgres.Store, bus *eventbus.Bus, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{db: db, bus: bus, logger: logger}
}

func (a *AuditRecorder) Record(ctx context.Context, p auth.Principal, action, details string, dossierID, moduleID *uuid.UUID) {
	userID := p.UserID
	entry := &model.ActionLog{
		UserID:    &userID,
		TenantID:  p.TenantID,
		DossierID: dossierID,
		ModuleID:  moduleID,
		Action:    action,
		Details:   details,
	}

	repo := postgres.NewActionLogRepository(a.db.DB())
	if err := repo.Append(ctx, entry); err != nil {
		a.logger.Error("failed to append action log", zap.String("action", action), zap.Error(err))
	}

	if a.bus == nil {
		return
	}

	audit := eventbus.AuditEvent{
		Action:   action,
		TenantID: p.TenantID.String(),
		UserID:   p.UserID.String(),
		Details:  details,
	}
	if dossierID != nil {
		audit.DossierID = dossierID.String()
	}
	if moduleID != nil {
		audit.ModuleID = moduleID.String()
	}
	if event, err := eventbus.NewEvent(action, audit); err == nil {
		_ = a.bus.Publish(ctx, eventbus.ChannelAudit, event)
	}
}
