package service

import (
	"encoding/json"
	"log/slog"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/models"
)

// AuditService appends entries to the append-only audit trail and lets
// administrators read it back.
type AuditService struct {
	core *core
}

// Log records a state-changing action. Audit failures are logged but
// never fail the operation that triggered them.
func (s *AuditService) Log(actorUserID, action, resourceType, resourceID string, context map[string]any) {
	entry := &models.AuditLogEntry{
		ID:           newID("audit"),
		Action:       action,
		ResourceType: resourceType,
		CreatedAt:    s.core.now(),
	}
	if actorUserID != "" {
		entry.ActorUserID = &actorUserID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if len(context) > 0 {
		data, err := json.Marshal(context)
		if err != nil {
			slog.Error("failed to marshal audit context", "action", action, "error", err)
		} else {
			entry.Context = string(data)
		}
	}

	if err := s.core.store.CreateAuditLog(entry); err != nil {
		slog.Error("failed to write audit log entry", "action", action, "error", err)
	}
}

// AuditPage is one page of the audit trail, newest first
type AuditPage struct {
	Entries []models.AuditLogEntry `json:"entries"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// List returns a page of the audit trail. Administrators only.
func (s *AuditService) List(actor models.Actor, limit, offset int) (*AuditPage, error) {
	if actor.Role != models.RoleAdministrator {
		return nil, apperrors.AccessDenied("only administrators may read the audit trail")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := s.core.store.ListAuditLogs(limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}
	return &AuditPage{Entries: entries, Total: total, Limit: limit, Offset: offset}, nil
}
