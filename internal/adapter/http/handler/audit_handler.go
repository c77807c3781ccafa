package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/iho/parklot/internal/adapter/http/dto"
	"github.com/iho/parklot/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	AuditTrail(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail to admins.
type AuditHandler struct {
	parkingUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(parkingUC AuditService) *AuditHandler {
	return &AuditHandler{parkingUC: parkingUC}
}

// List returns audit rows, newest first. Accepts optional token_id and
// limit query parameters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.parkingUC.AuditTrail(r.Context(), r.URL.Query().Get("token_id"), limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list audit trail", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
