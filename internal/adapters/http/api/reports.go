// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/regista/internal/domain/reports"
)

// ReportsDependencies defines the interface for report discovery.
type ReportsDependencies interface {
	Reports() []reports.Definition
}

// ReportsHandler lists the configured reports.
type ReportsHandler struct {
	deps ReportsDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportsDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleGetReports handles GET /reports requests.
func (h *ReportsHandler) HandleGetReports(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_reports"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	defs := h.deps.Reports()
	if defs == nil {
		defs = []reports.Definition{}
	}
	writeJSON(w, http.StatusOK, defs)
}
