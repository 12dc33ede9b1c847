// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
)

// ExportDependencies defines the interface for table export operations.
type ExportDependencies interface {
	Export(ctx context.Context, report string, n int) ([]Entry, error)
}

// ExportHandler streams a report's ranked table as CSV.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleGetExport handles GET /export?report=NAME&limit=N requests. The
// limit is optional; omitting it exports the full table. Exports are not
// capped the way leaderboard pages are, since full dumps are the point.
func (h *ExportHandler) HandleGetExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_export"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	report := r.URL.Query().Get("report")
	if report == "" {
		writeError(w, http.StatusBadRequest, "missing_report", NewKind(op, ErrBadRequest))
		return
	}
	n := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}

	entries, err := h.deps.Export(r.Context(), report, n)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report+".csv"))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"rank", "entity_id", "total", "count", "minutes", "per90"})
	for _, e := range entries {
		minutes, per90 := "", ""
		if e.Minutes > 0 {
			minutes = strconv.FormatFloat(e.Minutes, 'f', -1, 64)
			per90 = strconv.FormatFloat(e.Per90, 'f', -1, 64)
		}
		_ = cw.Write([]string{
			strconv.Itoa(e.Rank),
			e.EntityID,
			strconv.FormatFloat(e.Total, 'f', -1, 64),
			strconv.FormatInt(e.Count, 10),
			minutes,
			per90,
		})
	}
	cw.Flush()
}
