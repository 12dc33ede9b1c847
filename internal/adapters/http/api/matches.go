// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/okian/regista/internal/domain/dedupe"
	"github.com/okian/regista/internal/domain/model"
)

// MatchDependencies defines the interface for match ingest dependencies.
type MatchDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, batch model.MatchBatch) bool
}

// MatchesHandler handles match batch submissions.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandlePostMatch handles POST /matches requests. Per-action problems do
// not reject the batch; broken records are skipped and tallied during the
// fold instead.
func (h *MatchesHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	var batch model.MatchBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if batch.MatchID == "" {
		batch.MatchID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), batch.MatchID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, MatchID: batch.MatchID})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), batch); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), batch.MatchID)
		writeError(w, http.StatusServiceUnavailable, "queue_full", NewKind(op, ErrQueueFull))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, MatchID: batch.MatchID})
}
