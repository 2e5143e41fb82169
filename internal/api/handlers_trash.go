package api

import (
	"net/http"
)

type trashItemRequest struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

// ListTrash returns the merged trash view across every registered table.
// Per-table failures are reported alongside the items, not as an error.
func (h *Handlers) ListTrash(w http.ResponseWriter, r *http.Request) {
	view, err := h.trash.List(r.Context(), h.ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// RestoreFromTrash reactivates a soft-deleted record.
func (h *Handlers) RestoreFromTrash(w http.ResponseWriter, r *http.Request) {
	var req trashItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ownerID := h.ownerID(r)

	if err := h.trash.Restore(r.Context(), ownerID, req.Table, req.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	h.recordActivity(r, ownerID, "record_restored", "Restored a record from trash")
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PurgeFromTrash permanently deletes a soft-deleted record.
func (h *Handlers) PurgeFromTrash(w http.ResponseWriter, r *http.Request) {
	var req trashItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.trash.PermanentDelete(r.Context(), h.ownerID(r), req.Table, req.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
