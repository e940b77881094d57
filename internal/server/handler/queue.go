package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/storage"
)

// QueueHandler exposes the review queue to the admin UI: listing flagged
// items and resolving them.
type QueueHandler struct {
	store  storage.Store
	logger *slog.Logger
}

func NewQueueHandler(store storage.Store, logger *slog.Logger) *QueueHandler {
	return &QueueHandler{store: store, logger: logger}
}

// List returns queue items newest-first, optionally filtered by status.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	status := core.ReviewStatus(r.URL.Query().Get("status"))
	switch status {
	case "", core.StatusPending, core.StatusApproved, core.StatusRejected:
	default:
		respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := h.store.ListReviewQueueItems(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list review queue", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list review queue")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

type resolveRequest struct {
	ReviewedBy string `json:"reviewed_by"`
	Notes      string `json:"notes"`
}

// Approve resolves a queue item as approved. When the item refers to a
// pending business, the submission is also promoted into the live catalog.
// Resolution and promotion are not transactionally linked: a failed
// promotion leaves the item approved and is only logged.
func (h *QueueHandler) Approve(w http.ResponseWriter, r *http.Request) {
	item, ok := h.resolve(w, r, core.StatusApproved)
	if !ok {
		return
	}

	if item.ItemType == core.ItemTypeBusiness {
		if _, err := h.store.PublishPendingBusiness(r.Context(), item.ItemID); err != nil {
			h.logger.Error("approved business could not be published",
				"queue_id", item.ID,
				"business_id", item.ItemID,
				"error", err,
			)
		}
	}

	respondJSON(w, http.StatusOK, item)
}

// Reject resolves a queue item as rejected. The underlying content is not
// touched; removal is a separate admin action outside this subsystem.
func (h *QueueHandler) Reject(w http.ResponseWriter, r *http.Request) {
	item, ok := h.resolve(w, r, core.StatusRejected)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *QueueHandler) resolve(w http.ResponseWriter, r *http.Request, status core.ReviewStatus) (*core.ReviewQueueItem, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid queue item id")
		return nil, false
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.ReviewedBy == "" {
		respondError(w, http.StatusBadRequest, "reviewed_by is required")
		return nil, false
	}

	item, err := h.store.ResolveReviewQueueItem(r.Context(), id, status, req.ReviewedBy, req.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "queue item not found")
			return nil, false
		}
		h.logger.Error("failed to resolve queue item", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to resolve queue item")
		return nil, false
	}

	h.logger.Info("review queue item resolved",
		"queue_id", item.ID,
		"status", status,
		"reviewed_by", req.ReviewedBy,
	)
	return item, true
}
