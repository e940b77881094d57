package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/citypages/sentinel/internal/core"
	"github.com/citypages/sentinel/internal/moderation"
	"github.com/citypages/sentinel/internal/storage"
)

// ModerateHandler receives newly created content from the platform's CRUD
// layer and screens it synchronously: the CRUD layer awaits the response
// before answering the original creator.
type ModerateHandler struct {
	svc    *moderation.Service
	store  storage.Store
	logger *slog.Logger
}

func NewModerateHandler(svc *moderation.Service, store storage.Store, logger *slog.Logger) *ModerateHandler {
	return &ModerateHandler{svc: svc, store: store, logger: logger}
}

// Article screens a newly created article. A 204 means screening ran;
// whether the article was flagged is visible only in the review queue.
func (h *ModerateHandler) Article(w http.ResponseWriter, r *http.Request) {
	var a core.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil || a.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid article payload")
		return
	}

	if err := h.svc.ModerateArticle(r.Context(), &a); err != nil {
		h.logger.Error("article moderation failed", "article_id", a.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "moderation failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *ModerateHandler) HowTo(w http.ResponseWriter, r *http.Request) {
	var ht core.HowTo
	if err := json.NewDecoder(r.Body).Decode(&ht); err != nil || ht.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid how-to payload")
		return
	}

	if err := h.svc.ModerateHowTo(r.Context(), &ht); err != nil {
		h.logger.Error("how-to moderation failed", "howto_id", ht.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "moderation failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *ModerateHandler) Post(w http.ResponseWriter, r *http.Request) {
	var p core.Post
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid post payload")
		return
	}

	if err := h.svc.ModeratePost(r.Context(), &p); err != nil {
		h.logger.Error("post moderation failed", "post_id", p.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "moderation failed")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type batchRequest struct {
	Items []moderation.BatchItem `json:"items"`
}

// Batch classifies a burst of items with a bounded number of concurrent
// classifier calls. Verdicts come back in input order.
func (h *ModerateHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid batch payload")
		return
	}
	for _, item := range req.Items {
		if !item.ItemType.Valid() {
			respondError(w, http.StatusBadRequest, "invalid content_type: "+string(item.ItemType))
			return
		}
	}

	verdicts := h.svc.ModerateBatch(r.Context(), req.Items)
	respondJSON(w, http.StatusOK, map[string]any{"verdicts": verdicts})
}

type submitBusinessResponse struct {
	Business   *core.Business        `json:"business"`
	Validation core.ValidationResult `json:"validation"`
}

// SubmitBusiness stores a new pending listing, validates it, and returns
// the validation feedback to the submitter. The feedback is returned even
// when the listing was flagged for admin review.
func (h *ModerateHandler) SubmitBusiness(w http.ResponseWriter, r *http.Request) {
	var b core.Business
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "invalid business payload")
		return
	}
	if b.Name == "" || b.Location == "" {
		respondError(w, http.StatusBadRequest, "name and location are required")
		return
	}

	created, err := h.store.CreatePendingBusiness(r.Context(), &b)
	if err != nil {
		h.logger.Error("failed to store pending business", "name", b.Name, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store listing")
		return
	}

	result, err := h.svc.ValidatePendingBusiness(r.Context(), created)
	if err != nil {
		h.logger.Error("business validation failed", "business_id", created.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	respondJSON(w, http.StatusCreated, submitBusinessResponse{Business: created, Validation: result})
}
