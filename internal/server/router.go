package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/citypages/sentinel/internal/moderation"
	"github.com/citypages/sentinel/internal/server/handler"
	"github.com/citypages/sentinel/internal/storage"
)

// NewRouter creates and configures a new HTTP router with middleware and
// API routes.
//
// Moderation endpoints run synchronously: the platform's CRUD layer calls
// them while creating content, so creation latency includes one
// classification round trip (more when retried). The write timeout and
// the per-request middleware timeout leave room for the retry budget.
func NewRouter(svc *moderation.Service, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		queueHandler := handler.NewQueueHandler(store, logger)
		r.Get("/review-queue", queueHandler.List)
		r.Post("/review-queue/{id}/approve", queueHandler.Approve)
		r.Post("/review-queue/{id}/reject", queueHandler.Reject)

		moderateHandler := handler.NewModerateHandler(svc, store, logger)
		r.Post("/moderate/article", moderateHandler.Article)
		r.Post("/moderate/howto", moderateHandler.HowTo)
		r.Post("/moderate/post", moderateHandler.Post)
		r.Post("/moderate/batch", moderateHandler.Batch)
		r.Post("/businesses", moderateHandler.SubmitBusiness)
	})

	return r
}
