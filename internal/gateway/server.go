package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public — no auth required.
	r.Get("/health", g.handleHealth())
	r.Get("/metrics", g.metrics.Handler().ServeHTTP)

	// Chat surface used by the embedded widget.
	r.Post("/chat", g.handleChat())
	r.Get("/ws/chat", g.handleWebsocket())

	// Admin endpoints — auth required. Not mounted if no auth configured.
	if g.cfg.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.cfg.Auth))
			r.Route("/api", func(r chi.Router) {
				r.Route("/knowledge", func(r chi.Router) {
					r.Get("/", g.handleListKnowledge())
					r.Post("/", g.handleAddKnowledge())
					r.Get("/search", g.handleSearchKnowledge())
					r.Get("/stats", g.handleKnowledgeStats())
					r.Post("/import", g.handleImportKnowledge())
					r.Get("/export", g.handleExportKnowledge())
					r.Get("/{id}", g.handleGetKnowledge())
					r.Patch("/{id}", g.handleUpdateKnowledge())
					r.Delete("/{id}", g.handleDeleteKnowledge())
				})
				r.Get("/sessions", g.handleListSessions())
				r.Get("/sessions/{id}/transcript", g.handleSessionTranscript())
				r.Delete("/sessions/{id}", g.handleDeleteSession())
			})
		})
	}

	return r
}
