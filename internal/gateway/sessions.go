package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/pkg/chat"
)

type sessionSummary struct {
	ID            string      `json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	LastActiveAt  time.Time   `json:"last_active_at"`
	Messages      int         `json:"messages"`
	CurrentIntent chat.Intent `json:"current_intent,omitempty"`
}

func (g *Gateway) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries := make([]sessionSummary, 0, g.sessions.Len())
		g.sessions.Range(func(sctx *session.Context) bool {
			summaries = append(summaries, sessionSummary{
				ID:            sctx.ID,
				CreatedAt:     sctx.CreatedAt,
				LastActiveAt:  sctx.LastActiveAt,
				Messages:      len(sctx.Messages),
				CurrentIntent: sctx.CurrentIntent,
			})
			return true
		})
		writeJSON(w, http.StatusOK, summaries)
	}
}

// handleSessionTranscript returns the persisted message history for a
// session. 404 when transcript persistence is not configured.
func (g *Gateway) handleSessionTranscript() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.transcripts == nil {
			writeError(w, http.StatusNotFound, "transcript persistence is not enabled")
			return
		}

		id := chi.URLParam(r, "id")
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		msgs, err := g.transcripts.Recent(id, limit)
		if err != nil {
			g.logger.Error("transcript read failed", "session", id, "error", err)
			writeError(w, http.StatusInternalServerError, "transcript read failed")
			return
		}
		if msgs == nil {
			msgs = []chat.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// handleDeleteSession removes the in-memory context and, when transcripts
// are enabled, the persisted history.
func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if g.sessions.Get(id) == nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		g.sessions.Delete(id)
		if g.transcripts != nil {
			if err := g.transcripts.Purge(id); err != nil {
				g.logger.Warn("transcript purge failed", "session", id, "error", err)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
