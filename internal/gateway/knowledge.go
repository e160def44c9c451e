package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/concierge-chat/concierge/internal/knowledge"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleListKnowledge returns all entries, optionally filtered by the
// "category" query parameter.
func (g *Gateway) handleListKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("category"); raw != "" {
			cat, err := knowledge.ParseCategory(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, g.store.ByCategory(cat))
			return
		}
		writeJSON(w, http.StatusOK, g.store.All())
	}
}

func (g *Gateway) handleAddKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n knowledge.NewEntry
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		entry, err := g.store.Add(n)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.logger.Info("knowledge entry added", "id", entry.ID, "category", entry.Category)
		writeJSON(w, http.StatusCreated, entry)
	}
}

// handleSearchKnowledge runs the ranking pipeline over the store. Query
// parameters: q (required), category, limit, min_score.
func (g *Gateway) handleSearchKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		opts := knowledge.DefaultSearchOptions()
		if raw := r.URL.Query().Get("category"); raw != "" {
			cat, err := knowledge.ParseCategory(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			opts.Category = &cat
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			opts.Limit = n
		}
		if raw := r.URL.Query().Get("min_score"); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || f < 0 {
				writeError(w, http.StatusBadRequest, "min_score must be a non-negative number")
				return
			}
			opts.MinScore = f
		}

		writeJSON(w, http.StatusOK, g.searcher.Search(q, opts))
	}
}

func (g *Gateway) handleKnowledgeStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, g.store.Stats())
	}
}

// handleImportKnowledge bulk-loads entries from a JSON array. Invalid
// entries are skipped, not fatal; the report says how many of each.
func (g *Gateway) handleImportKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entries []knowledge.NewEntry
		if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		report := g.store.BulkImport(entries)
		g.logger.Info("knowledge import", "imported", report.Imported, "skipped", report.Skipped)
		writeJSON(w, http.StatusOK, report)
	}
}

func (g *Gateway) handleExportKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, g.store.Export())
	}
}

func (g *Gateway) handleGetKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		entry, ok := g.store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

type patchPayload struct {
	Category *string   `json:"category,omitempty"`
	Question *string   `json:"question,omitempty"`
	Answer   *string   `json:"answer,omitempty"`
	Keywords *[]string `json:"keywords,omitempty"`
}

func (g *Gateway) handleUpdateKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body patchPayload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		patch := knowledge.Patch{
			Question: body.Question,
			Answer:   body.Answer,
			Keywords: body.Keywords,
		}
		if body.Category != nil {
			cat, err := knowledge.ParseCategory(*body.Category)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			patch.Category = &cat
		}

		entry, err := g.store.Update(id, patch)
		switch {
		case errors.Is(err, knowledge.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeJSON(w, http.StatusOK, entry)
		}
	}
}

func (g *Gateway) handleDeleteKnowledge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !g.store.Delete(id) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		g.logger.Info("knowledge entry deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
