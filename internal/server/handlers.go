package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/internal/manifest"
)

type healthResponse struct {
	Status  string `json:"status"`
	Queries int    `json:"queries"`
}

type summaryResponse struct {
	Fingerprint string                  `json:"fingerprint"`
	Queries     int                     `json:"queries"`
	Statements  int                     `json:"statements"`
	Splits      []manifest.SplitSummary `json:"splits"`
}

type statementResponse struct {
	Index int    `json:"index"`
	Line  int    `json:"line"`
	SQL   string `json:"sql"`
}

type queryResponse struct {
	Path       string              `json:"path"`
	Split      string              `json:"split"`
	Category   string              `json:"category"`
	Difficulty string              `json:"difficulty"`
	ID         string              `json:"id"`
	Statements []statementResponse `json:"statements"`
	ExtraFiles []string            `json:"extra_files,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Queries: s.manifest.Queries,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{
		Fingerprint: s.manifest.Fingerprint,
		Queries:     s.manifest.Queries,
		Statements:  s.manifest.Statements,
		Splits:      s.manifest.Splits,
	})
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manifest.Splits)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.corpus.Categories())
}

// handleQueries lists manifest entries, optionally filtered by split,
// category, and difficulty, and truncated by limit.
func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	split := q.Get("split")
	category := q.Get("category")
	difficulty := q.Get("difficulty")

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	entries := make([]manifest.Entry, 0)
	for _, e := range s.manifest.Entries {
		if split != "" && e.Split != split {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		if difficulty != "" && e.Difficulty != difficulty {
			continue
		}
		entries = append(entries, e)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ref := corpus.Ref{
		Split:      corpus.Split(chi.URLParam(r, "split")),
		Category:   chi.URLParam(r, "category"),
		Difficulty: corpus.Difficulty(chi.URLParam(r, "difficulty")),
		ID:         chi.URLParam(r, "id"),
	}

	q, ok := s.corpus.Get(ref)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "query not found"})
		return
	}

	resp := queryResponse{
		Path:       q.FilePath,
		Split:      string(q.Split),
		Category:   q.Category,
		Difficulty: string(q.Difficulty),
		ID:         q.ID,
		ExtraFiles: q.ExtraFiles,
	}
	for _, st := range q.Statements {
		resp.Statements = append(resp.Statements, statementResponse{
			Index: st.Index,
			Line:  st.Line,
			SQL:   st.SQL,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
