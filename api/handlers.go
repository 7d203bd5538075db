package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"newsrag/feed"
	"newsrag/rag"
)

type IngestRequest struct {
	URL string `json:"url"`
}

type IngestResponse struct {
	Articles int `json:"articles"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
	Chunks   int `json:"chunks"`
}

type QueryRequest struct {
	Query string `json:"query"`
	Model string `json:"model,omitempty"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	// Body is optional: no body or empty object means "all configured feeds".
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.ingester.Ingest(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("ingest failed", zap.String("url", req.URL), zap.Error(err))
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			http.Error(w, fetchErr.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Articles: result.Articles,
		Skipped:  result.Skipped,
		Failures: result.Failures,
		Chunks:   result.Chunks,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	answer, err := s.querier.Query(r.Context(), req.Query, req.Model)
	if err != nil {
		s.logger.Error("query failed", zap.String("query", req.Query), zap.Error(err))
		var genErr *rag.GenerationError
		if errors.As(err, &genErr) {
			http.Error(w, genErr.Error(), http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:  answer.Text,
		Sources: answer.Sources,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
