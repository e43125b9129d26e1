package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.ScenarioQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("scenario", query.Scenario), zap.Int("top_k", query.TopK))
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var query models.ScenarioQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("analyze request", zap.String("scenario", query.Scenario), zap.String("mode", string(query.Mode)))
	result, err := s.engine.Analyze(r.Context(), query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("law")
	mode := models.AnalysisMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = models.ModeLocal
	}
	if mode != models.ModeLocal && mode != models.ModeExternal {
		s.respondError(w, http.StatusBadRequest, "unknown analysis mode")
		return
	}
	result, err := s.engine.Summarize(r.Context(), subject, mode)
	if err != nil {
		s.logger.Error("summary failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// statuteSummary is the list representation of a stored statute.
type statuteSummary struct {
	Title    string `json:"title"`
	Keyword  string `json:"keyword,omitempty"`
	URL      string `json:"url,omitempty"`
	Articles int    `json:"articles"`
}

func (s *Server) handleStatutes(w http.ResponseWriter, r *http.Request) {
	statutes := s.engine.Statutes()
	list := make([]statuteSummary, 0, len(statutes))
	for _, st := range statutes {
		list = append(list, statuteSummary{
			Title:    st.Title,
			Keyword:  st.Keyword,
			URL:      st.URL,
			Articles: len(st.Articles),
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"statutes": list,
		"total":    len(list),
	})
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		s.respondError(w, http.StatusServiceUnavailable, "collector not configured")
		return
	}
	var body struct {
		Keywords []string `json:"keywords"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	statutes, err := s.collector.Collect(r.Context(), body.Keywords)
	if err != nil {
		s.logger.Error("collection failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if err := s.store.SaveAll(r.Context(), statutes); err != nil {
		s.logger.Error("snapshot save failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.engine.Reload(r.Context()); err != nil {
		s.logger.Error("reload after collection failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "collected",
		"statutes": len(statutes),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reload(r.Context()); err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
