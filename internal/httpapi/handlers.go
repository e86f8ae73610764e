package httpapi

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleBaseEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := s.store.LoadBaseEnvironment(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.store.ListClasses(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	className := r.PathValue("className")
	selectors, ok, err := s.store.ListMethodSelectors(r.Context(), className)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"methods": selectors})
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	className := r.PathValue("className")
	selector := r.PathValue("selector")
	m, ok, err := s.store.GetMethod(r.Context(), className, selector)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selector":  m.Selector,
		"arguments": m.ArgNames,
		"body":      m.Body,
	})
}

type saveMethodRequest struct {
	ClassName string   `json:"className"`
	Selector  string   `json:"selector"`
	Arguments []string `json:"arguments"`
	Body      any      `json:"body"`
}

func (s *Server) handleSaveMethod(w http.ResponseWriter, r *http.Request) {
	var req saveMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ClassName == "" || req.Selector == "" {
		s.writeError(w, http.StatusBadRequest, errBadSaveRequest)
		return
	}

	_, existed, err := s.store.GetMethod(r.Context(), req.ClassName, req.Selector)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.store.SaveMethod(r.Context(), toStoredMethod(req)); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"className": req.ClassName,
		"selector":  req.Selector,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
