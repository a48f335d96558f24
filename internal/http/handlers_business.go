package http

import (
	"net/http"

	"rentabilidad/internal/services"
)

type createBusinessRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type selectBusinessRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListBusinesses(r.Context())
	if err != nil {
		writeError(w, r, "list_businesses", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, services.OpBusinessCreated, err)
		return
	}
	b, err := s.svc.CreateBusiness(r.Context(), sanitizeInput(req.Name), sanitizeInput(req.Description))
	if err != nil {
		writeError(w, r, services.OpBusinessCreated, err)
		return
	}
	w.Header().Set("Location", "/api/businesses/"+b.ID)
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.GetBusiness(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "get_business", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBusiness(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteBusiness(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, services.OpBusinessDeleted, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.CurrentBusiness(r.Context())
	if err != nil {
		writeError(w, r, "current_business", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSelectBusiness(w http.ResponseWriter, r *http.Request) {
	var req selectBusinessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "select_business", err)
		return
	}
	b, err := s.svc.SelectBusiness(r.Context(), req.ID)
	if err != nil {
		writeError(w, r, "select_business", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
