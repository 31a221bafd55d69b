package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
)

// routeInvestments dispatches /api/investments/{id}.
func (s *Server) routeInvestments(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/investments/", "")
	if id == "" {
		WriteErrorWithCode(w, http.StatusNotFound, "Investment not found", CodeNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleInvestmentGet(w, r, id)
	case http.MethodPut:
		s.handleInvestmentUpdate(w, r, id)
	case http.MethodDelete:
		s.handleInvestmentDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleInvestments handles GET and POST /api/investments.
func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleInvestmentList(w, r)
	case http.MethodPost:
		s.handleInvestmentCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleInvestmentList(w http.ResponseWriter, r *http.Request) {
	valued, err := s.app.InvestmentService.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "list investments")
		return
	}

	out := make([]investmentResponse, len(valued))
	for i, v := range valued {
		out[i] = newInvestmentResponse(v)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"investments": out,
	})
}

func (s *Server) handleInvestmentCreate(w http.ResponseWriter, r *http.Request) {
	var input models.InvestmentInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	v, err := s.app.InvestmentService.Create(r.Context(), &input)
	if err != nil {
		s.writeServiceError(w, r, err, "create investment")
		return
	}
	WriteJSON(w, http.StatusCreated, newInvestmentResponse(v))
}

func (s *Server) handleInvestmentGet(w http.ResponseWriter, r *http.Request, id string) {
	v, err := s.app.InvestmentService.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "get investment")
		return
	}
	WriteJSON(w, http.StatusOK, newInvestmentResponse(v))
}

func (s *Server) handleInvestmentUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var input models.InvestmentInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	v, err := s.app.InvestmentService.Update(r.Context(), id, &input)
	if err != nil {
		s.writeServiceError(w, r, err, "update investment")
		return
	}
	WriteJSON(w, http.StatusOK, newInvestmentResponse(v))
}

func (s *Server) handleInvestmentDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.app.InvestmentService.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "delete investment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
