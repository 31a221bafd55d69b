package server

import "net/http"

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "compute portfolio summary")
		return
	}
	WriteJSON(w, http.StatusOK, newSummaryResponse(summary))
}

// handlePortfolioHoldings handles GET /api/portfolio/holdings.
func (s *Server) handlePortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rows, err := s.app.PortfolioService.Holdings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "list holdings")
		return
	}

	out := make([]holdingResponse, len(rows))
	for i, row := range rows {
		out[i] = holdingResponse{
			investmentResponse: newInvestmentResponse(&row.ValuedInvestment),
			Weight:             row.Weight,
		}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": out,
	})
}
