package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/dev", s.handleAuthDev)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)
	mux.HandleFunc("/api/auth/user", requireUser(s.handleAuthUser))

	// Investments
	mux.HandleFunc("/api/investments/", requireUser(s.routeInvestments))
	mux.HandleFunc("/api/investments", requireUser(s.handleInvestments))

	// Portfolio
	mux.HandleFunc("/api/portfolio/summary", requireUser(s.handlePortfolioSummary))
	mux.HandleFunc("/api/portfolio/holdings", requireUser(s.handlePortfolioHoldings))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": s.app.Storage.Backend(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.CurrentBuild())
}
