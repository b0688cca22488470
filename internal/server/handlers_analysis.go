package server

import (
	"net/http"
)

// reportRequest is the body for POST /api/analysis/report.
type reportRequest struct {
	Company string `json:"company"`
}

// scenarioRequest is the body for POST /api/analysis/scenario.
type scenarioRequest struct {
	Scenario string `json:"scenario"`
}

func (s *Server) handleAnalysisReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req reportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	summary, err := s.app.AnalysisService.SummarizeReport(r.Context(), req.Company)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAnalysisScenario(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req scenarioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	impact, err := s.app.AnalysisService.PlanScenario(r.Context(), req.Scenario)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, impact)
}

func (s *Server) handleAnalysisRadar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	alerts, err := s.app.AnalysisService.ScanOpportunities(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, alerts)
}
