package server

import (
	"net/http"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/models"
)

// handlePortfolioRoot handles GET /api/portfolio (list) and POST /api/portfolio (create).
func (s *Server) handlePortfolioRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePortfolioList(w, r)
	case http.MethodPost:
		s.handlePortfolioCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	investments, err := s.app.PortfolioService.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"investments": investments,
		"count":       len(investments),
	})
}

func (s *Server) handlePortfolioCreate(w http.ResponseWriter, r *http.Request) {
	var draft models.InvestmentDraft
	if !DecodeJSON(w, r, &draft) {
		return
	}

	id, err := s.app.PortfolioService.Create(r.Context(), &draft)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handlePortfolioItem handles PATCH and DELETE on /api/portfolio/{id}.
func (s *Server) handlePortfolioItem(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPatch:
		var patch models.InvestmentPatch
		if !DecodeJSON(w, r, &patch) {
			return
		}
		if err := s.app.PortfolioService.Update(r.Context(), id, &patch); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
	case http.MethodDelete:
		if err := s.app.PortfolioService.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
	default:
		RequireMethod(w, r, http.MethodPatch, http.MethodDelete)
	}
}

// handleGoal handles GET /api/goal and PUT /api/goal. An unset goal reads as
// null rather than 404 so the dashboard can render its empty state.
func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goal, err := s.app.PortfolioService.Goal(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"goal": goal})
	case http.MethodPut:
		var draft models.GoalDraft
		if !DecodeJSON(w, r, &draft) {
			return
		}
		goal, err := s.app.PortfolioService.SaveGoal(r.Context(), &draft)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"goal": goal})
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handleMetrics handles GET /api/metrics. The total is also rendered in the
// caller's display currency so the dashboard never converts client-side.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	metrics, err := s.app.PortfolioService.Metrics(ctx)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	code := common.ResolveDisplayCurrency(ctx, s.app.Config.DisplayCurrency)
	totalDisplay, err := s.app.Currency.Format(metrics.TotalValue, code)
	if err != nil {
		// Unknown display currency preference falls back to the config default.
		code = s.app.Config.DisplayCurrency
		totalDisplay, _ = s.app.Currency.Format(metrics.TotalValue, code)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":             metrics,
		"display_currency":    code,
		"total_value_display": totalDisplay,
	})
}
