package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
)

// Service implements the three AI analysis features. Each feature owns a
// dedicated orchestrator so single-flight and supersession apply per call
// site, exactly like three independent panels in a dashboard.
type Service struct {
	portfolio interfaces.PortfolioService
	logger    *common.Logger

	reportOrch   *Orchestrator
	scenarioOrch *Orchestrator
	radarOrch    *Orchestrator
}

// NewService creates a new analysis service
func NewService(portfolio interfaces.PortfolioService, client interfaces.GenAIClient, logger *common.Logger) *Service {
	return &Service{
		portfolio:    portfolio,
		logger:       logger,
		reportOrch:   NewOrchestrator(client, logger),
		scenarioOrch: NewOrchestrator(client, logger),
		radarOrch:    NewOrchestrator(client, logger),
	}
}

// SummarizeReport produces an annual-report style company summary.
func (s *Service) SummarizeReport(ctx context.Context, company string) (*models.ReportSummary, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, &models.ValidationError{Field: "company", Reason: "company name is required"}
	}

	raw, err := s.reportOrch.Run(ctx, models.AnalysisReportSummary, buildReportPrompt(company), reportSchema())
	if err != nil {
		return nil, err
	}

	var summary models.ReportSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode validated report summary: %w", err)
	}

	s.logger.Info().Str("company", company).Msg("Report summary generated")
	return &summary, nil
}

// PlanScenario estimates the impact of a free-text scenario on the current
// portfolio. The portfolio summary is snapshotted at request time.
func (s *Service) PlanScenario(ctx context.Context, scenario string) (*models.ScenarioImpact, error) {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return nil, &models.ValidationError{Field: "scenario", Reason: "scenario text is required"}
	}

	investments, err := s.portfolio.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot portfolio: %w", err)
	}
	if len(investments) == 0 {
		return nil, &models.ValidationError{Field: "portfolio", Reason: "no investments to analyze"}
	}

	summary := make([]models.HoldingSummary, 0, len(investments))
	totalValue := 0.0
	for _, inv := range investments {
		value := inv.Quantity * inv.CurrentPrice
		totalValue += value
		summary = append(summary, models.HoldingSummary{
			Name:   inv.Name,
			Ticker: inv.Ticker,
			Value:  value,
			Type:   inv.AssetType,
		})
	}

	raw, err := s.scenarioOrch.Run(ctx, models.AnalysisScenarioImpact, buildScenarioPrompt(scenario, summary, totalValue), scenarioSchema())
	if err != nil {
		return nil, err
	}

	var impact models.ScenarioImpact
	if err := json.Unmarshal(raw, &impact); err != nil {
		return nil, fmt.Errorf("failed to decode validated scenario impact: %w", err)
	}

	s.logger.Info().
		Float64("current_value", totalValue).
		Float64("estimated_value", impact.EstimatedNewValue).
		Msg("Scenario impact generated")
	return &impact, nil
}

// ScanOpportunities suggests diversification opportunities from the current
// holdings. An empty portfolio short-circuits locally without an AI call.
func (s *Service) ScanOpportunities(ctx context.Context) (*models.RadarAlerts, error) {
	investments, err := s.portfolio.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot portfolio: %w", err)
	}

	if len(investments) == 0 {
		return &models.RadarAlerts{Alerts: []models.RadarAlert{{
			Title:       "Add investments",
			Description: "No portfolio to scan.",
		}}}, nil
	}

	holdings := make([]models.RadarHolding, 0, len(investments))
	for _, inv := range investments {
		holdings = append(holdings, models.RadarHolding{
			Ticker:    inv.Ticker,
			AssetType: inv.AssetType,
		})
	}

	raw, err := s.radarOrch.Run(ctx, models.AnalysisOpportunityRadar, buildRadarPrompt(holdings), radarSchema())
	if err != nil {
		return nil, err
	}

	var alerts models.RadarAlerts
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode validated radar alerts: %w", err)
	}

	s.logger.Info().Int("alerts", len(alerts.Alerts)).Msg("Opportunity radar generated")
	return &alerts, nil
}

// Compile-time check
var _ interfaces.AnalysisService = (*Service)(nil)
