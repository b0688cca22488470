// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"

	"github.com/rgower/vantage/internal/models"
)

// PortfolioService exposes portfolio state and mutations for the current
// user. The user scope is resolved from the request context; services never
// read it from ambient globals.
type PortfolioService interface {
	// List returns the current normalized investment set.
	List(ctx context.Context) ([]models.Investment, error)

	// Create validates a draft and writes a new investment, returning its id.
	Create(ctx context.Context, draft *models.InvestmentDraft) (string, error)

	// Update validates a partial patch and merge-writes it to the record.
	Update(ctx context.Context, id string, patch *models.InvestmentPatch) error

	// Delete removes an investment; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Goal returns the savings goal, or (nil, nil) when none is set.
	Goal(ctx context.Context) (*models.Goal, error)

	// SaveGoal validates and replaces the savings goal wholesale.
	SaveGoal(ctx context.Context, draft *models.GoalDraft) (*models.Goal, error)

	// Metrics recomputes derived portfolio aggregates from current state.
	Metrics(ctx context.Context) (*models.PortfolioMetrics, error)

	// Subscribe begins the investment and goal watches for the current user.
	Subscribe(ctx context.Context) (Subscription, error)
}

// AnalysisService exposes the three AI analysis features. Each call issues at
// most one AI request; failures are returned as values, never panicked.
type AnalysisService interface {
	// SummarizeReport produces an annual-report style company summary.
	SummarizeReport(ctx context.Context, company string) (*models.ReportSummary, error)

	// PlanScenario estimates the impact of a free-text scenario on the
	// current portfolio.
	PlanScenario(ctx context.Context, scenario string) (*models.ScenarioImpact, error)

	// ScanOpportunities suggests diversification opportunities from the
	// current holdings.
	ScanOpportunities(ctx context.Context) (*models.RadarAlerts, error)
}
