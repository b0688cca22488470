package models

// AnalysisKind identifies one of the AI analysis features.
type AnalysisKind string

const (
	AnalysisReportSummary    AnalysisKind = "report-summary"
	AnalysisScenarioImpact   AnalysisKind = "scenario-impact"
	AnalysisOpportunityRadar AnalysisKind = "opportunity-radar"
)

// ReportSummary is the validated result of a report-summary analysis.
type ReportSummary struct {
	CompanyName     string   `json:"companyName"`
	BusinessSummary string   `json:"businessSummary"`
	GrowthDrivers   []string `json:"growthDrivers"`
	KeyRisks        []string `json:"keyRisks"`
	RedFlags        []string `json:"redFlags"`
}

// ScenarioImpact is the validated result of a scenario-impact analysis.
type ScenarioImpact struct {
	ScenarioTitle     string            `json:"scenarioTitle"`
	OverallImpact     string            `json:"overallImpact"`
	EstimatedNewValue float64           `json:"estimatedNewValue"`
	ImpactedHoldings  []ImpactedHolding `json:"impactedHoldings"`
}

// ImpactedHolding is one holding's estimated reaction to a scenario.
type ImpactedHolding struct {
	Name                      string  `json:"name"`
	Ticker                    string  `json:"ticker"`
	EstimatedImpactPercentage float64 `json:"estimatedImpactPercentage"`
	Reasoning                 string  `json:"reasoning"`
}

// RadarAlerts is the validated result of an opportunity-radar analysis.
type RadarAlerts struct {
	Alerts []RadarAlert `json:"alerts"`
}

// RadarAlert is a single diversification suggestion.
type RadarAlert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnalysisResult is a tagged variant holding exactly one validated payload,
// identified by Kind. A result only exists once its payload passed schema
// validation in full.
type AnalysisResult struct {
	Kind     AnalysisKind    `json:"kind"`
	Report   *ReportSummary  `json:"report,omitempty"`
	Scenario *ScenarioImpact `json:"scenario,omitempty"`
	Radar    *RadarAlerts    `json:"radar,omitempty"`
}

// HoldingSummary is the per-holding snapshot serialized into scenario prompts.
type HoldingSummary struct {
	Name   string  `json:"name"`
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
	Type   string  `json:"type,omitempty"`
}

// RadarHolding is the reduced per-holding shape sent to the opportunity radar.
type RadarHolding struct {
	Ticker    string `json:"ticker"`
	AssetType string `json:"assetType,omitempty"`
}

// PortfolioMetrics holds derived portfolio-level aggregates. Recomputed in
// full from the current investment set on every call; never persisted.
type PortfolioMetrics struct {
	TotalValue float64          `json:"total_value"`
	Holdings   []HoldingMetrics `json:"holdings"`
}

// HoldingMetrics holds per-holding derived values.
type HoldingMetrics struct {
	ID          string  `json:"id"`
	MarketValue float64 `json:"market_value"`
	ProfitLoss  float64 `json:"profit_loss"`
	IsProfit    bool    `json:"is_profit"`
}
