package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/rgower/vantage/internal/models"
	"github.com/rgower/vantage/internal/schema"
)

// buildReportPrompt asks for an annual-report style company analysis.
func buildReportPrompt(company string) string {
	return fmt.Sprintf(
		`Act as a financial analyst. For the company %q, provide a business summary, `+
			`its main growth drivers, its key risks, and any red flags an investor should `+
			`know about. Respond with JSON only.`, company)
}

func reportSchema() *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"companyName":     schema.String(),
		"businessSummary": schema.String(),
		"growthDrivers":   schema.Array(schema.String()),
		"keyRisks":        schema.Array(schema.String()),
		"redFlags":        schema.Array(schema.String()),
	}, "companyName", "businessSummary", "growthDrivers", "keyRisks", "redFlags")
}

// buildScenarioPrompt carries the free-text scenario plus a snapshot of the
// portfolio taken at request time.
func buildScenarioPrompt(scenario string, summary []models.HoldingSummary, totalValue float64) string {
	payload, _ := json.Marshal(summary)
	return fmt.Sprintf(
		`Analyze this market scenario: %q. The portfolio holdings are: %s. `+
			`The current total portfolio value is $%.2f. Estimate the overall impact of `+
			`the scenario, the new total portfolio value, and the percentage impact on `+
			`each affected holding with reasoning. Respond with JSON only.`,
		scenario, payload, totalValue)
}

func scenarioSchema() *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"scenarioTitle":     schema.String(),
		"overallImpact":     schema.String(),
		"estimatedNewValue": schema.Number(),
		"impactedHoldings": schema.Array(schema.Object(map[string]*schema.Schema{
			"name":                      schema.String(),
			"ticker":                    schema.String(),
			"estimatedImpactPercentage": schema.Number(),
			"reasoning":                 schema.String(),
		}, "name", "ticker", "estimatedImpactPercentage", "reasoning")),
	}, "scenarioTitle", "overallImpact", "estimatedNewValue", "impactedHoldings")
}

// buildRadarPrompt sends only ticker and asset type per holding, enough for
// diversification suggestions without leaking position sizes.
func buildRadarPrompt(holdings []models.RadarHolding) string {
	payload, _ := json.Marshal(holdings)
	return fmt.Sprintf(
		`Given a portfolio holding these instruments: %s, suggest 2-3 diversification `+
			`opportunities as alerts with a short title and description each. `+
			`Respond with JSON only.`, payload)
}

func radarSchema() *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"alerts": schema.Array(schema.Object(map[string]*schema.Schema{
			"title":       schema.String(),
			"description": schema.String(),
		}, "title", "description")),
	}, "alerts")
}
