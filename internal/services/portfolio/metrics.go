package portfolio

import "github.com/rgower/vantage/internal/models"

// ComputeMetrics derives portfolio-level aggregates from the current
// investment set. Pure: recomputed in full on every call, no cached state.
// Inputs are guaranteed finite by snapshot normalization, so there are no
// error conditions here.
func ComputeMetrics(investments []models.Investment) *models.PortfolioMetrics {
	metrics := &models.PortfolioMetrics{
		Holdings: make([]models.HoldingMetrics, 0, len(investments)),
	}

	for _, inv := range investments {
		marketValue := inv.Quantity * inv.CurrentPrice
		profitLoss := marketValue - inv.Quantity*inv.BuyPrice

		metrics.TotalValue += marketValue
		metrics.Holdings = append(metrics.Holdings, models.HoldingMetrics{
			ID:          inv.ID,
			MarketValue: marketValue,
			ProfitLoss:  profitLoss,
			// Breaking even counts as profit
			IsProfit: profitLoss >= 0,
		})
	}

	return metrics
}
