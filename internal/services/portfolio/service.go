// Package portfolio provides portfolio state management services
package portfolio

import (
	"context"
	"fmt"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
)

// Service implements PortfolioService on top of the remote store. The user
// scope for every call comes from the request context.
type Service struct {
	store  interfaces.PortfolioStore
	logger *common.Logger
}

// NewService creates a new portfolio service
func NewService(store interfaces.PortfolioStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]models.Investment, error) {
	return s.store.ListInvestments(ctx, common.ResolveUserID(ctx))
}

func (s *Service) Create(ctx context.Context, draft *models.InvestmentDraft) (string, error) {
	inv, err := draft.Parse()
	if err != nil {
		return "", err
	}

	userID := common.ResolveUserID(ctx)
	id, err := s.store.CreateInvestment(ctx, userID, inv)
	if err != nil {
		return "", fmt.Errorf("failed to create investment: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("id", id).
		Str("ticker", inv.Ticker).
		Msg("Investment created")

	return id, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *models.InvestmentPatch) error {
	fields, err := patch.Fields()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return &models.ValidationError{Field: "patch", Reason: "no fields to update"}
	}

	userID := common.ResolveUserID(ctx)
	if err := s.store.UpdateInvestment(ctx, userID, id, fields); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("id", id).
		Int("fields", len(fields)).
		Msg("Investment updated")

	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)
	if err := s.store.DeleteInvestment(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("id", id).
		Msg("Investment deleted")

	return nil
}

func (s *Service) Goal(ctx context.Context) (*models.Goal, error) {
	return s.store.GetGoal(ctx, common.ResolveUserID(ctx))
}

func (s *Service) SaveGoal(ctx context.Context, draft *models.GoalDraft) (*models.Goal, error) {
	goal, err := draft.Parse()
	if err != nil {
		return nil, err
	}

	userID := common.ResolveUserID(ctx)
	if err := s.store.SaveGoal(ctx, userID, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Float64("amount", goal.GoalAmount).
		Msg("Goal saved")

	return goal, nil
}

func (s *Service) Metrics(ctx context.Context) (*models.PortfolioMetrics, error) {
	investments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMetrics(investments), nil
}

func (s *Service) Subscribe(ctx context.Context) (interfaces.Subscription, error) {
	return s.store.Subscribe(ctx, common.ResolveUserID(ctx))
}

// Compile-time check
var _ interfaces.PortfolioService = (*Service)(nil)
