package surrealdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
)

// PortfolioStore holds the authoritative per-user investment set and goal
// document in SurrealDB. Writes go straight through to the store; local state
// is only ever observed via snapshots, so there is no optimistic echo.
type PortfolioStore struct {
	db           *surrealdb.DB
	logger       *common.Logger
	pollInterval time.Duration

	mu   sync.Mutex
	subs map[*subscription]string // active subscription -> userID
}

func NewPortfolioStore(db *surrealdb.DB, logger *common.Logger, pollInterval time.Duration) *PortfolioStore {
	return &PortfolioStore{
		db:           db,
		logger:       logger,
		pollInterval: pollInterval,
		subs:         make(map[*subscription]string),
	}
}

// investmentRecord is the raw stored shape. Numeric fields decode as any so
// that partially-written or legacy records normalize instead of failing the
// whole snapshot.
type investmentRecord struct {
	UserID       string `json:"user_id"`
	Key          string `json:"key"`
	Name         any    `json:"name"`
	Ticker       any    `json:"ticker"`
	Quantity     any    `json:"quantity"`
	BuyPrice     any    `json:"buyPrice"`
	CurrentPrice any    `json:"currentPrice"`
	AssetType    any    `json:"assetType"`
	Sector       any    `json:"sector"`
}

func (r *investmentRecord) normalize() models.Investment {
	fields := map[string]any{
		"name":      r.Name,
		"ticker":    r.Ticker,
		"quantity":  r.Quantity,
		"buyPrice":  r.BuyPrice,
		"assetType": r.AssetType,
		"sector":    r.Sector,
	}
	if r.CurrentPrice != nil {
		fields["currentPrice"] = r.CurrentPrice
	}
	return models.NormalizeInvestment(r.Key, fields)
}

// goalRecord is the raw stored goal document.
type goalRecord struct {
	UserID     string `json:"user_id"`
	Key        string `json:"key"`
	GoalAmount any    `json:"goalAmount"`
	TargetDate any    `json:"targetDate"`
}

func (r *goalRecord) normalize() *models.Goal {
	target, _ := r.TargetDate.(string)
	return &models.Goal{
		GoalAmount: models.ToNumber(r.GoalAmount),
		TargetDate: target,
	}
}

func investmentRID(userID, id string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("investment", userID+"_"+id)
}

func goalRID(userID string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("goal", userID+"_"+models.GoalKey)
}

func (s *PortfolioStore) ListInvestments(ctx context.Context, userID string) ([]models.Investment, error) {
	sql := "SELECT * FROM investment WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]investmentRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	var investments []models.Investment
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			investments = append(investments, (*results)[0].Result[i].normalize())
		}
	}

	// Stable order keeps snapshots comparable
	sort.Slice(investments, func(i, j int) bool {
		return investments[i].ID < investments[j].ID
	})

	return investments, nil
}

func (s *PortfolioStore) GetInvestment(ctx context.Context, userID, id string) (*models.Investment, error) {
	record, err := surrealdb.Select[investmentRecord](ctx, s.db, investmentRID(userID, id))
	if err != nil {
		if isNotFoundError(err) {
			return nil, &models.NotFoundError{Resource: "investment", ID: id}
		}
		return nil, fmt.Errorf("failed to select investment: %w", err)
	}
	if record == nil || record.Key == "" {
		return nil, &models.NotFoundError{Resource: "investment", ID: id}
	}
	inv := record.normalize()
	return &inv, nil
}

func (s *PortfolioStore) CreateInvestment(ctx context.Context, userID string, inv *models.Investment) (string, error) {
	id := uuid.New().String()

	record := map[string]any{
		"user_id":      userID,
		"key":          id,
		"name":         inv.Name,
		"ticker":       inv.Ticker,
		"quantity":     inv.Quantity,
		"buyPrice":     inv.BuyPrice,
		"currentPrice": inv.CurrentPrice,
		"assetType":    inv.AssetType,
		"sector":       inv.Sector,
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": investmentRID(userID, id), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]investmentRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.notify(userID, models.WatchInvestments)
			return id, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("failed to create investment after retries: %w", lastErr)
}

func (s *PortfolioStore) UpdateInvestment(ctx context.Context, userID, id string, fields map[string]any) error {
	// Existence is checked at write time against the remote store, not from
	// any local cache.
	if _, err := s.GetInvestment(ctx, userID, id); err != nil {
		return err
	}

	sql := "UPDATE $rid MERGE $fields"
	vars := map[string]any{"rid": investmentRID(userID, id), "fields": fields}

	if _, err := surrealdb.Query[[]investmentRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	s.notify(userID, models.WatchInvestments)
	return nil
}

func (s *PortfolioStore) DeleteInvestment(ctx context.Context, userID, id string) error {
	_, err := surrealdb.Delete[investmentRecord](ctx, s.db, investmentRID(userID, id))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	s.notify(userID, models.WatchInvestments)
	return nil
}

func (s *PortfolioStore) GetGoal(ctx context.Context, userID string) (*models.Goal, error) {
	record, err := surrealdb.Select[goalRecord](ctx, s.db, goalRID(userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select goal: %w", err)
	}
	if record == nil || record.Key == "" {
		return nil, nil // no goal set is a valid state
	}
	return record.normalize(), nil
}

func (s *PortfolioStore) SaveGoal(ctx context.Context, userID string, goal *models.Goal) error {
	record := map[string]any{
		"user_id":    userID,
		"key":        models.GoalKey,
		"goalAmount": goal.GoalAmount,
		"targetDate": goal.TargetDate,
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": goalRID(userID), "record": record}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]goalRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.notify(userID, models.WatchGoal)
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save goal after retries: %w", lastErr)
}

// Subscribe starts the two per-user watches. The watches run until
// Unsubscribe regardless of the setup context's lifetime.
func (s *PortfolioStore) Subscribe(ctx context.Context, userID string) (interfaces.Subscription, error) {
	watchCtx, cancel := context.WithCancel(context.Background())

	var sub *subscription
	sub = newSubscription(cancel, func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.subs[sub] = userID
	s.mu.Unlock()

	go runWatch(watchCtx, sub, models.WatchInvestments, s.pollInterval, sub.nudgeInv, func(ctx context.Context) (models.WatchEvent, error) {
		investments, err := s.ListInvestments(ctx, userID)
		if err != nil {
			return models.WatchEvent{}, err
		}
		return models.WatchEvent{Kind: models.WatchInvestments, Investments: investments}, nil
	})

	go runWatch(watchCtx, sub, models.WatchGoal, s.pollInterval, sub.nudgeGoal, func(ctx context.Context) (models.WatchEvent, error) {
		goal, err := s.GetGoal(ctx, userID)
		if err != nil {
			return models.WatchEvent{}, err
		}
		return models.WatchEvent{Kind: models.WatchGoal, Goal: goal}, nil
	})

	s.logger.Debug().Str("user_id", userID).Msg("Portfolio subscription started")

	return sub, nil
}

// notify nudges every active subscription for the user so the affected watch
// re-polls immediately after a write.
func (s *PortfolioStore) notify(userID string, kind models.WatchKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub, owner := range s.subs {
		if owner == userID {
			sub.nudge(kind)
		}
	}
}

// Compile-time check
var _ interfaces.PortfolioStore = (*PortfolioStore)(nil)
