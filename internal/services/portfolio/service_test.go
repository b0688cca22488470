package portfolio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgower/vantage/internal/common"
	"github.com/rgower/vantage/internal/interfaces"
	"github.com/rgower/vantage/internal/models"
)

// fakeStore records calls and serves canned state.
type fakeStore struct {
	investments map[string][]models.Investment
	goals       map[string]*models.Goal

	createdUserID string
	updatedFields map[string]any
	deletedID     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		investments: make(map[string][]models.Investment),
		goals:       make(map[string]*models.Goal),
	}
}

func (f *fakeStore) ListInvestments(ctx context.Context, userID string) ([]models.Investment, error) {
	return f.investments[userID], nil
}

func (f *fakeStore) GetInvestment(ctx context.Context, userID, id string) (*models.Investment, error) {
	for _, inv := range f.investments[userID] {
		if inv.ID == id {
			return &inv, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "investment", ID: id}
}

func (f *fakeStore) CreateInvestment(ctx context.Context, userID string, inv *models.Investment) (string, error) {
	f.createdUserID = userID
	created := *inv
	created.ID = "generated-id"
	f.investments[userID] = append(f.investments[userID], created)
	return created.ID, nil
}

func (f *fakeStore) UpdateInvestment(ctx context.Context, userID, id string, fields map[string]any) error {
	if _, err := f.GetInvestment(ctx, userID, id); err != nil {
		return err
	}
	f.updatedFields = fields
	return nil
}

func (f *fakeStore) DeleteInvestment(ctx context.Context, userID, id string) error {
	f.deletedID = id
	return nil
}

func (f *fakeStore) GetGoal(ctx context.Context, userID string) (*models.Goal, error) {
	return f.goals[userID], nil
}

func (f *fakeStore) SaveGoal(ctx context.Context, userID string, goal *models.Goal) error {
	f.goals[userID] = goal
	return nil
}

func (f *fakeStore) Subscribe(ctx context.Context, userID string) (interfaces.Subscription, error) {
	return nil, nil
}

var _ interfaces.PortfolioStore = (*fakeStore)(nil)

func userCtx(userID string) context.Context {
	return common.WithUserContext(context.Background(), &common.UserContext{UserID: userID})
}

func TestServiceCreateValidatesDraft(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())

	_, err := svc.Create(context.Background(), &models.InvestmentDraft{
		Name: "Apple", Ticker: "AAPL", Quantity: "ten", BuyPrice: "150",
	})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)
	assert.Empty(t, store.createdUserID, "invalid draft must not reach the store")
}

func TestServiceCreateScopesToContextUser(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())

	id, err := svc.Create(userCtx("alice"), &models.InvestmentDraft{
		Name: "Apple", Ticker: "AAPL", Quantity: "10", BuyPrice: "150",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", id)
	assert.Equal(t, "alice", store.createdUserID)
}

func TestServiceCreateDefaultsUser(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())

	_, err := svc.Create(context.Background(), &models.InvestmentDraft{
		Name: "Apple", Ticker: "AAPL", Quantity: "10", BuyPrice: "150",
	})
	require.NoError(t, err)
	assert.Equal(t, "default", store.createdUserID)
}

func TestServiceUpdateRejectsEmptyPatch(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())

	err := svc.Update(context.Background(), "some-id", &models.InvestmentPatch{})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "patch", vErr.Field)
}

func TestServiceUpdateMissingRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())

	price := "175"
	err := svc.Update(context.Background(), "nope", &models.InvestmentPatch{CurrentPrice: &price})
	var nfErr *models.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "nope", nfErr.ID)
}

func TestServiceUpdateParsesNumericFields(t *testing.T) {
	store := newFakeStore()
	store.investments["default"] = []models.Investment{{ID: "inv-1"}}
	svc := NewService(store, common.NewSilentLogger())

	price := "175.5"
	require.NoError(t, svc.Update(context.Background(), "inv-1", &models.InvestmentPatch{CurrentPrice: &price}))
	assert.Equal(t, 175.5, store.updatedFields["currentPrice"])
}

func TestServiceGoalRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, common.NewSilentLogger())
	ctx := userCtx("bob")

	goal, err := svc.Goal(ctx)
	require.NoError(t, err)
	assert.Nil(t, goal, "unset goal reads as nil, not an error")

	saved, err := svc.SaveGoal(ctx, &models.GoalDraft{GoalAmount: "50000", TargetDate: "2030-06-01"})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, saved.GoalAmount)

	goal, err = svc.Goal(ctx)
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.Equal(t, "2030-06-01", goal.TargetDate)
}

func TestServiceMetricsUsesCurrentState(t *testing.T) {
	store := newFakeStore()
	store.investments["default"] = []models.Investment{
		{ID: "a", Quantity: 10, BuyPrice: 100, CurrentPrice: 120},
	}
	svc := NewService(store, common.NewSilentLogger())

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1200, metrics.TotalValue, 0.001)
	require.Len(t, metrics.Holdings, 1)
	assert.True(t, metrics.Holdings[0].IsProfit)
}
