// Package interfaces defines service contracts for Vantage
package interfaces

import (
	"context"

	"github.com/rgower/vantage/internal/models"
)

// StorageManager coordinates the remote document store connection.
type StorageManager interface {
	PortfolioStore() PortfolioStore

	// Lifecycle
	Close() error
}

// PortfolioStore is the authoritative holder of the per-user Investment set
// and Goal document. Writes go through to the remote store without a local
// optimistic echo: callers observe their own writes via the next snapshot
// delivered to an active subscription.
type PortfolioStore interface {
	// ListInvestments returns the current normalized investment set.
	ListInvestments(ctx context.Context, userID string) ([]models.Investment, error)

	// GetInvestment returns one normalized investment, or a NotFoundError.
	GetInvestment(ctx context.Context, userID, id string) (*models.Investment, error)

	// CreateInvestment writes a new record and returns its store-assigned id.
	CreateInvestment(ctx context.Context, userID string, inv *models.Investment) (string, error)

	// UpdateInvestment merge-patches an existing record. Returns a
	// NotFoundError when no such id exists at write time.
	UpdateInvestment(ctx context.Context, userID, id string, fields map[string]any) error

	// DeleteInvestment removes a record. Idempotent: deleting an absent id
	// is not an error.
	DeleteInvestment(ctx context.Context, userID, id string) error

	// GetGoal returns the singleton goal, or (nil, nil) when no goal is set.
	GetGoal(ctx context.Context, userID string) (*models.Goal, error)

	// SaveGoal replaces the singleton goal document wholesale.
	SaveGoal(ctx context.Context, userID string, goal *models.Goal) error

	// Subscribe starts two independent watches (investments, goal) scoped to
	// the user and returns a handle delivering snapshots and recoverable
	// per-watch errors.
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}

// Subscription is the handle for an active pair of remote watches.
type Subscription interface {
	// Events delivers snapshots and recoverable watch errors. The channel is
	// closed after Unsubscribe.
	Events() <-chan models.WatchEvent

	// Unsubscribe stops both watches. No event is delivered after it
	// returns; calling it more than once is safe.
	Unsubscribe()
}
