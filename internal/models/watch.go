package models

// WatchKind identifies which remote watch produced an event. The investment
// and goal watches are independent: a failure on one never stops the other.
type WatchKind string

const (
	WatchInvestments WatchKind = "investments"
	WatchGoal        WatchKind = "goal"
)

// WatchEvent is one delivery from an active subscription: either a fresh
// snapshot for its kind, or a recoverable error on that watch.
type WatchEvent struct {
	Kind        WatchKind
	Investments []Investment // populated for WatchInvestments snapshots
	Goal        *Goal        // populated for WatchGoal snapshots; nil means no goal set
	Err         error        // recoverable watch error; snapshot fields are empty
}
