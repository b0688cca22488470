// Package models defines data structures for Vantage
package models

import (
	"math"
	"strconv"
	"strings"
)

// GoalKey is the fixed document key for the per-user savings goal.
const GoalKey = "mainGoal"

// Investment represents a single portfolio holding. Prices are stored in the
// canonical currency (USD); conversion happens only at display time.
type Investment struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Ticker       string  `json:"ticker"`
	Quantity     float64 `json:"quantity"`
	BuyPrice     float64 `json:"buyPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	AssetType    string  `json:"assetType,omitempty"`
	Sector       string  `json:"sector,omitempty"`
}

// Goal is the singleton savings goal. Absence is a valid state.
type Goal struct {
	GoalAmount float64 `json:"goalAmount"`
	TargetDate string  `json:"targetDate"`
}

// InvestmentDraft carries user-entered investment fields before validation.
// Numeric fields arrive as text and are parsed strictly: a draft that fails
// to parse is rejected with a ValidationError rather than coerced.
type InvestmentDraft struct {
	Name         string `json:"name"`
	Ticker       string `json:"ticker"`
	Quantity     string `json:"quantity"`
	BuyPrice     string `json:"buyPrice"`
	CurrentPrice string `json:"currentPrice"`
	AssetType    string `json:"assetType,omitempty"`
	Sector       string `json:"sector,omitempty"`
}

// Parse validates the draft and produces an Investment without an ID.
// CurrentPrice may be left empty, in which case it defaults to BuyPrice.
func (d *InvestmentDraft) Parse() (*Investment, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(d.Ticker) == "" {
		return nil, &ValidationError{Field: "ticker", Reason: "ticker is required"}
	}

	quantity, err := parseDraftNumber(d.Quantity)
	if err != nil {
		return nil, &ValidationError{Field: "quantity", Reason: "not a valid number"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	buyPrice, err := parseDraftNumber(d.BuyPrice)
	if err != nil {
		return nil, &ValidationError{Field: "buyPrice", Reason: "not a valid number"}
	}

	currentPrice := buyPrice
	if strings.TrimSpace(d.CurrentPrice) != "" {
		currentPrice, err = parseDraftNumber(d.CurrentPrice)
		if err != nil {
			return nil, &ValidationError{Field: "currentPrice", Reason: "not a valid number"}
		}
	}

	return &Investment{
		Name:         strings.TrimSpace(d.Name),
		Ticker:       strings.TrimSpace(d.Ticker),
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		CurrentPrice: currentPrice,
		AssetType:    strings.TrimSpace(d.AssetType),
		Sector:       strings.TrimSpace(d.Sector),
	}, nil
}

func parseDraftNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// InvestmentPatch carries a partial update. Nil fields are left untouched;
// numeric fields are textual for the same strict-parse treatment as drafts.
type InvestmentPatch struct {
	Name         *string `json:"name,omitempty"`
	Ticker       *string `json:"ticker,omitempty"`
	Quantity     *string `json:"quantity,omitempty"`
	BuyPrice     *string `json:"buyPrice,omitempty"`
	CurrentPrice *string `json:"currentPrice,omitempty"`
	AssetType    *string `json:"assetType,omitempty"`
	Sector       *string `json:"sector,omitempty"`
}

// Fields validates the patch and returns the merge-patch field map.
func (p *InvestmentPatch) Fields() (map[string]any, error) {
	fields := make(map[string]any)
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Ticker != nil {
		fields["ticker"] = *p.Ticker
	}
	if p.Quantity != nil {
		v, err := parseDraftNumber(*p.Quantity)
		if err != nil {
			return nil, &ValidationError{Field: "quantity", Reason: "not a valid number"}
		}
		if v < 0 {
			return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
		}
		fields["quantity"] = v
	}
	if p.BuyPrice != nil {
		v, err := parseDraftNumber(*p.BuyPrice)
		if err != nil {
			return nil, &ValidationError{Field: "buyPrice", Reason: "not a valid number"}
		}
		fields["buyPrice"] = v
	}
	if p.CurrentPrice != nil {
		v, err := parseDraftNumber(*p.CurrentPrice)
		if err != nil {
			return nil, &ValidationError{Field: "currentPrice", Reason: "not a valid number"}
		}
		fields["currentPrice"] = v
	}
	if p.AssetType != nil {
		fields["assetType"] = *p.AssetType
	}
	if p.Sector != nil {
		fields["sector"] = *p.Sector
	}
	return fields, nil
}

// GoalDraft carries user-entered goal fields before validation.
type GoalDraft struct {
	GoalAmount string `json:"goalAmount"`
	TargetDate string `json:"targetDate"`
}

// Parse validates the draft and produces a Goal.
func (d *GoalDraft) Parse() (*Goal, error) {
	amount, err := parseDraftNumber(d.GoalAmount)
	if err != nil {
		return nil, &ValidationError{Field: "goalAmount", Reason: "not a valid number"}
	}
	if strings.TrimSpace(d.TargetDate) == "" {
		return nil, &ValidationError{Field: "targetDate", Reason: "target date is required"}
	}
	return &Goal{GoalAmount: amount, TargetDate: strings.TrimSpace(d.TargetDate)}, nil
}

// ToNumber coerces a stored value to a finite float64, defaulting to 0 for
// anything that cannot be interpreted as a number. Snapshot normalization
// tolerates partially-written or legacy records this way instead of failing
// the whole snapshot.
func ToNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeInvestment maps a raw stored record to an Investment. Quantity and
// buyPrice coerce to number-or-zero; currentPrice defaults to buyPrice when
// the stored value is absent.
func NormalizeInvestment(id string, fields map[string]any) Investment {
	inv := Investment{
		ID:       id,
		Name:     toString(fields["name"]),
		Ticker:   toString(fields["ticker"]),
		Quantity: ToNumber(fields["quantity"]),
		BuyPrice: ToNumber(fields["buyPrice"]),
	}
	if raw, ok := fields["currentPrice"]; ok && raw != nil {
		inv.CurrentPrice = ToNumber(raw)
	} else {
		inv.CurrentPrice = inv.BuyPrice
	}
	inv.AssetType = toString(fields["assetType"])
	inv.Sector = toString(fields["sector"])
	return inv
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
