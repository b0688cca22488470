// Package currency converts canonical USD amounts into display strings and
// back. Conversion happens only at presentation time; stored values are
// always canonical.
package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// USDINRRate is the fixed display conversion rate.
const USDINRRate = 83.5

const (
	CodeUSD = "USD"
	CodeINR = "INR"
)

// Converter formats and parses amounts for the two supported display
// currencies.
type Converter struct {
	rate float64
}

// NewConverter creates a converter with the fixed USD/INR rate.
func NewConverter() *Converter {
	return &Converter{rate: USDINRRate}
}

// Format renders a canonical USD amount as a display string in the given
// currency, e.g. "$1,234.50" or "₹103,080.75".
func (c *Converter) Format(amountUSD float64, code string) (string, error) {
	display := amountUSD
	switch strings.ToUpper(code) {
	case CodeUSD:
	case CodeINR:
		display = amountUSD * c.rate
	default:
		return "", fmt.Errorf("unsupported display currency %q", code)
	}

	minor := int64(math.Round(display * 100))
	return money.New(minor, strings.ToUpper(code)).Display(), nil
}

// Parse interprets a display string in the given currency and returns the
// canonical USD amount. Every character that is not a digit or a decimal
// point is stripped first, so symbols, separators, and stray formatting are
// tolerated. This is deliberately lossy: Parse is not a strict inverse of
// Format for all locales (a thousands separator written as "." would be
// misread), it just has to survive user-pasted values.
func (c *Converter) Parse(display string, code string) (float64, error) {
	var rate float64
	switch strings.ToUpper(code) {
	case CodeUSD:
		rate = 1
	case CodeINR:
		rate = c.rate
	default:
		return 0, fmt.Errorf("unsupported display currency %q", code)
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, display)

	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", display)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount from %q: %w", display, err)
	}

	return value / rate, nil
}
