// Package alerts evaluates price alerts against the asset price feed.
// An alert fires at most once: active to triggered is a one-way transition.
package alerts

import (
	"errors"
	"math"
	"time"
)

// StoreKey is the key-value store key holding the serialized alert list
const StoreKey = "alerts"

// ErrInvalidAlert is returned when an alert fails validation
var ErrInvalidAlert = errors.New("invalid alert")

// Condition is the comparison an alert applies to the price
type Condition string

const (
	// Above fires when price >= threshold
	Above Condition = "above"
	// Below fires when price <= threshold
	Below Condition = "below"
)

// Valid reports whether c is above or below
func (c Condition) Valid() bool {
	return c == Above || c == Below
}

// Met reports whether price satisfies the condition against threshold
func (c Condition) Met(price, threshold float64) bool {
	switch c {
	case Above:
		return price >= threshold
	case Below:
		return price <= threshold
	}
	return false
}

// Alert is a user-defined price threshold for one asset.
// TriggeredPrice and TriggeredAt are set once, together with Triggered.
type Alert struct {
	ID             string     `json:"id"`
	AssetID        string     `json:"cryptoId"`
	AssetSymbol    string     `json:"cryptoSymbol"`
	Condition      Condition  `json:"condition"`
	Threshold      float64    `json:"price"`
	Triggered      bool       `json:"triggered"`
	TriggeredPrice *float64   `json:"triggerPrice,omitempty"`
	TriggeredAt    *time.Time `json:"triggeredAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (a *Alert) trigger(price float64, at time.Time) {
	p := price
	t := at.UTC()
	a.Triggered = true
	a.TriggeredPrice = &p
	a.TriggeredAt = &t
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
