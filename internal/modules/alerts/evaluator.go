package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Evaluator holds the alert set in insertion order.
// It has no locking and no storage dependency; Service owns one and persists it.
type Evaluator struct {
	alerts []Alert
	newID  func() string
	now    func() time.Time
}

// NewEvaluator creates an evaluator seeded with alerts, kept in the given order
func NewEvaluator(alerts []Alert) *Evaluator {
	e := &Evaluator{
		alerts: make([]Alert, len(alerts)),
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
	copy(e.alerts, alerts)
	return e
}

// Add validates and appends a new active alert.
// Either assetID or symbol must be set; threshold must be a finite positive number.
func (e *Evaluator) Add(assetID, symbol string, condition Condition, threshold float64) (Alert, error) {
	if assetID == "" && symbol == "" {
		return Alert{}, fmt.Errorf("%w: asset id or symbol is required", ErrInvalidAlert)
	}
	if !condition.Valid() {
		return Alert{}, fmt.Errorf("%w: unknown condition %q", ErrInvalidAlert, condition)
	}
	if !positiveFinite(threshold) {
		return Alert{}, fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidAlert, threshold)
	}

	a := Alert{
		ID:          e.newID(),
		AssetID:     assetID,
		AssetSymbol: symbol,
		Condition:   condition,
		Threshold:   threshold,
		CreatedAt:   e.now().UTC(),
	}
	e.alerts = append(e.alerts, a)
	return a, nil
}

// Remove deletes the alert with id; false when unknown
func (e *Evaluator) Remove(id string) (Alert, bool) {
	for i, a := range e.alerts {
		if a.ID == id {
			e.alerts = append(e.alerts[:i:i], e.alerts[i+1:]...)
			return a, true
		}
	}
	return Alert{}, false
}

// OnPriceUpdate fires every active alert for the asset whose condition holds at
// price and returns the newly triggered alerts. Alerts already triggered are
// skipped. An alert matches by asset id, or by symbol (case-insensitive) when it
// carries no asset id.
func (e *Evaluator) OnPriceUpdate(assetID, symbol string, price float64, now time.Time) []Alert {
	var fired []Alert
	for i := range e.alerts {
		a := &e.alerts[i]
		if a.Triggered || !matches(a, assetID, symbol) {
			continue
		}
		if a.Condition.Met(price, a.Threshold) {
			a.trigger(price, now)
			fired = append(fired, *a)
		}
	}
	return fired
}

// ClearTriggered deletes every triggered alert and returns how many were removed.
// Survivors keep their relative order.
func (e *Evaluator) ClearTriggered() int {
	kept := e.alerts[:0:0]
	for _, a := range e.alerts {
		if !a.Triggered {
			kept = append(kept, a)
		}
	}
	removed := len(e.alerts) - len(kept)
	e.alerts = kept
	return removed
}

// All returns every alert in insertion order
func (e *Evaluator) All() []Alert {
	return e.filter(func(Alert) bool { return true })
}

// Active returns the alerts that have not fired
func (e *Evaluator) Active() []Alert {
	return e.filter(func(a Alert) bool { return !a.Triggered })
}

// Triggered returns the alerts that have fired
func (e *Evaluator) Triggered() []Alert {
	return e.filter(func(a Alert) bool { return a.Triggered })
}

// Visible returns all alerts when showTriggered is set, otherwise only active ones
func (e *Evaluator) Visible(showTriggered bool) []Alert {
	if showTriggered {
		return e.All()
	}
	return e.Active()
}

// BySymbol returns the alerts on symbol, case-insensitive
func (e *Evaluator) BySymbol(symbol string) []Alert {
	return e.filter(func(a Alert) bool { return strings.EqualFold(a.AssetSymbol, symbol) })
}

func (e *Evaluator) filter(keep func(Alert) bool) []Alert {
	out := make([]Alert, 0, len(e.alerts))
	for _, a := range e.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a *Alert, assetID, symbol string) bool {
	if a.AssetID != "" {
		return a.AssetID == assetID
	}
	return symbol != "" && strings.EqualFold(a.AssetSymbol, symbol)
}
