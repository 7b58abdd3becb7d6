package alerts

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/rs/zerolog"
)

// Service owns the Evaluator and writes the full alert list to the key-value
// store under StoreKey after every mutation. Write failures are only logged.
type Service struct {
	mu        sync.Mutex
	evaluator *Evaluator
	store     kvstore.Store
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates an alert service with no alerts; call Load to restore state
func NewService(store kvstore.Store, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		evaluator: NewEvaluator(nil),
		store:     store,
		events:    eventManager,
		log:       log.With().Str("service", "alerts").Logger(),
	}
}

// Load restores the alert list. An absent key leaves it empty; a corrupt blob
// also leaves it empty and is reported.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.store.Get(StoreKey)
	if err != nil {
		return fmt.Errorf("failed to read alerts: %w", err)
	}
	if !found {
		s.evaluator = NewEvaluator(nil)
		return nil
	}

	var list []Alert
	if err := json.Unmarshal(raw, &list); err != nil {
		s.evaluator = NewEvaluator(nil)
		return fmt.Errorf("failed to decode alerts: %w", err)
	}
	s.evaluator = NewEvaluator(list)

	s.log.Info().Int("alerts", len(list)).Msg("Alerts loaded")
	return nil
}

// Add creates an active alert
func (s *Service) Add(assetID, symbol string, condition Condition, threshold float64) (Alert, error) {
	s.mu.Lock()
	a, err := s.evaluator.Add(assetID, symbol, condition, threshold)
	if err != nil {
		s.mu.Unlock()
		return Alert{}, err
	}
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("alert_id", a.ID).
		Str("asset", a.AssetID).
		Str("condition", string(a.Condition)).
		Float64("threshold", a.Threshold).
		Msg("Alert added")
	s.events.EmitTyped("alerts", alertEvent(events.AlertAdded, a))
	return a, nil
}

// Remove deletes an alert; false when the id is unknown
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	a, ok := s.evaluator.Remove(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.persistLocked()
	s.mu.Unlock()

	s.events.EmitTyped("alerts", alertEvent(events.AlertRemoved, a))
	return true
}

// OnPriceUpdate evaluates the active alerts against a new price and emits
// ALERT_TRIGGERED for each one that fired. Nothing is written when none fired.
func (s *Service) OnPriceUpdate(assetID, symbol string, price float64, now time.Time) []Alert {
	s.mu.Lock()
	fired := s.evaluator.OnPriceUpdate(assetID, symbol, price, now)
	if len(fired) > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	for _, a := range fired {
		s.log.Info().
			Str("alert_id", a.ID).
			Str("asset", assetID).
			Str("condition", string(a.Condition)).
			Float64("threshold", a.Threshold).
			Float64("price", price).
			Msg("Alert triggered")
		s.events.EmitTyped("alerts", alertEvent(events.AlertTriggered, a))
	}
	return fired
}

// ClearTriggered deletes every triggered alert and returns the count removed
func (s *Service) ClearTriggered() int {
	s.mu.Lock()
	removed := s.evaluator.ClearTriggered()
	s.persistLocked()
	s.mu.Unlock()

	s.events.EmitTyped("alerts", &events.AlertsClearedData{Removed: removed})
	return removed
}

// All returns every alert in insertion order
func (s *Service) All() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.All()
}

// Active returns the alerts that have not fired
func (s *Service) Active() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Active()
}

// Triggered returns the alerts that have fired
func (s *Service) Triggered() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Triggered()
}

// Visible returns all alerts, or only active ones when showTriggered is false
func (s *Service) Visible(showTriggered bool) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Visible(showTriggered)
}

// BySymbol returns the alerts on symbol
func (s *Service) BySymbol(symbol string) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.BySymbol(symbol)
}

func (s *Service) persistLocked() {
	data, err := json.Marshal(s.evaluator.alerts)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode alerts")
		return
	}
	if err := s.store.Set(StoreKey, data); err != nil {
		s.log.Error().Err(err).Str("key", StoreKey).Msg("Failed to persist alerts")
	}
}

func alertEvent(eventType events.EventType, a Alert) *events.AlertData {
	data := &events.AlertData{
		Type:           eventType,
		AlertID:        a.ID,
		AssetID:        a.AssetID,
		Symbol:         a.AssetSymbol,
		Condition:      string(a.Condition),
		Threshold:      a.Threshold,
		TriggeredPrice: a.TriggeredPrice,
	}
	if a.TriggeredAt != nil {
		data.TriggeredAt = a.TriggeredAt.Format(time.RFC3339)
	}
	return data
}
