package portfolio

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/rs/zerolog"
)

// PriceSource looks up the current price of an asset
type PriceSource interface {
	Price(assetID string) (float64, bool)
}

// Service owns the Ledger. Every mutation applies the ledger transition first and
// then writes the whole ledger to the key-value store under StoreKey.
// A failed write is logged and never reported to the caller.
type Service struct {
	mu     sync.Mutex
	ledger *Ledger
	store  kvstore.Store
	events *events.Manager
	prices PriceSource
	log    zerolog.Logger
}

// NewService creates a portfolio service with an empty ledger; call Load to restore state
func NewService(store kvstore.Store, eventManager *events.Manager, prices PriceSource, log zerolog.Logger) *Service {
	return &Service{
		ledger: NewLedger(),
		store:  store,
		events: eventManager,
		prices: prices,
		log:    log.With().Str("service", "portfolio").Logger(),
	}
}

// Load restores the ledger from the store. An absent key leaves the ledger empty.
// A corrupt blob also leaves it empty and is reported as an error.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.store.Get(StoreKey)
	if err != nil {
		return fmt.Errorf("failed to read portfolio: %w", err)
	}
	if !found {
		s.ledger = NewLedger()
		return nil
	}

	loaded := &Ledger{}
	if err := json.Unmarshal(raw, loaded); err != nil {
		s.ledger = NewLedger()
		return fmt.Errorf("failed to decode portfolio: %w", err)
	}
	loaded.init()
	s.ledger = loaded

	s.log.Info().
		Int("transactions", len(loaded.Transactions)).
		Int("holdings", len(loaded.Holdings)).
		Msg("Portfolio loaded")
	return nil
}

// RecordTransaction validates and records a trade. Invalid input returns an error
// wrapping ErrInvalidTransaction and leaves the ledger unchanged.
func (s *Service) RecordTransaction(assetID string, kind Kind, quantity, unitPrice float64, date string) (Transaction, error) {
	s.mu.Lock()
	tx, err := s.ledger.Record(assetID, kind, quantity, unitPrice, date)
	if err != nil {
		s.mu.Unlock()
		return Transaction{}, err
	}
	pos, _ := s.ledger.Position(assetID)
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().
		Str("transaction_id", tx.ID).
		Str("asset", assetID).
		Str("kind", string(kind)).
		Float64("quantity", quantity).
		Float64("unit_price", unitPrice).
		Msg("Transaction recorded")

	s.events.EmitTyped("portfolio", &events.TransactionData{
		Type:          events.TransactionRecorded,
		TransactionID: tx.ID,
		AssetID:       tx.AssetID,
		Kind:          string(tx.Kind),
		Quantity:      tx.Quantity,
		UnitPrice:     tx.UnitPrice,
		Position:      pos.Quantity,
	})
	return tx, nil
}

// RemoveTransaction deletes a transaction and undoes it incrementally.
// Returns false for an unknown id; nothing is written in that case.
func (s *Service) RemoveTransaction(transactionID string) bool {
	s.mu.Lock()
	tx, ok := s.ledger.Remove(transactionID)
	if !ok {
		s.mu.Unlock()
		return false
	}
	pos, _ := s.ledger.Position(tx.AssetID)
	s.persistLocked()
	s.mu.Unlock()

	s.events.EmitTyped("portfolio", &events.TransactionData{
		Type:          events.TransactionRemoved,
		TransactionID: tx.ID,
		AssetID:       tx.AssetID,
		Kind:          string(tx.Kind),
		Quantity:      tx.Quantity,
		UnitPrice:     tx.UnitPrice,
		Position:      pos.Quantity,
	})
	return true
}

// Clear empties the ledger
func (s *Service) Clear() {
	s.mu.Lock()
	removed := len(s.ledger.Transactions)
	s.ledger.Clear()
	s.persistLocked()
	s.mu.Unlock()

	s.log.Info().Int("transactions", removed).Msg("Portfolio cleared")
	s.events.EmitTyped("portfolio", &events.PortfolioClearedData{Transactions: removed})
}

// Position returns the asset's position, if it has ever been traded
func (s *Service) Position(assetID string) (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Position(assetID)
}

// Holdings returns every position keyed by asset id
func (s *Service) Holdings() map[string]Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Positions()
}

// Transactions returns the asset's transactions in insertion order
func (s *Service) Transactions(assetID string) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TransactionsFor(assetID)
}

// AllTransactions returns the whole log in insertion order
func (s *Service) AllTransactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.AllTransactions()
}

// Valuation marks the asset's position to the current market price
func (s *Service) Valuation(assetID string) (Valuation, bool) {
	pos, ok := s.Position(assetID)
	if !ok {
		return Valuation{}, false
	}
	price, _ := s.priceOf(assetID)
	return Valuate(assetID, pos, price), true
}

// Summary values the whole portfolio at current market prices
func (s *Service) Summary() Summary {
	return Summarize(s.Holdings(), s.priceOf)
}

func (s *Service) priceOf(assetID string) (float64, bool) {
	if s.prices == nil {
		return 0, false
	}
	return s.prices.Price(assetID)
}

// persistLocked writes the ledger; callers hold s.mu
func (s *Service) persistLocked() {
	data, err := json.Marshal(s.ledger)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode portfolio")
		return
	}
	if err := s.store.Set(StoreKey, data); err != nil {
		s.log.Error().Err(err).Str("key", StoreKey).Msg("Failed to persist portfolio")
	}
}
