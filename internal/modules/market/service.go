package market

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/rs/zerolog"
)

// Service owns the market table and the favorites set.
// Every applied price update is published as PRICE_UPDATED; alert evaluation
// hangs off that event and nothing else.
type Service struct {
	mu sync.Mutex
	// applyMu orders read, apply and publish of price updates, so PRICE_UPDATED
	// events reach subscribers in the order the table changed
	applyMu   sync.Mutex
	table     *Table
	favorites *Favorites
	rng       *rand.Rand
	store     kvstore.Store
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates a market service over table. rng drives chart generation.
func NewService(table *Table, store kvstore.Store, eventManager *events.Manager, rng *rand.Rand, log zerolog.Logger) *Service {
	return &Service{
		table:     table,
		favorites: NewFavorites(nil),
		rng:       rng,
		store:     store,
		events:    eventManager,
		log:       log.With().Str("service", "market").Logger(),
	}
}

// LoadFavorites restores favorites from the store. An absent key leaves the set
// empty; a corrupt blob also leaves it empty and is reported.
func (s *Service) LoadFavorites() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.store.Get(FavoritesKey)
	if err != nil {
		return fmt.Errorf("failed to read favorites: %w", err)
	}
	if !found {
		s.favorites = NewFavorites(nil)
		return nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.favorites = NewFavorites(nil)
		return fmt.Errorf("failed to decode favorites: %w", err)
	}
	s.favorites = NewFavorites(ids)
	return nil
}

// PriceSource draws the next price update from the current listing
type PriceSource interface {
	Next() (PriceUpdate, bool)
}

// ApplyPriceUpdate writes the update into the table and publishes it.
// Unknown assets are ignored and nothing is published.
func (s *Service) ApplyPriceUpdate(u PriceUpdate) (Asset, bool) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	return s.applyLocked(u)
}

// Advance draws one update from src and applies it. The draw happens under
// the same lock as the apply, so it always starts from the latest prices.
func (s *Service) Advance(src PriceSource) (Asset, bool) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	u, ok := src.Next()
	if !ok {
		return Asset{}, false
	}
	return s.applyLocked(u)
}

// applyLocked requires applyMu
func (s *Service) applyLocked(u PriceUpdate) (Asset, bool) {
	s.mu.Lock()
	asset, ok := s.table.Apply(u)
	s.mu.Unlock()
	if !ok {
		s.log.Debug().Str("asset", u.AssetID).Msg("Ignoring price update for unknown asset")
		return Asset{}, false
	}

	ts := u.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	s.events.EmitTyped("market", &events.PriceUpdatedData{
		AssetID:          asset.ID,
		Symbol:           asset.Symbol,
		Price:            asset.Price,
		PercentChange1h:  asset.PercentChange1h,
		PercentChange24h: asset.PercentChange24h,
		PercentChange7d:  asset.PercentChange7d,
		Volume24h:        asset.Volume24h,
		Timestamp:        ts,
	})
	return asset, true
}

// SetPrice applies a manual price for one asset, keeping its other columns
func (s *Service) SetPrice(assetID string, price float64) (Asset, error) {
	if !(price > 0) || math.IsInf(price, 1) {
		return Asset{}, fmt.Errorf("%w: must be positive, got %v", ErrInvalidPrice, price)
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	current, ok := s.Get(assetID)
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assetID)
	}

	asset, ok := s.applyLocked(PriceUpdate{
		AssetID:          assetID,
		Price:            price,
		PercentChange1h:  current.PercentChange1h,
		PercentChange24h: current.PercentChange24h,
		PercentChange7d:  current.PercentChange7d,
		Volume24h:        current.Volume24h,
		Timestamp:        time.Now().UTC(),
	})
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assetID)
	}
	return asset, nil
}

// Get returns one asset
func (s *Service) Get(assetID string) (Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Get(assetID)
}

// Price returns the asset's current price
func (s *Service) Price(assetID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Price(assetID)
}

// All returns the whole listing in rank order
func (s *Service) All() []Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.All()
}

// Query returns one page of the listing
func (s *Service) Query(q Query) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Query(q, s.favorites)
}

// Sorted returns the whole filtered and sorted listing, unpaginated
func (s *Service) Sorted(q Query) ([]Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Sorted(q, s.favorites)
}

// Chart generates synthetic history for an asset ending today
func (s *Service) Chart(assetID string, days int) (Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.table.Get(assetID)
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assetID)
	}
	return Chart(asset, days, DefaultVolatility, s.rng, time.Now()), nil
}

// ToggleFavorite flips the asset's favorite flag and persists the set.
// Returns whether the asset is a favorite afterwards.
func (s *Service) ToggleFavorite(assetID string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.table.Get(assetID); !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownAsset, assetID)
	}
	favorite := s.favorites.Toggle(assetID)
	count := s.favorites.Len()
	s.persistFavoritesLocked()
	s.mu.Unlock()

	s.events.EmitTyped("market", &events.FavoritesChangedData{
		AssetID:   assetID,
		Favorite:  favorite,
		Favorites: count,
	})
	return favorite, nil
}

// IsFavorite reports whether the asset is a favorite
func (s *Service) IsFavorite(assetID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Contains(assetID)
}

// Favorites returns the favorite assets in the order they were added
func (s *Service) Favorites() []Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Asset, 0, s.favorites.Len())
	for _, id := range s.favorites.List() {
		if a, ok := s.table.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) persistFavoritesLocked() {
	data, err := json.Marshal(s.favorites.List())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode favorites")
		return
	}
	if err := s.store.Set(FavoritesKey, data); err != nil {
		s.log.Error().Err(err).Str("key", FavoritesKey).Msg("Failed to persist favorites")
	}
}
