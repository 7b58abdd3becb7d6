package market

import (
	"math/rand"
	"sync"
	"time"
)

// Snapshotter provides the current listing the feed perturbs
type Snapshotter interface {
	All() []Asset
}

// Feed simulates the live price stream: every tick moves one random asset.
//
//	price  *= 1 + U(-2%, +2%)
//	1h/24h/7d change += U(-0.2, 0.2) / U(-0.3, 0.3) / U(-0.4, 0.4)
//	volume *= 1 + U(-5%, +5%)
type Feed struct {
	mu     sync.Mutex
	rng    *rand.Rand
	source Snapshotter
	now    func() time.Time
}

// NewFeed creates a feed over source using rng
func NewFeed(source Snapshotter, rng *rand.Rand) *Feed {
	return &Feed{
		rng:    rng,
		source: source,
		now:    time.Now,
	}
}

// Next draws the next price update. It reports false when the listing is empty.
func (f *Feed) Next() (PriceUpdate, bool) {
	assets := f.source.All()
	if len(assets) == 0 {
		return PriceUpdate{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	a := assets[f.rng.Intn(len(assets))]
	return PriceUpdate{
		AssetID:          a.ID,
		Price:            a.Price * (1 + f.uniform(-0.02, 0.02)),
		PercentChange1h:  a.PercentChange1h + f.uniform(-0.2, 0.2),
		PercentChange24h: a.PercentChange24h + f.uniform(-0.3, 0.3),
		PercentChange7d:  a.PercentChange7d + f.uniform(-0.4, 0.4),
		Volume24h:        a.Volume24h * (1 + f.uniform(-0.05, 0.05)),
		Timestamp:        f.now().UTC(),
	}, true
}

func (f *Feed) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}
