package scheduler

import (
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/rs/zerolog"
)

// PriceSource draws the next simulated tick
type PriceSource interface {
	Next() (market.PriceUpdate, bool)
}

// PriceSink draws from a source and applies the tick to the listing in one step
type PriceSink interface {
	Advance(src market.PriceSource) (market.Asset, bool)
}

// PriceFeedJob moves one asset's price per run
type PriceFeedJob struct {
	feed PriceSource
	sink PriceSink
	log  zerolog.Logger
}

// NewPriceFeedJob creates a new PriceFeedJob
func NewPriceFeedJob(feed PriceSource, sink PriceSink, log zerolog.Logger) *PriceFeedJob {
	return &PriceFeedJob{
		feed: feed,
		sink: sink,
		log:  log.With().Str("job", "price_feed").Logger(),
	}
}

// Name returns the job name
func (j *PriceFeedJob) Name() string {
	return "price_feed"
}

// Run draws one update and applies it
func (j *PriceFeedJob) Run() error {
	asset, applied := j.sink.Advance(j.feed)
	if !applied {
		j.log.Debug().Msg("No price update applied")
		return nil
	}

	j.log.Debug().
		Str("asset", asset.ID).
		Float64("price", asset.Price).
		Msg("Price tick applied")
	return nil
}
