package scheduler

import (
	"math/rand"
	"testing"

	"github.com/aristath/coindash/internal/events"
	"github.com/aristath/coindash/internal/kvstore"
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFeedJob_AppliesAndPublishes(t *testing.T) {
	log := zerolog.Nop()
	bus := events.NewBus(log)
	rng := rand.New(rand.NewSource(4))
	svc := market.NewService(market.NewTable(market.SeedAssets(rng)), kvstore.NewMemoryStore(), events.NewManager(bus, log), rng, log)

	var published []string
	bus.Subscribe(events.PriceUpdated, func(e *events.Event) {
		data, ok := e.GetTypedData().(*events.PriceUpdatedData)
		require.True(t, ok)
		published = append(published, data.AssetID)
	})

	job := NewPriceFeedJob(market.NewFeed(svc, rng), svc, log)
	assert.Equal(t, "price_feed", job.Name())

	for i := 0; i < 5; i++ {
		require.NoError(t, job.Run())
	}
	assert.Len(t, published, 5)
}

func TestPriceFeedJob_EmptyListing(t *testing.T) {
	log := zerolog.Nop()
	rng := rand.New(rand.NewSource(1))
	svc := market.NewService(market.NewTable(nil), kvstore.NewMemoryStore(), nil, rng, log)

	job := NewPriceFeedJob(market.NewFeed(svc, rng), svc, log)
	assert.NoError(t, job.Run())
}
