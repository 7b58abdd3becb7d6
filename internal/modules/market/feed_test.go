package market

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedNext_StaysWithinBands(t *testing.T) {
	table := seededTable()
	feed := NewFeed(table, rand.New(rand.NewSource(7)))
	fixed := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	feed.now = func() time.Time { return fixed }

	for i := 0; i < 500; i++ {
		u, ok := feed.Next()
		require.True(t, ok)

		before, found := table.Get(u.AssetID)
		require.True(t, found)

		assert.InDelta(t, before.Price, u.Price, before.Price*0.02+1e-9)
		assert.InDelta(t, before.PercentChange1h, u.PercentChange1h, 0.2+1e-9)
		assert.InDelta(t, before.PercentChange24h, u.PercentChange24h, 0.3+1e-9)
		assert.InDelta(t, before.PercentChange7d, u.PercentChange7d, 0.4+1e-9)
		assert.InDelta(t, before.Volume24h, u.Volume24h, before.Volume24h*0.05+1e-6)
		assert.Equal(t, fixed, u.Timestamp)

		table.Apply(u)
	}
}

func TestFeedNext_EmptyListing(t *testing.T) {
	feed := NewFeed(NewTable(nil), rand.New(rand.NewSource(1)))
	_, ok := feed.Next()
	assert.False(t, ok)
}

func TestFeedNext_CoversAssets(t *testing.T) {
	table := seededTable()
	feed := NewFeed(table, rand.New(rand.NewSource(3)))

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		u, _ := feed.Next()
		seen[u.AssetID] = true
	}
	assert.Len(t, seen, table.Len())
}
