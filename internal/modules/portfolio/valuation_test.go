package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuate(t *testing.T) {
	v := Valuate("bitcoin", Position{Quantity: 2, TotalCost: 100, AverageCost: 50}, 75)

	assert.Equal(t, 150.0, v.TotalValue)
	assert.Equal(t, 100.0, v.TotalCost)
	assert.Equal(t, 50.0, v.Profit)
	assert.Equal(t, 50.0, v.ProfitPercentage)
	assert.Equal(t, 75.0, v.CurrentPrice)
}

func TestValuate_EmptyPosition(t *testing.T) {
	v := Valuate("bitcoin", Position{}, 75)

	assert.Zero(t, v.TotalValue)
	assert.Zero(t, v.TotalCost)
	assert.Zero(t, v.Profit)
	assert.Zero(t, v.ProfitPercentage)
}

func TestValuate_NoCostBasis(t *testing.T) {
	v := Valuate("bitcoin", Position{Quantity: 2}, 10)

	assert.Equal(t, 20.0, v.Profit)
	assert.Zero(t, v.ProfitPercentage)
}

func TestRealizedGain(t *testing.T) {
	assert.Equal(t, 560.0, RealizedGain(300, 160, 4))
	assert.Equal(t, -20.0, RealizedGain(90, 100, 2))
}

func TestSummarize(t *testing.T) {
	positions := map[string]Position{
		"ethereum": {Quantity: 1, TotalCost: 100, AverageCost: 100},
		"bitcoin":  {Quantity: 2, TotalCost: 100, AverageCost: 50},
		"dogecoin": {Quantity: 10, TotalCost: 10, AverageCost: 1},
	}
	prices := map[string]float64{"bitcoin": 100, "ethereum": 50}

	s := Summarize(positions, func(id string) (float64, bool) {
		p, ok := prices[id]
		return p, ok
	})

	require.Len(t, s.Positions, 3)
	assert.Equal(t, "bitcoin", s.Positions[0].AssetID)
	assert.Equal(t, "dogecoin", s.Positions[1].AssetID)
	assert.Equal(t, "ethereum", s.Positions[2].AssetID)

	assert.Equal(t, 250.0, s.TotalValue)
	assert.Equal(t, 210.0, s.TotalCost)
	assert.Equal(t, 40.0, s.Profit)
	assert.InDelta(t, 19.047619, s.ProfitPercentage, 1e-6)
}
