package market

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chartDay = time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

func TestChart_DatesEndToday(t *testing.T) {
	s := Chart(Asset{ID: "bitcoin", Price: 100}, 7, DefaultVolatility, rand.New(rand.NewSource(1)), chartDay)

	require.Len(t, s.Points, 8)
	assert.Equal(t, "2026-10-09", s.Points[0].Date)
	assert.Equal(t, "2026-10-16", s.Points[7].Date)
	assert.Equal(t, 7, s.Days)
}

func TestChart_WalkStepsWithinVolatility(t *testing.T) {
	s := Chart(Asset{Price: 100}, 90, 0.05, rand.New(rand.NewSource(2)), chartDay)

	prev := 100.0
	for _, p := range s.Points {
		assert.InDelta(t, prev, p.Price, prev*0.025+1e-9)
		prev = p.Price
	}
}

func TestChart_Floor(t *testing.T) {
	s := Chart(Asset{Price: 0.0101}, 365, 1.9, rand.New(rand.NewSource(5)), chartDay)

	for _, p := range s.Points {
		assert.GreaterOrEqual(t, p.Price, MinChartPrice)
	}
}

func TestChart_SMAOverlay(t *testing.T) {
	s := Chart(Asset{Price: 50}, 30, DefaultVolatility, rand.New(rand.NewSource(9)), chartDay)

	for i := 0; i < smaPeriod-1; i++ {
		assert.Nil(t, s.Points[i].SMA)
	}
	require.NotNil(t, s.Points[smaPeriod-1].SMA)

	sum := 0.0
	for i := 0; i < smaPeriod; i++ {
		sum += s.Points[i].Price
	}
	assert.InDelta(t, sum/smaPeriod, *s.Points[smaPeriod-1].SMA, 1e-9)
}

func TestChart_ShortSeriesHasNoSMA(t *testing.T) {
	s := Chart(Asset{Price: 50}, 1, DefaultVolatility, rand.New(rand.NewSource(9)), chartDay)

	require.Len(t, s.Points, 2)
	for _, p := range s.Points {
		assert.Nil(t, p.SMA)
	}
}

func TestChart_Stats(t *testing.T) {
	s := Chart(Asset{Price: 50}, 30, DefaultVolatility, rand.New(rand.NewSource(11)), chartDay)

	first := s.Points[0].Price
	last := s.Points[len(s.Points)-1].Price
	assert.InDelta(t, last-first, s.Stats.Change, 1e-9)
	assert.Equal(t, last >= first, s.Stats.Positive)
	assert.LessOrEqual(t, s.Stats.Min, s.Stats.Mean)
	assert.GreaterOrEqual(t, s.Stats.Max, s.Stats.Mean)
	assert.Greater(t, s.Stats.StdDev, 0.0)
}

func TestChart_ClampsDays(t *testing.T) {
	s := Chart(Asset{Price: 1}, 10000, DefaultVolatility, rand.New(rand.NewSource(1)), chartDay)
	assert.Len(t, s.Points, MaxChartDays+1)

	s = Chart(Asset{Price: 1}, -4, DefaultVolatility, rand.New(rand.NewSource(1)), chartDay)
	assert.Len(t, s.Points, 1)
	assert.Zero(t, s.Stats.StdDev)
}
