package market

import (
	"math"
	"math/rand"
	"time"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultVolatility is the per-day random walk amplitude
	DefaultVolatility = 0.05
	// MinChartPrice floors every generated price
	MinChartPrice = 0.01
	// MaxChartDays bounds the requested history
	MaxChartDays = 365
	// smaPeriod is the moving average window of the overlay
	smaPeriod = 7
)

// Timeframes maps the dashboard's chart ranges to a number of days
var Timeframes = map[string]int{
	"24h": 1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// ChartPoint is one day of synthetic history
type ChartPoint struct {
	Date  string   `json:"date"`
	Price float64  `json:"price"`
	SMA   *float64 `json:"sma,omitempty"`
}

// ChartStats summarizes a series
type ChartStats struct {
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"stdDev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Positive      bool    `json:"positive"`
}

// Series is the chart of one asset over days+1 points ending today
type Series struct {
	AssetID string       `json:"id"`
	Name    string       `json:"name"`
	Days    int          `json:"days"`
	Points  []ChartPoint `json:"points"`
	Stats   ChartStats   `json:"stats"`
}

// Chart generates a random walk starting at the asset's current price.
// Each step moves by (U(0,1)-0.5)*volatility*price and is floored at MinChartPrice.
// Dates run from today-days up to today.
func Chart(asset Asset, days int, volatility float64, rng *rand.Rand, today time.Time) Series {
	if days < 0 {
		days = 0
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}
	if volatility <= 0 {
		volatility = DefaultVolatility
	}

	prices := make([]float64, 0, days+1)
	points := make([]ChartPoint, 0, days+1)
	price := asset.Price
	for i := days; i >= 0; i-- {
		change := (rng.Float64() - 0.5) * volatility * price
		price = math.Max(MinChartPrice, price+change)
		prices = append(prices, price)
		points = append(points, ChartPoint{
			Date:  today.AddDate(0, 0, -i).Format("2006-01-02"),
			Price: price,
		})
	}

	if len(prices) >= smaPeriod {
		sma := talib.Sma(prices, smaPeriod)
		for i := smaPeriod - 1; i < len(sma) && i < len(points); i++ {
			v := sma[i]
			points[i].SMA = &v
		}
	}

	return Series{
		AssetID: asset.ID,
		Name:    asset.Name,
		Days:    days,
		Points:  points,
		Stats:   summarize(prices),
	}
}

func summarize(prices []float64) ChartStats {
	if len(prices) == 0 {
		return ChartStats{}
	}

	first, last := prices[0], prices[len(prices)-1]
	s := ChartStats{
		Mean:     stat.Mean(prices, nil),
		Min:      floats.Min(prices),
		Max:      floats.Max(prices),
		Change:   last - first,
		Positive: last >= first,
	}
	if len(prices) > 1 {
		s.StdDev = stat.StdDev(prices, nil)
	}
	if first != 0 {
		s.ChangePercent = (last - first) / first * 100
	}
	return s
}
