package portfolio

import "sort"

// Valuation is a position marked to the current market price
type Valuation struct {
	AssetID          string  `json:"cryptoId"`
	Quantity         float64 `json:"amount"`
	AverageCost      float64 `json:"avgBuyPrice"`
	CurrentPrice     float64 `json:"currentPrice"`
	TotalValue       float64 `json:"totalValue"`
	TotalCost        float64 `json:"totalCost"`
	Profit           float64 `json:"profit"`
	ProfitPercentage float64 `json:"profitPercentage"`
}

// Summary aggregates the valuations of every position
type Summary struct {
	Positions        []Valuation `json:"positions"`
	TotalValue       float64     `json:"totalValue"`
	TotalCost        float64     `json:"totalCost"`
	Profit           float64     `json:"profit"`
	ProfitPercentage float64     `json:"profitPercentage"`
}

// Valuate marks a position to price. An empty position values to zero everywhere.
// ProfitPercentage is 0 when there is no cost basis to divide by.
func Valuate(assetID string, pos Position, price float64) Valuation {
	v := Valuation{
		AssetID:      assetID,
		Quantity:     pos.Quantity,
		AverageCost:  pos.AverageCost,
		CurrentPrice: price,
	}
	if pos.Quantity == 0 {
		return v
	}

	v.TotalValue = pos.Quantity * price
	v.TotalCost = pos.TotalCost
	v.Profit = v.TotalValue - v.TotalCost
	v.ProfitPercentage = percentOf(v.Profit, v.TotalCost)
	return v
}

// RealizedGain is the gain of selling quantity at sellPrice against the average
// cost held at the time of the sale
func RealizedGain(sellPrice, averageCost, quantity float64) float64 {
	return (sellPrice - averageCost) * quantity
}

// Summarize values every position with priceOf; assets without a price are valued at 0.
// Positions are ordered by asset id.
func Summarize(positions map[string]Position, priceOf func(assetID string) (float64, bool)) Summary {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := Summary{Positions: make([]Valuation, 0, len(ids))}
	for _, id := range ids {
		price, _ := priceOf(id)
		v := Valuate(id, positions[id], price)
		s.Positions = append(s.Positions, v)
		s.TotalValue += v.TotalValue
		s.TotalCost += v.TotalCost
	}
	s.Profit = s.TotalValue - s.TotalCost
	s.ProfitPercentage = percentOf(s.Profit, s.TotalCost)
	return s
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
