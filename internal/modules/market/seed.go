package market

import "math/rand"

// span is a uniform range base + rand*width
type span struct{ base, width float64 }

func (s span) draw(rng *rand.Rand) float64 {
	return s.base + rng.Float64()*s.width
}

type seedRow struct {
	id, name, symbol string
	price, marketCap span
	volume, supply   span
	maxSupply        float64
}

// seedRows is the starting listing, in rank order. maxSupply 0 means uncapped.
var seedRows = []seedRow{
	{"bitcoin", "Bitcoin", "BTC", span{50000, 5000}, span{950e9, 50e9}, span{30e9, 10e9}, span{19e6, 100e3}, 21e6},
	{"ethereum", "Ethereum", "ETH", span{3000, 500}, span{350e9, 20e9}, span{15e9, 5e9}, span{120e6, 1e6}, 0},
	{"binancecoin", "Binance Coin", "BNB", span{400, 50}, span{65e9, 5e9}, span{2e9, 500e6}, span{160e6, 1e6}, 200e6},
	{"cardano", "Cardano", "ADA", span{1.2, 0.3}, span{40e9, 3e9}, span{1.5e9, 500e6}, span{33e9, 100e6}, 45e9},
	{"solana", "Solana", "SOL", span{100, 20}, span{35e9, 3e9}, span{2.5e9, 500e6}, span{350e6, 10e6}, 0},
	{"ripple", "XRP", "XRP", span{0.8, 0.2}, span{38e9, 2e9}, span{3e9, 1e9}, span{46e9, 100e6}, 100e9},
	{"polkadot", "Polkadot", "DOT", span{20, 5}, span{20e9, 2e9}, span{1e9, 300e6}, span{1e9, 50e6}, 0},
	{"dogecoin", "Dogecoin", "DOGE", span{0.15, 0.05}, span{19e9, 1e9}, span{1.2e9, 300e6}, span{130e9, 1e9}, 0},
	{"avalanche", "Avalanche", "AVAX", span{70, 10}, span{17e9, 1e9}, span{800e6, 200e6}, span{240e6, 5e6}, 720e6},
	{"terra-luna", "Terra", "LUNA", span{85, 15}, span{30e9, 2e9}, span{2e9, 500e6}, span{350e6, 10e6}, 1e9},
	{"chainlink", "Chainlink", "LINK", span{25, 5}, span{12e9, 1e9}, span{1e9, 300e6}, span{460e6, 10e6}, 1e9},
	{"litecoin", "Litecoin", "LTC", span{150, 20}, span{10e9, 1e9}, span{1.5e9, 500e6}, span{67e6, 1e6}, 84e6},
	{"uniswap", "Uniswap", "UNI", span{20, 5}, span{9e9, 1e9}, span{300e6, 100e6}, span{450e6, 10e6}, 1e9},
	{"algorand", "Algorand", "ALGO", span{1.5, 0.3}, span{9e9, 500e6}, span{300e6, 100e6}, span{6e9, 100e6}, 10e9},
	{"stellar", "Stellar", "XLM", span{0.3, 0.05}, span{7.5e9, 500e6}, span{500e6, 100e6}, span{24e9, 100e6}, 50e9},
}

// SeedAssets builds the starting listing with prices drawn inside each coin's range
func SeedAssets(rng *rand.Rand) []Asset {
	assets := make([]Asset, 0, len(seedRows))
	for i, row := range seedRows {
		a := Asset{
			ID:                row.id,
			Rank:              i + 1,
			Name:              row.name,
			Symbol:            row.symbol,
			Price:             row.price.draw(rng),
			PercentChange1h:   span{-1, 2}.draw(rng),
			PercentChange24h:  span{-5, 10}.draw(rng),
			PercentChange7d:   span{-10, 20}.draw(rng),
			MarketCap:         row.marketCap.draw(rng),
			Volume24h:         row.volume.draw(rng),
			CirculatingSupply: row.supply.draw(rng),
		}
		if row.maxSupply > 0 {
			capped := row.maxSupply
			a.MaxSupply = &capped
		}
		assets = append(assets, a)
	}
	return assets
}
