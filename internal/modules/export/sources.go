package export

import (
	"time"

	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/aristath/coindash/internal/modules/market"
	"github.com/aristath/coindash/internal/modules/portfolio"
)

// Dataset names an exportable record source
type Dataset string

const (
	DatasetMarket       Dataset = "market"
	DatasetTransactions Dataset = "transactions"
	DatasetHoldings     Dataset = "holdings"
	DatasetAlerts       Dataset = "alerts"
)

// Datasets lists every exportable dataset
var Datasets = []Dataset{DatasetMarket, DatasetTransactions, DatasetHoldings, DatasetAlerts}

// MarketRecords flattens assets with the listing's column order
func MarketRecords(assets []market.Asset) []Record {
	out := make([]Record, 0, len(assets))
	for _, a := range assets {
		out = append(out, Record{
			{"id", a.ID},
			{"rank", a.Rank},
			{"name", a.Name},
			{"symbol", a.Symbol},
			{"price", a.Price},
			{"percentChange1h", a.PercentChange1h},
			{"percentChange24h", a.PercentChange24h},
			{"percentChange7d", a.PercentChange7d},
			{"marketCap", a.MarketCap},
			{"volume24h", a.Volume24h},
			{"circulatingSupply", a.CirculatingSupply},
			{"maxSupply", a.MaxSupply},
		})
	}
	return out
}

// TransactionRecords flattens ledger transactions
func TransactionRecords(txs []portfolio.Transaction) []Record {
	out := make([]Record, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Record{
			{"id", tx.ID},
			{"cryptoId", tx.AssetID},
			{"type", string(tx.Kind)},
			{"amount", tx.Quantity},
			{"price", tx.UnitPrice},
			{"date", tx.Date},
			{"total", tx.Cost()},
		})
	}
	return out
}

// HoldingRecords flattens valued positions
func HoldingRecords(summary portfolio.Summary) []Record {
	out := make([]Record, 0, len(summary.Positions))
	for _, v := range summary.Positions {
		out = append(out, Record{
			{"cryptoId", v.AssetID},
			{"amount", v.Quantity},
			{"avgBuyPrice", v.AverageCost},
			{"totalCost", v.TotalCost},
			{"currentPrice", v.CurrentPrice},
			{"totalValue", v.TotalValue},
			{"profit", v.Profit},
			{"profitPercentage", v.ProfitPercentage},
		})
	}
	return out
}

// AlertRecords flattens alerts; trigger columns are empty for active alerts
func AlertRecords(list []alerts.Alert) []Record {
	out := make([]Record, 0, len(list))
	for _, a := range list {
		var triggeredAt interface{}
		if a.TriggeredAt != nil {
			triggeredAt = a.TriggeredAt.UTC().Format(time.RFC3339)
		}
		out = append(out, Record{
			{"id", a.ID},
			{"cryptoId", a.AssetID},
			{"cryptoSymbol", a.AssetSymbol},
			{"condition", string(a.Condition)},
			{"price", a.Threshold},
			{"triggered", a.Triggered},
			{"triggerPrice", a.TriggeredPrice},
			{"triggeredAt", triggeredAt},
			{"createdAt", a.CreatedAt.UTC().Format(time.RFC3339)},
		})
	}
	return out
}
