// Package portfolio keeps the simulated portfolio: an append/remove log of buy and
// sell transactions and, per asset, a running position with an average cost basis.
package portfolio

import (
	"errors"
	"math"
)

// StoreKey is the key-value store key holding the serialized Ledger
const StoreKey = "portfolio"

// ErrInvalidTransaction is returned when a transaction fails validation.
// The ledger is left unchanged.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Kind is the side of a trade
type Kind string

const (
	KindBuy  Kind = "buy"
	KindSell Kind = "sell"
)

// Valid reports whether k is buy or sell
func (k Kind) Valid() bool {
	return k == KindBuy || k == KindSell
}

// Transaction is an immutable record of one trade.
// JSON names match the blob written by the browser dashboard.
type Transaction struct {
	ID        string  `json:"id"`
	AssetID   string  `json:"cryptoId"`
	Kind      Kind    `json:"type"`
	Quantity  float64 `json:"amount"`
	UnitPrice float64 `json:"price"`
	Date      string  `json:"date"` // YYYY-MM-DD, caller supplied
}

// Cost returns quantity * unit price
func (t Transaction) Cost() float64 {
	return t.Quantity * t.UnitPrice
}

// Position is the derived holding of one asset.
// AverageCost == TotalCost / Quantity whenever Quantity > 0; all three are 0 otherwise.
type Position struct {
	Quantity    float64 `json:"amount"`
	AverageCost float64 `json:"avgBuyPrice"`
	TotalCost   float64 `json:"totalCost"`
}

func (p *Position) reset() {
	p.Quantity = 0
	p.TotalCost = 0
	p.AverageCost = 0
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1) && !math.IsNaN(v)
}
