package portfolio

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Ledger is the in-memory portfolio state: the transaction log and the positions
// derived from it. Positions are updated incrementally, never by replaying the log.
//
// Ledger has no locking and no storage dependency; Service owns one and persists it.
type Ledger struct {
	Holdings     map[string]*Position `json:"holdings"`
	Transactions []Transaction        `json:"transactions"`

	newID func() string
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	l := &Ledger{}
	l.init()
	return l
}

func (l *Ledger) init() {
	if l.Holdings == nil {
		l.Holdings = make(map[string]*Position)
	}
	if l.Transactions == nil {
		l.Transactions = []Transaction{}
	}
	if l.newID == nil {
		l.newID = func() string { return uuid.New().String() }
	}
}

// Record appends a transaction and applies it to the asset's position.
//
// buy:  totalCost += q*p, quantity += q, averageCost = totalCost/quantity
// sell: quantity = max(0, quantity-q); cost and average are untouched unless the
// quantity reaches exactly 0, in which case both reset to 0. Partial sells do not
// reduce the cost basis.
func (l *Ledger) Record(assetID string, kind Kind, quantity, unitPrice float64, date string) (Transaction, error) {
	l.init()

	if assetID == "" {
		return Transaction{}, fmt.Errorf("%w: asset id is required", ErrInvalidTransaction)
	}
	if !kind.Valid() {
		return Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, kind)
	}
	if !positiveFinite(quantity) {
		return Transaction{}, fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidTransaction, quantity)
	}
	if !positiveFinite(unitPrice) {
		return Transaction{}, fmt.Errorf("%w: unit price must be positive, got %v", ErrInvalidTransaction, unitPrice)
	}

	tx := Transaction{
		ID:        l.newID(),
		AssetID:   assetID,
		Kind:      kind,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Date:      date,
	}
	l.Transactions = append(l.Transactions, tx)

	pos := l.holding(assetID)
	switch kind {
	case KindBuy:
		totalCost := pos.TotalCost + quantity*unitPrice
		totalQuantity := pos.Quantity + quantity
		pos.Quantity = totalQuantity
		pos.TotalCost = totalCost
		pos.AverageCost = totalCost / totalQuantity
	case KindSell:
		pos.Quantity = math.Max(0, pos.Quantity-quantity)
		if pos.Quantity == 0 {
			pos.reset()
		}
	}

	return tx, nil
}

// Remove deletes a transaction and undoes its effect on the position incrementally.
//
// Undoing a buy subtracts its cost and quantity (resetting the position when nothing
// is left). Undoing a sell only adds the quantity back, so the average cost can
// drift from what a full replay of the remaining log would give.
//
// Returns false when the id is unknown.
func (l *Ledger) Remove(transactionID string) (Transaction, bool) {
	l.init()

	idx := -1
	for i, tx := range l.Transactions {
		if tx.ID == transactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Transaction{}, false
	}

	tx := l.Transactions[idx]
	l.Transactions = append(l.Transactions[:idx:idx], l.Transactions[idx+1:]...)

	pos := l.holding(tx.AssetID)
	switch tx.Kind {
	case KindBuy:
		newTotalCost := pos.TotalCost - tx.Quantity*tx.UnitPrice
		newQuantity := pos.Quantity - tx.Quantity
		if newQuantity > 0 {
			pos.Quantity = newQuantity
			pos.TotalCost = newTotalCost
			pos.AverageCost = newTotalCost / newQuantity
		} else {
			pos.reset()
		}
	case KindSell:
		pos.Quantity += tx.Quantity
	}

	return tx, true
}

// Position returns a copy of the asset's position
func (l *Ledger) Position(assetID string) (Position, bool) {
	pos, ok := l.Holdings[assetID]
	if !ok || pos == nil {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns a copy of every position keyed by asset id
func (l *Ledger) Positions() map[string]Position {
	out := make(map[string]Position, len(l.Holdings))
	for id, pos := range l.Holdings {
		if pos != nil {
			out[id] = *pos
		}
	}
	return out
}

// TransactionsFor returns the asset's transactions in insertion order
func (l *Ledger) TransactionsFor(assetID string) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range l.Transactions {
		if tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	return out
}

// AllTransactions returns a copy of the whole log in insertion order
func (l *Ledger) AllTransactions() []Transaction {
	out := make([]Transaction, len(l.Transactions))
	copy(out, l.Transactions)
	return out
}

// Clear empties all transactions and positions
func (l *Ledger) Clear() {
	l.Holdings = make(map[string]*Position)
	l.Transactions = []Transaction{}
}

// holding returns the asset's position, creating a zero one on first use
func (l *Ledger) holding(assetID string) *Position {
	pos, ok := l.Holdings[assetID]
	if !ok || pos == nil {
		pos = &Position{}
		l.Holdings[assetID] = pos
	}
	return pos
}
