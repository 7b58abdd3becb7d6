package market

import (
	"fmt"
	"sort"
	"strings"
)

// Table is the in-memory listing, kept in rank order.
// It has no locking; Service serializes access.
type Table struct {
	assets []Asset
	index  map[string]int
}

// NewTable creates a table over a copy of assets
func NewTable(assets []Asset) *Table {
	t := &Table{
		assets: make([]Asset, len(assets)),
		index:  make(map[string]int, len(assets)),
	}
	copy(t.assets, assets)
	for i, a := range t.assets {
		t.index[a.ID] = i
	}
	return t
}

// Apply writes a price update into the asset's row. Updates for an unknown
// asset are ignored and report false.
func (t *Table) Apply(u PriceUpdate) (Asset, bool) {
	i, ok := t.index[u.AssetID]
	if !ok {
		return Asset{}, false
	}
	a := &t.assets[i]
	a.Price = u.Price
	a.PercentChange1h = u.PercentChange1h
	a.PercentChange24h = u.PercentChange24h
	a.PercentChange7d = u.PercentChange7d
	a.Volume24h = u.Volume24h
	return *a, true
}

// Get returns a copy of one asset
func (t *Table) Get(assetID string) (Asset, bool) {
	i, ok := t.index[assetID]
	if !ok {
		return Asset{}, false
	}
	return t.assets[i], true
}

// Price returns the asset's current price
func (t *Table) Price(assetID string) (float64, bool) {
	a, ok := t.Get(assetID)
	return a.Price, ok
}

// All returns a copy of every asset in rank order
func (t *Table) All() []Asset {
	out := make([]Asset, len(t.assets))
	copy(out, t.assets)
	return out
}

// Len returns the number of assets
func (t *Table) Len() int {
	return len(t.assets)
}

// Filter returns the assets matching the search term and favorites filter,
// in rank order. Search is a case-insensitive substring match on name or symbol.
func (t *Table) Filter(search string, favoritesOnly bool, favorites *Favorites) []Asset {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Asset, 0, len(t.assets))
	for _, a := range t.assets {
		if term != "" &&
			!strings.Contains(strings.ToLower(a.Name), term) &&
			!strings.Contains(strings.ToLower(a.Symbol), term) {
			continue
		}
		if favoritesOnly && (favorites == nil || !favorites.Contains(a.ID)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Sorted filters then sorts the listing. Ties keep rank order.
func (t *Table) Sorted(q Query, favorites *Favorites) ([]Asset, error) {
	q = q.withDefaults()
	less, err := lessFor(q.SortKey)
	if err != nil {
		return nil, err
	}
	if q.SortDir != SortAsc && q.SortDir != SortDesc {
		return nil, fmt.Errorf("%w: sort direction %q", ErrInvalidQuery, q.SortDir)
	}

	items := t.Filter(q.Search, q.FavoritesOnly, favorites)
	sort.SliceStable(items, func(i, j int) bool {
		if q.SortDir == SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	return items, nil
}

// Query returns one page of the filtered and sorted listing.
// A page past the end is empty; TotalPages is ceil(Total/PerPage).
// PerPage is capped at MaxPerPage.
func (t *Table) Query(q Query, favorites *Favorites) (Page, error) {
	q = q.withDefaults()
	items, err := t.Sorted(q, favorites)
	if err != nil {
		return Page{}, err
	}

	total := len(items)
	start := total
	if q.Page-1 < (total+q.PerPage-1)/q.PerPage {
		start = (q.Page - 1) * q.PerPage
	}
	end := total
	if total-start > q.PerPage {
		end = start + q.PerPage
	}

	return Page{
		Items:      items[start:end],
		Total:      total,
		TotalPages: (total + q.PerPage - 1) / q.PerPage,
		Page:       q.Page,
		PerPage:    q.PerPage,
	}, nil
}

func (q Query) withDefaults() Query {
	if q.SortKey == "" {
		q.SortKey = "rank"
	}
	if q.SortDir == "" {
		q.SortDir = SortAsc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

func lessFor(key string) (func(a, b Asset) bool, error) {
	number := func(f func(Asset) float64) func(a, b Asset) bool {
		return func(a, b Asset) bool { return f(a) < f(b) }
	}

	switch key {
	case "rank":
		return func(a, b Asset) bool { return a.Rank < b.Rank }, nil
	case "name":
		return func(a, b Asset) bool { return a.Name < b.Name }, nil
	case "symbol":
		return func(a, b Asset) bool { return a.Symbol < b.Symbol }, nil
	case "id":
		return func(a, b Asset) bool { return a.ID < b.ID }, nil
	case "price":
		return number(func(a Asset) float64 { return a.Price }), nil
	case "percentChange1h":
		return number(func(a Asset) float64 { return a.PercentChange1h }), nil
	case "percentChange24h":
		return number(func(a Asset) float64 { return a.PercentChange24h }), nil
	case "percentChange7d":
		return number(func(a Asset) float64 { return a.PercentChange7d }), nil
	case "marketCap":
		return number(func(a Asset) float64 { return a.MarketCap }), nil
	case "volume24h":
		return number(func(a Asset) float64 { return a.Volume24h }), nil
	case "circulatingSupply":
		return number(func(a Asset) float64 { return a.CirculatingSupply }), nil
	case "maxSupply":
		// uncapped supply sorts as 0
		return number(func(a Asset) float64 {
			if a.MaxSupply == nil {
				return 0
			}
			return *a.MaxSupply
		}), nil
	}
	return nil, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, key)
}
