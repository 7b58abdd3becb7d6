// Package market holds the coin listing the dashboard shows: a fixed table of
// assets whose prices are moved by a simulated feed, plus favorites and
// synthetic chart history.
package market

import (
	"errors"
	"time"
)

// FavoritesKey is the key-value store key holding the favorite asset ids
const FavoritesKey = "favorites"

// ErrUnknownAsset is returned for an asset id that is not in the table
var ErrUnknownAsset = errors.New("unknown asset")

// ErrInvalidPrice is returned for a manual price that is not a finite positive number
var ErrInvalidPrice = errors.New("invalid price")

// ErrInvalidQuery is returned when a listing query cannot be applied
var ErrInvalidQuery = errors.New("invalid query")

// Asset is one row of the market table
type Asset struct {
	ID                string   `json:"id"`
	Rank              int      `json:"rank"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	Price             float64  `json:"price"`
	PercentChange1h   float64  `json:"percentChange1h"`
	PercentChange24h  float64  `json:"percentChange24h"`
	PercentChange7d   float64  `json:"percentChange7d"`
	MarketCap         float64  `json:"marketCap"`
	Volume24h         float64  `json:"volume24h"`
	CirculatingSupply float64  `json:"circulatingSupply"`
	MaxSupply         *float64 `json:"maxSupply"`
}

// PriceUpdate is one tick of the asset price feed
type PriceUpdate struct {
	AssetID          string    `json:"id"`
	Price            float64   `json:"price"`
	PercentChange1h  float64   `json:"percentChange1h"`
	PercentChange24h float64   `json:"percentChange24h"`
	PercentChange7d  float64   `json:"percentChange7d"`
	Volume24h        float64   `json:"volume24h"`
	Timestamp        time.Time `json:"timestamp"`
}

// SortDir is a listing sort direction
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// DefaultPerPage is the listing page size when none is given
const DefaultPerPage = 10

// MaxPerPage caps the listing page size
const MaxPerPage = 100

// Query selects a page of the listing
type Query struct {
	Search        string
	FavoritesOnly bool
	SortKey       string
	SortDir       SortDir
	Page          int
	PerPage       int
}

// Page is one page of the filtered, sorted listing
type Page struct {
	Items      []Asset `json:"items"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
}
