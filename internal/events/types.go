// Package events provides event management functionality.
package events

// EventType represents different event types
type EventType string

const (
	// Market events
	PriceUpdated     EventType = "PRICE_UPDATED"
	FavoritesChanged EventType = "FAVORITES_CHANGED"

	// Portfolio events
	TransactionRecorded EventType = "TRANSACTION_RECORDED"
	TransactionRemoved  EventType = "TRANSACTION_REMOVED"
	PortfolioCleared    EventType = "PORTFOLIO_CLEARED"

	// Alert events
	AlertAdded     EventType = "ALERT_ADDED"
	AlertRemoved   EventType = "ALERT_REMOVED"
	AlertTriggered EventType = "ALERT_TRIGGERED"
	AlertsCleared  EventType = "ALERTS_CLEARED"

	// Export events
	ExportWritten EventType = "EXPORT_WRITTEN"

	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type, in the order streaming clients see them documented
var AllEventTypes = []EventType{
	PriceUpdated,
	FavoritesChanged,
	TransactionRecorded,
	TransactionRemoved,
	PortfolioCleared,
	AlertAdded,
	AlertRemoved,
	AlertTriggered,
	AlertsCleared,
	ExportWritten,
	ErrorOccurred,
}
