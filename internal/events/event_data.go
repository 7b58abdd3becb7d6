package events

import (
	"encoding/json"
	"time"
)

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// PriceUpdatedData is the Asset Price Feed event after it has been applied to the coin table
type PriceUpdatedData struct {
	AssetID          string    `json:"asset_id"`
	Symbol           string    `json:"symbol"`
	Price            float64   `json:"price"`
	PercentChange1h  float64   `json:"percent_change_1h"`
	PercentChange24h float64   `json:"percent_change_24h"`
	PercentChange7d  float64   `json:"percent_change_7d"`
	Volume24h        float64   `json:"volume_24h"`
	Timestamp        time.Time `json:"timestamp"`
}

// EventType returns the event type for PriceUpdatedData
func (d *PriceUpdatedData) EventType() EventType {
	return PriceUpdated
}

// FavoritesChangedData contains data for FavoritesChanged events
type FavoritesChangedData struct {
	AssetID   string `json:"asset_id"`
	Favorite  bool   `json:"favorite"`
	Favorites int    `json:"favorites"`
}

// EventType returns the event type for FavoritesChangedData
func (d *FavoritesChangedData) EventType() EventType {
	return FavoritesChanged
}

// TransactionData contains data for TransactionRecorded and TransactionRemoved events
type TransactionData struct {
	Type          EventType `json:"-"`
	TransactionID string    `json:"transaction_id"`
	AssetID       string    `json:"asset_id"`
	Kind          string    `json:"kind"`
	Quantity      float64   `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Position      float64   `json:"position_quantity"`
}

// EventType returns the event type for TransactionData
func (d *TransactionData) EventType() EventType {
	if d.Type == "" {
		return TransactionRecorded
	}
	return d.Type
}

// PortfolioClearedData contains data for PortfolioCleared events
type PortfolioClearedData struct {
	Transactions int `json:"transactions"`
}

// EventType returns the event type for PortfolioClearedData
func (d *PortfolioClearedData) EventType() EventType {
	return PortfolioCleared
}

// AlertData contains data for AlertAdded, AlertRemoved and AlertTriggered events
type AlertData struct {
	Type           EventType `json:"-"`
	AlertID        string    `json:"alert_id"`
	AssetID        string    `json:"asset_id"`
	Symbol         string    `json:"symbol"`
	Condition      string    `json:"condition"`
	Threshold      float64   `json:"threshold"`
	TriggeredPrice *float64  `json:"triggered_price,omitempty"`
	TriggeredAt    string    `json:"triggered_at,omitempty"`
}

// EventType returns the event type for AlertData
func (d *AlertData) EventType() EventType {
	if d.Type == "" {
		return AlertAdded
	}
	return d.Type
}

// AlertsClearedData contains data for AlertsCleared events
type AlertsClearedData struct {
	Removed int `json:"removed"`
}

// EventType returns the event type for AlertsClearedData
func (d *AlertsClearedData) EventType() EventType {
	return AlertsCleared
}

// ExportWrittenData contains data for ExportWritten events
type ExportWrittenData struct {
	Dataset  string `json:"dataset"`
	Format   string `json:"format"`
	FileName string `json:"file_name"`
	Records  int    `json:"records"`
	Bytes    int    `json:"bytes"`
}

// EventType returns the event type for ExportWrittenData
func (d *ExportWrittenData) EventType() EventType {
	return ExportWritten
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}

// convertMapToStruct converts a map[string]interface{} to a struct
func convertMapToStruct(m map[string]interface{}, v interface{}) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonBytes, v)
}

// convertEventDataToMap converts typed EventData to the map carried on the bus
func convertEventDataToMap(data EventData) map[string]interface{} {
	if data == nil {
		return nil
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil
	}

	return result
}
