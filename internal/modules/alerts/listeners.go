package alerts

import (
	"github.com/aristath/coindash/internal/events"
	"github.com/rs/zerolog"
)

// RegisterListeners subscribes the alert service to PRICE_UPDATED.
// It must be called once per bus; every applied price then reaches the
// evaluator exactly one time.
func RegisterListeners(bus *events.Bus, service *Service, log zerolog.Logger) uint64 {
	log = log.With().Str("component", "alert_listeners").Logger()

	return bus.Subscribe(events.PriceUpdated, func(event *events.Event) {
		data, ok := event.GetTypedData().(*events.PriceUpdatedData)
		if !ok {
			log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Discarding price event with unreadable payload")
			return
		}

		at := data.Timestamp
		if at.IsZero() {
			at = event.Timestamp
		}
		service.OnPriceUpdate(data.AssetID, data.Symbol, data.Price, at)
	})
}
