package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/aristath/coindash/internal/events"
)

type pingModule struct{}

func (pingModule) RegisterRoutes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestServer(bus *events.Bus) *Server {
	return New(Config{
		Log:      zerolog.Nop(),
		EventBus: bus,
		Modules:  []RouteRegistrar{pingModule{}},
		Port:     0,
		DevMode:  true,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "coindash", body["service"])
	assert.Contains(t, body, "cpu_percent")
	assert.Contains(t, body, "ram_percent")
}

func TestModulesMountedUnderAPI(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventStreamNotMountedWithoutBus(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events/ws", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseTypes(t *testing.T) {
	assert.Equal(t, events.AllEventTypes, parseTypes(""))
	assert.Equal(t,
		[]events.EventType{events.PriceUpdated, events.AlertTriggered},
		parseTypes("price_updated, ALERT_TRIGGERED,PRICE_UPDATED,bogus"),
	)
	assert.Empty(t, parseTypes("bogus"))
}

func TestEventStreamRejectsUnknownFilter(t *testing.T) {
	s := newTestServer(events.NewBus(zerolog.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/api/events/ws?types=bogus", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) streamMessage {
	t.Helper()
	typ, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)

	var msg streamMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func TestEventStreamForwardsEvents(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	manager := events.NewManager(bus, zerolog.Nop())
	ts := httptest.NewServer(newTestServer(bus).Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws?types=PRICE_UPDATED"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	hello := readMessage(t, ctx, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.Equal(t, 1, bus.SubscriberCount(events.PriceUpdated))
	assert.Equal(t, 0, bus.SubscriberCount(events.AlertAdded))

	manager.EmitTyped("market", &events.PriceUpdatedData{AssetID: "bitcoin", Symbol: "BTC", Price: 43000})

	msg := readMessage(t, ctx, conn)
	assert.Equal(t, string(events.PriceUpdated), msg.Type)
	assert.Equal(t, "market", msg.Module)
	assert.Equal(t, "bitcoin", msg.Data["asset_id"])
	assert.Equal(t, 43000.0, msg.Data["price"])
}

func TestEventStreamUnsubscribesOnDisconnect(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	ts := httptest.NewServer(newTestServer(bus).Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)

	readMessage(t, ctx, conn)
	assert.Equal(t, 1, bus.SubscriberCount(events.AlertTriggered))

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	assert.Eventually(t, func() bool {
		return bus.SubscriberCount(events.AlertTriggered) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
