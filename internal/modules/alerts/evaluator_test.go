package alerts

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestEvaluator() *Evaluator {
	e := NewEvaluator(nil)
	n := 0
	e.newID = func() string {
		n++
		return fmt.Sprintf("alert-%d", n)
	}
	e.now = func() time.Time { return testNow }
	return e
}

func mustAdd(t *testing.T, e *Evaluator, assetID string, c Condition, threshold float64) Alert {
	t.Helper()
	a, err := e.Add(assetID, "SYM", c, threshold)
	require.NoError(t, err)
	return a
}

func TestOnPriceUpdate_Above(t *testing.T) {
	cases := []struct {
		price float64
		fires bool
	}{
		{99.99, false},
		{100, true},
		{150, true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.price), func(t *testing.T) {
			e := newTestEvaluator()
			mustAdd(t, e, "x", Above, 100)

			fired := e.OnPriceUpdate("x", "SYM", tc.price, testNow)
			assert.Equal(t, tc.fires, len(fired) == 1)
		})
	}
}

func TestOnPriceUpdate_Below(t *testing.T) {
	cases := []struct {
		price float64
		fires bool
	}{
		{50.01, false},
		{50, true},
		{10, true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.price), func(t *testing.T) {
			e := newTestEvaluator()
			mustAdd(t, e, "x", Below, 50)

			fired := e.OnPriceUpdate("x", "SYM", tc.price, testNow)
			assert.Equal(t, tc.fires, len(fired) == 1)
		})
	}
}

func TestOnPriceUpdate_SetsTriggerFieldsOnce(t *testing.T) {
	e := newTestEvaluator()
	a := mustAdd(t, e, "x", Above, 100)

	fired := e.OnPriceUpdate("x", "SYM", 120, testNow)
	require.Len(t, fired, 1)
	assert.Equal(t, a.ID, fired[0].ID)
	assert.True(t, fired[0].Triggered)
	require.NotNil(t, fired[0].TriggeredPrice)
	assert.Equal(t, 120.0, *fired[0].TriggeredPrice)
	require.NotNil(t, fired[0].TriggeredAt)
	assert.True(t, testNow.Equal(*fired[0].TriggeredAt))

	later := testNow.Add(time.Hour)
	assert.Empty(t, e.OnPriceUpdate("x", "SYM", 500, later))

	stored := e.All()[0]
	assert.Equal(t, 120.0, *stored.TriggeredPrice)
	assert.True(t, testNow.Equal(*stored.TriggeredAt))
}

func TestOnPriceUpdate_TwoAlertsScenario(t *testing.T) {
	e := newTestEvaluator()
	mustAdd(t, e, "x", Above, 100)
	below := mustAdd(t, e, "x", Below, 50)

	assert.Empty(t, e.OnPriceUpdate("x", "SYM", 75, testNow))

	fired := e.OnPriceUpdate("x", "SYM", 40, testNow)
	require.Len(t, fired, 1)
	assert.Equal(t, below.ID, fired[0].ID)
	assert.Len(t, e.Active(), 1)
	assert.Len(t, e.Triggered(), 1)
}

func TestOnPriceUpdate_OtherAssetIgnored(t *testing.T) {
	e := newTestEvaluator()
	mustAdd(t, e, "bitcoin", Above, 1)

	assert.Empty(t, e.OnPriceUpdate("ethereum", "ETH", 1000, testNow))
	assert.Len(t, e.Active(), 1)
}

func TestOnPriceUpdate_SymbolFallback(t *testing.T) {
	e := newTestEvaluator()
	bySymbol, err := e.Add("", "btc", Above, 100)
	require.NoError(t, err)
	// An alert with an asset id never matches by symbol alone
	_, err = e.Add("wrapped-bitcoin", "BTC", Above, 100)
	require.NoError(t, err)

	fired := e.OnPriceUpdate("bitcoin", "BTC", 200, testNow)
	require.Len(t, fired, 1)
	assert.Equal(t, bySymbol.ID, fired[0].ID)
}

func TestAdd_Validation(t *testing.T) {
	e := newTestEvaluator()

	_, err := e.Add("", "", Above, 10)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = e.Add("x", "X", Condition("equals"), 10)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = e.Add("x", "X", Above, 0)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = e.Add("x", "X", Below, -3)
	assert.ErrorIs(t, err, ErrInvalidAlert)

	assert.Empty(t, e.All())
}

func TestAdd_Defaults(t *testing.T) {
	e := newTestEvaluator()
	a := mustAdd(t, e, "x", Below, 5)

	assert.Equal(t, "alert-1", a.ID)
	assert.False(t, a.Triggered)
	assert.Nil(t, a.TriggeredPrice)
	assert.Nil(t, a.TriggeredAt)
	assert.Equal(t, testNow, a.CreatedAt)
}

func TestRemove(t *testing.T) {
	e := newTestEvaluator()
	a := mustAdd(t, e, "x", Above, 1)
	b := mustAdd(t, e, "x", Above, 2)

	_, ok := e.Remove("missing")
	assert.False(t, ok)

	removed, ok := e.Remove(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.ID, removed.ID)

	all := e.All()
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestClearTriggered_KeepsOrder(t *testing.T) {
	e := newTestEvaluator()
	mustAdd(t, e, "x", Above, 10)
	a2 := mustAdd(t, e, "x", Above, 1000)
	mustAdd(t, e, "x", Below, 20)
	a4 := mustAdd(t, e, "x", Above, 2000)

	e.OnPriceUpdate("x", "SYM", 15, testNow) // fires a1 and a3

	assert.Equal(t, 2, e.ClearTriggered())
	all := e.All()
	require.Len(t, all, 2)
	assert.Equal(t, a2.ID, all[0].ID)
	assert.Equal(t, a4.ID, all[1].ID)
	assert.Empty(t, e.Triggered())

	assert.Zero(t, e.ClearTriggered())
}

func TestVisible(t *testing.T) {
	e := newTestEvaluator()
	mustAdd(t, e, "x", Above, 10)
	mustAdd(t, e, "x", Above, 100)
	e.OnPriceUpdate("x", "SYM", 50, testNow)

	assert.Len(t, e.Visible(true), 2)
	visible := e.Visible(false)
	require.Len(t, visible, 1)
	assert.False(t, visible[0].Triggered)
}

func TestBySymbol(t *testing.T) {
	e := newTestEvaluator()
	_, _ = e.Add("bitcoin", "BTC", Above, 10)
	_, _ = e.Add("ethereum", "ETH", Above, 10)

	assert.Len(t, e.BySymbol("btc"), 1)
	assert.Empty(t, e.BySymbol("DOGE"))
}
