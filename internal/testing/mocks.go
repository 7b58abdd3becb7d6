package testing

import (
	"sync"

	"github.com/aristath/coindash/internal/kvstore"
)

var _ kvstore.Store = (*MockStore)(nil)

// MockStore is an in-memory kvstore.Store that counts writes and can be told to fail
type MockStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

// Seed stores value under key without counting it as a write
func (m *MockStore) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
}

// SetGetError makes every Get fail with err
func (m *MockStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetSetError makes every Set fail with err; the value is not stored
func (m *MockStore) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// Sets returns the number of Set calls, failed ones included
func (m *MockStore) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// Get mock implementation
func (m *MockStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set mock implementation
func (m *MockStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// StubPrices is a fixed price table for services that value holdings
type StubPrices map[string]float64

// Price returns the stubbed price for assetID
func (p StubPrices) Price(assetID string) (float64, bool) {
	v, ok := p[assetID]
	return v, ok
}
