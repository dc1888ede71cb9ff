package provider

import (
	"context"
	"sync"

	"MarketArchiver/internal/model"
)

// MockResponse is one scripted answer from the MockSession.
type MockResponse struct {
	Bars []model.Bar
	Err  error
}

// MockCall records one RequestBars invocation for assertions.
type MockCall struct {
	Ticker  string
	Chunk   model.Chunk
	BarSize string
}

// MockSession returns scripted data for development and testing. Responses
// are consumed per ticker in order; once a ticker's queue is exhausted (or
// absent) the session generates deterministic bars covering the requested
// chunk.
type MockSession struct {
	ConnectErr error
	Queues     map[string][]MockResponse
	BasePrice  float64

	mu        sync.Mutex
	connected bool
	Calls     []MockCall
}

func NewMockSession() *MockSession {
	return &MockSession{Queues: make(map[string][]MockResponse), BasePrice: 100}
}

func (m *MockSession) Name() string { return "mock" }

func (m *MockSession) Connect(_ context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

func (m *MockSession) Disconnect() {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
}

// Enqueue appends a scripted response for a ticker.
func (m *MockSession) Enqueue(ticker string, resp MockResponse) {
	m.Queues[ticker] = append(m.Queues[ticker], resp)
}

func (m *MockSession) RequestBars(_ context.Context, sym model.Symbol, chunk model.Chunk, barSize string) ([]model.Bar, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Ticker: sym.Ticker, Chunk: chunk, BarSize: barSize})
	queue := m.Queues[sym.Ticker]
	if len(queue) > 0 {
		resp := queue[0]
		m.Queues[sym.Ticker] = queue[1:]
		m.mu.Unlock()
		return resp.Bars, resp.Err
	}
	m.mu.Unlock()
	return GenerateBars(chunk.Range, m.BasePrice), nil
}

// GenerateBars produces one synthetic bar per calendar day across a range,
// with a mild drift so return calculations have something to chew on.
func GenerateBars(r model.DateRange, basePrice float64) []model.Bar {
	days := r.Days()
	bars := make([]model.Bar, 0, days)
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.Bar{
			Date:   r.Start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
	}
	return bars
}
