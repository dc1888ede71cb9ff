package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"MarketArchiver/internal/model"
)

// GatewaySession talks to a locally running market-data gateway over its
// REST bridge. The gateway holds the real upstream session, so this adapter
// owns exactly one logical connection: Connect acquires it, Disconnect
// releases it, and every RequestBars call is bounded by a timeout because
// the upstream is known to hang on overly broad requests.
type GatewaySession struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration // zero means: derive from bar size
	Client         *http.Client

	mu        sync.Mutex
	sessionID string
}

// NewGatewaySession creates an adapter with optional proxy support.
func NewGatewaySession(baseURL, apiKey, proxyURL string, requestTimeout time.Duration) *GatewaySession {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GatewaySession{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		RequestTimeout: requestTimeout,
		Client: &http.Client{
			// No client-level timeout: each request carries its own
			// context deadline sized to the bar granularity.
			Transport: transport,
		},
	}
}

func (g *GatewaySession) Name() string { return "gateway" }

// gatewayError is the JSON error envelope returned on non-2xx responses.
type gatewayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// gatewayBar is the JSON shape of one bar from the gateway.
type gatewayBar struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Connect opens the gateway session. The gateway refuses a second session
// while one is live, which keeps the single-session invariant honest even
// if two processes race.
func (g *GatewaySession) Connect(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sessionID != "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/v1/session", nil)
	if err != nil {
		return fmt.Errorf("build connect request: %w", err)
	}
	g.auth(req)
	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("connect to gateway at %s: %w", g.BaseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("connect to gateway: status %d, body: %s", resp.StatusCode, string(body))
	}
	var result struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if result.SessionID == "" {
		return fmt.Errorf("connect to gateway: empty session id")
	}
	g.sessionID = result.SessionID
	return nil
}

// Disconnect releases the gateway session. Safe to call repeatedly and
// after a failed Connect.
func (g *GatewaySession) Disconnect() {
	g.mu.Lock()
	id := g.sessionID
	g.sessionID = ""
	g.mu.Unlock()
	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.BaseURL+"/api/v1/session/"+id, nil)
	if err != nil {
		return
	}
	g.auth(req)
	if resp, err := g.Client.Do(req); err == nil {
		resp.Body.Close()
	}
}

// RequestBars fetches one chunk of history. Timeouts and connectivity drops
// surface as transient errors; gateway error codes are classified per
// ClassifyCode.
func (g *GatewaySession) RequestBars(ctx context.Context, sym model.Symbol, chunk model.Chunk, barSize string) ([]model.Bar, error) {
	g.mu.Lock()
	id := g.sessionID
	g.mu.Unlock()
	if id == "" {
		return nil, fmt.Errorf("session not connected")
	}

	timeout := g.RequestTimeout
	if timeout <= 0 {
		timeout = model.RecommendedTimeout(barSize)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := url.Parse(g.BaseURL + "/api/v1/bars")
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", sym.Ticker)
	q.Set("kind", string(sym.Kind))
	q.Set("start", chunk.Range.Start.Format("2006-01-02"))
	q.Set("end", chunk.Range.End.Format("2006-01-02"))
	q.Set("bar_size", barSize)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build bars request: %w", err)
	}
	req.Header.Set("X-Session-ID", id)
	g.auth(req)

	resp, err := g.Client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, Timeout(timeout)
		}
		return nil, NewError(CodeConnectivityLost, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if err := json.NewDecoder(resp.Body).Decode(&ge); err != nil || ge.Code == 0 {
			return nil, NewError(CodeConnectivityLost, fmt.Sprintf("gateway status %d", resp.StatusCode))
		}
		return nil, NewError(ge.Code, ge.Message)
	}

	var rows []gatewayBar
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		d, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("decode bar date %q: %w", row.Date, err)
		}
		bars = append(bars, model.Bar{
			Date:   d,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	// The gateway does not guarantee ordering within a chunk.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (g *GatewaySession) auth(req *http.Request) {
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}
}
