package model

import "strings"

// SecurityKind distinguishes the contract type requested from the provider.
type SecurityKind string

const (
	KindEquity  SecurityKind = "EQUITY"
	KindIndex   SecurityKind = "INDEX"
	KindUnknown SecurityKind = "UNKNOWN"
)

// DelistingMarker wraps symbols that have left the index and must not be
// fetched, e.g. "$SIVB$".
const DelistingMarker = "$"

// Symbol is a normalized security identifier plus its resolved kind.
type Symbol struct {
	Ticker string
	Kind   SecurityKind
}

// indexSymbols are the market indices the provider resolves as IND contracts.
var indexSymbols = map[string]bool{
	"NDX":   true,
	"SPX":   true,
	"RUT":   true,
	"VIX":   true,
	"DJI":   true,
	"IXIC":  true,
	"COMPX": true,
}

// NormalizeTicker trims whitespace and uppercases a raw symbol string.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsDelisted reports whether a raw entry carries the delisting marker.
func IsDelisted(raw string) bool {
	s := strings.TrimSpace(raw)
	return len(s) >= 2 && strings.HasPrefix(s, DelistingMarker) && strings.HasSuffix(s, DelistingMarker)
}

// InferKind resolves the security kind for a normalized ticker: known index
// symbols map to KindIndex, plain 1-5 letter tickers to KindEquity, and
// everything else to KindUnknown. Unknown kinds are rejected before any
// provider request is issued.
func InferKind(ticker string) SecurityKind {
	if indexSymbols[ticker] {
		return KindIndex
	}
	if len(ticker) >= 1 && len(ticker) <= 5 && isAlpha(ticker) {
		return KindEquity
	}
	return KindUnknown
}

// NewSymbol normalizes a raw entry and resolves its kind.
func NewSymbol(raw string) Symbol {
	t := NormalizeTicker(raw)
	return Symbol{Ticker: t, Kind: InferKind(t)}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
