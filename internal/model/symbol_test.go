package model

import "testing"

func TestNewSymbol_NormalizesAndInfersKind(t *testing.T) {
	cases := []struct {
		raw    string
		ticker string
		kind   SecurityKind
	}{
		{"aapl", "AAPL", KindEquity},
		{"  msft ", "MSFT", KindEquity},
		{"NDX", "NDX", KindIndex},
		{"spx", "SPX", KindIndex},
		{"COMPX", "COMPX", KindIndex},
		{"BRK.B", "BRK.B", KindUnknown},
		{"TOOLONG", "TOOLONG", KindUnknown},
		{"AB12", "AB12", KindUnknown},
	}
	for _, c := range cases {
		sym := NewSymbol(c.raw)
		if sym.Ticker != c.ticker {
			t.Errorf("NewSymbol(%q).Ticker = %q, want %q", c.raw, sym.Ticker, c.ticker)
		}
		if sym.Kind != c.kind {
			t.Errorf("NewSymbol(%q).Kind = %s, want %s", c.raw, sym.Kind, c.kind)
		}
	}
}

func TestIsDelisted(t *testing.T) {
	if !IsDelisted("$SIVB$") {
		t.Error("expected $SIVB$ to be delisted")
	}
	if !IsDelisted("  $FRC$ ") {
		t.Error("expected whitespace-padded marker to be delisted")
	}
	if IsDelisted("AAPL") {
		t.Error("AAPL is not delisted")
	}
	if IsDelisted("$") {
		t.Error("a lone marker is not a delisted entry")
	}
}
