package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
gateway:
  base_url: "http://127.0.0.1:5000"
batch:
  symbols: [AAPL, MSFT]
  start_date: "2020-01-01"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Fetch.BarSize != "1 day" {
		t.Errorf("bar size default = %q", cfg.Fetch.BarSize)
	}
	if cfg.Fetch.MaxWindowDays != 365 {
		t.Errorf("max window default = %d", cfg.Fetch.MaxWindowDays)
	}
	if cfg.RequestSpacing().Seconds() != 3 {
		t.Errorf("spacing default = %s", cfg.RequestSpacing())
	}
	if cfg.Fetch.MaxRetries != 2 {
		t.Errorf("retries default = %d", cfg.Fetch.MaxRetries)
	}
	if !cfg.PersistEnabled() {
		t.Error("persist should default to true")
	}
	if cfg.Batch.OutputDir == "" || cfg.Database.SQLitePath == "" {
		t.Error("path defaults missing")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("GATEWAY_BASE_URL", "http://gateway.internal:5000")
	t.Setenv("MAX_WINDOW_DAYS", "30")

	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://gateway.internal:5000" {
		t.Errorf("base url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Fetch.MaxWindowDays != 30 {
		t.Errorf("max window = %d, want env override 30", cfg.Fetch.MaxWindowDays)
	}
}

func TestLoad_MissingFileStillYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fetch.BarSize != "1 day" {
		t.Errorf("bar size default = %q", cfg.Fetch.BarSize)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no base url", `
batch:
  symbols: [AAPL]
  start_date: "2020-01-01"
`},
		{"no symbols", `
gateway:
  base_url: "http://x"
batch:
  start_date: "2020-01-01"
`},
		{"bad start date", `
gateway:
  base_url: "http://x"
batch:
  symbols: [AAPL]
  start_date: "01/02/2020"
`},
		{"bad bar size", `
gateway:
  base_url: "http://x"
batch:
  symbols: [AAPL]
  start_date: "2020-01-01"
fetch:
  bar_size: "7 mins"
`},
	}
	for _, c := range cases {
		cfg, err := Load(writeConfig(t, c.yaml))
		if err != nil {
			t.Fatalf("%s: load: %v", c.name, err)
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}
