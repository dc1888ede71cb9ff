package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBarSize is used when no bar size is configured.
const DefaultBarSize = "1 day"

// validBarSizes are the provider-accepted bar size settings.
var validBarSizes = map[string]bool{
	"30 secs": true,
	"1 min":   true, "2 mins": true, "3 mins": true, "5 mins": true,
	"10 mins": true, "15 mins": true, "20 mins": true, "30 mins": true,
	"1 hour": true, "2 hours": true, "3 hours": true, "4 hours": true, "8 hours": true,
	"1 day": true, "1 week": true, "1 month": true,
}

// NormalizeBarSize validates a bar size string, fixing common unit spellings
// ("1 minute" -> "1 min", "2 hrs" -> "2 hours"). An empty input yields the
// default. Unrecognized sizes are rejected so a typo cannot silently request
// the wrong granularity.
func NormalizeBarSize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultBarSize, nil
	}
	parts := strings.Fields(strings.ToLower(s))
	if len(parts) == 2 {
		num, unit := parts[0], parts[1]
		switch unit {
		case "sec", "second", "seconds":
			unit = "secs"
		case "minute", "minutes":
			unit = "mins"
		case "hr", "h":
			unit = "hour"
		case "hrs":
			unit = "hours"
		}
		if num == "1" && unit == "mins" {
			unit = "min"
		} else if num != "1" && unit == "min" {
			unit = "mins"
		}
		s = num + " " + unit
	}
	if !validBarSizes[s] {
		return "", fmt.Errorf("unsupported bar size %q", raw)
	}
	return s, nil
}

// RecommendedTimeout returns the per-request timeout appropriate for a bar
// size: high-frequency requests return far more rows and the provider is
// slower to serve them.
func RecommendedTimeout(barSize string) time.Duration {
	switch barSize {
	case "30 secs":
		return 120 * time.Second
	case "1 min", "2 mins", "3 mins", "5 mins":
		return 90 * time.Second
	case "10 mins", "15 mins", "20 mins", "30 mins":
		return 75 * time.Second
	case "1 hour", "2 hours", "3 hours", "4 hours", "8 hours":
		return 60 * time.Second
	default:
		return 45 * time.Second
	}
}
