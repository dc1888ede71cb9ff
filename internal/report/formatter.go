// Package report renders batch reports for the console.
package report

import (
	"fmt"
	"strings"
	"time"

	"MarketArchiver/internal/model"
)

// FormatBatchReport renders the final per-symbol table and totals.
func FormatBatchReport(r *model.BatchReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Batch %s | %s -> %s\n",
		r.RunID, r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02")))
	b.WriteString(strings.Repeat("-", 72) + "\n")

	for _, o := range r.Outcomes {
		if o.Success {
			b.WriteString(fmt.Sprintf("  %-8s OK    %5d bars  %s -> %s  return %+.2f%%",
				o.Symbol.Ticker, o.Records,
				o.FirstDate.Format("2006-01-02"), o.LastDate.Format("2006-01-02"),
				o.TotalReturn))
			if o.Warning {
				b.WriteString("  [data quality]")
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  %-8s FAIL  %s\n", o.Symbol.Ticker, o.Reason))
	}

	b.WriteString(strings.Repeat("-", 72) + "\n")
	b.WriteString(fmt.Sprintf("total %d | success %d | failed %d | elapsed %s\n",
		len(r.Outcomes), r.Success(), r.Failed(), r.Elapsed().Round(time.Second)))
	if r.OutputDir != "" {
		b.WriteString(fmt.Sprintf("output: %s\n", r.OutputDir))
	}
	return b.String()
}
