package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"MarketArchiver/internal/model"
)

// csvDate renders bar dates as plain calendar dates in the output files.
type csvDate struct{ time.Time }

func (d csvDate) MarshalCSV() (string, error) {
	return d.Format("2006-01-02"), nil
}

func (d *csvDate) UnmarshalCSV(s string) error {
	t, err := time.Parse("2006-01-02", s)
	d.Time = t
	return err
}

// csvBar is the on-disk row contract expected by downstream consumers:
// header present, comma-separated, dates ascending with no duplicates.
type csvBar struct {
	Date   csvDate `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// CSVSink writes one UTF-8 CSV file per symbol, named <TICKER>.csv.
type CSVSink struct{}

func NewCSVSink() *CSVSink { return &CSVSink{} }

func (s *CSVSink) Name() string { return "csv" }

// Write persists the series to <dir>/<TICKER>.csv, creating the directory
// if needed. The file is written to a temp name first and renamed so a
// crash never leaves a truncated file where a complete one used to be.
func (s *CSVSink) Write(sym model.Symbol, bars []model.Bar, dir string) error {
	if len(bars) == 0 {
		return fmt.Errorf("refusing to write empty series for %s", sym.Ticker)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rows := make([]csvBar, len(bars))
	for i, b := range bars {
		rows[i] = csvBar{
			Date:   csvDate{model.Day(b.Date)},
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}

	final := filepath.Join(dir, sym.Ticker+".csv")
	tmp := final + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write csv for %s: %w", sym.Ticker, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
