package events

import (
	"go.uber.org/zap"
)

// ZapSink renders core events as structured zap log entries.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Emit(e Event) {
	switch ev := e.(type) {
	case FetchStarted:
		s.log.Info("fetch started",
			zap.String("symbol", ev.Ticker),
			zap.String("start_date", ev.StartDate.Format("2006-01-02")))
	case ChunkResult:
		if ev.Err != nil {
			s.log.Warn("chunk failed",
				zap.String("symbol", ev.Ticker),
				zap.Int("chunk", ev.ChunkIndex),
				zap.Error(ev.Err))
			return
		}
		s.log.Info("chunk fetched",
			zap.String("symbol", ev.Ticker),
			zap.Int("chunk", ev.ChunkIndex),
			zap.Int("bars", ev.Bars))
	case RetryScheduled:
		s.log.Warn("retrying chunk",
			zap.String("symbol", ev.Ticker),
			zap.Int("chunk", ev.ChunkIndex),
			zap.Int("attempt", ev.Attempt),
			zap.Duration("delay", ev.Delay),
			zap.Error(ev.Err))
	case DataQuality:
		s.log.Warn("data quality issue",
			zap.String("symbol", ev.Ticker),
			zap.String("detail", ev.Detail))
	case SymbolResult:
		if !ev.Success {
			s.log.Warn("symbol failed",
				zap.String("symbol", ev.Ticker),
				zap.String("reason", ev.Reason),
				zap.Duration("elapsed", ev.Elapsed))
			return
		}
		s.log.Info("symbol reconciled",
			zap.String("symbol", ev.Ticker),
			zap.Int("records", ev.Records),
			zap.Bool("data_quality_warning", ev.Warning),
			zap.Duration("elapsed", ev.Elapsed))
	case BatchSummary:
		s.log.Info("batch finished",
			zap.Int("total", ev.Total),
			zap.Int("success", ev.Success),
			zap.Int("failed", ev.Failed),
			zap.Duration("elapsed", ev.Elapsed))
	}
}
