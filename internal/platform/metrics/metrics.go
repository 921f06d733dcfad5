package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts engine invocations. Previews are recomputed on every
// keystroke, so the preview/finalize split matters when sizing capacity.
type Collector struct {
	previews          uint64
	previewErrors     uint64
	finalizes         uint64
	finalizeErrors    uint64
	finalizeConflicts uint64
	totalDurationMs   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) RecordPreview(duration time.Duration, err error) {
	atomic.AddUint64(&c.previews, 1)
	if err != nil {
		atomic.AddUint64(&c.previewErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordFinalize(duration time.Duration, err error, conflict bool) {
	atomic.AddUint64(&c.finalizes, 1)
	if err != nil {
		atomic.AddUint64(&c.finalizeErrors, 1)
	}
	if conflict {
		atomic.AddUint64(&c.finalizeConflicts, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	previews := atomic.LoadUint64(&c.previews)
	finalizes := atomic.LoadUint64(&c.finalizes)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total := previews + finalizes; total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"previewsTotal":          previews,
		"previewErrorsTotal":     atomic.LoadUint64(&c.previewErrors),
		"finalizesTotal":         finalizes,
		"finalizeErrorsTotal":    atomic.LoadUint64(&c.finalizeErrors),
		"finalizeConflictsTotal": atomic.LoadUint64(&c.finalizeConflicts),
		"avgDurationMs":          avg,
	}
}
