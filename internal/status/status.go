// Package status writes a small text snapshot of the duck for outside viewers.
package status

import (
	"fmt"
	"log/slog"
	"os"
)

// Snapshot is what gets exported each tick.
type Snapshot struct {
	ElapsedSeconds int
	Eggs           int
	Chaos          bool
}

// Format renders the three-line file body.
func (s Snapshot) Format() string {
	chaos := "False"
	if s.Chaos {
		chaos = "True"
	}
	return fmt.Sprintf("last_fed=%d\neggs=%d\nchaos=%s\n", s.ElapsedSeconds, s.Eggs, chaos)
}

// Exporter overwrites one file per Write. Not atomic; readers may see a partial file.
type Exporter struct {
	path   string
	logger *slog.Logger
}

func NewExporter(path string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{path: path, logger: logger}
}

// Write is fire-and-forget: errors are logged and dropped.
func (e *Exporter) Write(s Snapshot) {
	if err := os.WriteFile(e.path, []byte(s.Format()), 0o644); err != nil {
		e.logger.Debug("status: write failed", "path", e.path, "err", err)
	}
}
