package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostics logger. Verbose output adds debug
// records and timestamps; the default keeps stderr terse for CI logs.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	opts := log.Options{Prefix: "hgschema", Level: log.InfoLevel}
	if verbose {
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
		opts.TimeFormat = "15:04:05.000"
	}
	return log.NewWithOptions(w, opts)
}

// batch tallies the documents handled by one command invocation.
type batch struct {
	logger  *log.Logger
	start   time.Time
	files   int
	invalid int
}

func newBatch(l *log.Logger) *batch {
	return &batch{logger: l, start: time.Now()}
}

// record counts one document; issues is the number of failing paths.
func (b *batch) record(path string, issues int) {
	b.files++
	if issues > 0 {
		b.invalid++
	}
	b.logger.Debug("checked", "path", path, "issues", issues)
}

// finish logs the totals, e.g. "checked 3 files invalid=1 elapsed=12ms".
func (b *batch) finish() {
	b.logger.Info(fmt.Sprintf("checked %d files", b.files),
		"invalid", b.invalid,
		"elapsed", time.Since(b.start).Round(time.Millisecond))
}
