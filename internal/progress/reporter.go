// Package progress reports how far a catalog import has got.
package progress

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress of a run over a known number of items.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter draws a progress bar when stderr is a terminal and logs one
// line per item otherwise, so piped and CI output stays readable.
func NewReporter(description string) Reporter {
	if os.Getenv("CI") == "" && isatty.IsTerminal(os.Stderr.Fd()) {
		return &BarReporter{description: description}
	}
	return NewLogReporter(description, slog.Default())
}

// BarReporter draws a progress bar on stderr.
type BarReporter struct {
	description string
	bar         *progressbar.ProgressBar
}

func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(r.description + ": " + message)
	_ = r.bar.Set(current)
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LogReporter writes each step as a structured log record.
type LogReporter struct {
	description string
	logger      *slog.Logger
	total       int
}

// NewLogReporter creates a reporter logging to logger.
func NewLogReporter(description string, logger *slog.Logger) *LogReporter {
	return &LogReporter{description: description, logger: logger}
}

func (r *LogReporter) Start(total int) {
	r.total = total
	r.logger.Info(r.description, "total", total)
}

func (r *LogReporter) Update(current int, message string) {
	r.logger.Info(r.description, "item", message, "done", current, "total", r.total)
}

func (r *LogReporter) Finish() {
	r.logger.Info(r.description+" finished", "total", r.total)
}

// Discard is a Reporter that reports nothing.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Start(int)          {}
func (discard) Update(int, string) {}
func (discard) Finish()            {}
