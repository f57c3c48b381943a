package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ingestkit/wayfind/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables per-result detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with per-result details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(summary model.RunSummary, results []model.Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeFrontier(&sb, summary)
	w.writeFailures(&sb, results)
	if w.verbose {
		w.writeResults(&sb, results)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          WAYFIND RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Strategy:   %s\n", summary.Strategy))
	sb.WriteString(fmt.Sprintf("Seed:       %s\n", summary.Seed))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", summary.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Succeeded:  %d\n", summary.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", summary.Failed))
	sb.WriteString("\n")
}

// writeFrontier writes the frontier accounting section.
func (w *SimpleWriter) writeFrontier(sb *strings.Builder, summary model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FRONTIER\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	f := summary.Frontier
	sb.WriteString(fmt.Sprintf("  Dispatched:     %d\n", f.Dispatched))
	sb.WriteString(fmt.Sprintf("  Enqueued:       %d\n", f.Enqueued))
	sb.WriteString(fmt.Sprintf("  Duplicates:     %d\n", f.Duplicate))
	sb.WriteString(fmt.Sprintf("  Filtered:       %d\n", f.Filtered))
	sb.WriteString(fmt.Sprintf("  Depth exceeded: %d\n", f.DepthExceeded))
	sb.WriteString(fmt.Sprintf("  Malformed:      %d\n", f.Malformed))
	sb.WriteString("\n")
}

// writeFailures writes failed results grouped by error kind.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, results []model.Result) {
	kinds, grouped := failuresByKind(results)
	if len(kinds) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(kinds) == 0 {
		sb.WriteString("  No failures\n\n")
		return
	}

	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("[%s] %d\n", displayKind(kind), len(grouped[kind])))
		for _, res := range grouped[kind] {
			sb.WriteString(fmt.Sprintf("  * %s\n", res.Task.Target))
			if w.verbose && res.Err != nil {
				sb.WriteString(fmt.Sprintf("    %s\n", res.Err.Message))
			}
		}
		sb.WriteString("\n")
	}
}

// writeResults writes every yielded result with its detail.
func (w *SimpleWriter) writeResults(sb *strings.Builder, results []model.Result) {
	if len(results) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, res := range results {
		marker := "+"
		if !res.Success {
			marker = "!"
		}
		sb.WriteString(fmt.Sprintf("  [%s] depth %d  %s\n", marker, res.Task.Depth, res.Task.Target))
		if res.Title != "" {
			sb.WriteString(fmt.Sprintf("      Title: %s\n", res.Title))
		}
		if res.StatusCode != 0 {
			sb.WriteString(fmt.Sprintf("      Status: %d\n", res.StatusCode))
		}
		if len(res.Rows) > 0 {
			sb.WriteString(fmt.Sprintf("      Rows: %d\n", len(res.Rows)))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by wayfind\n")
	sb.WriteString("https://github.com/ingestkit/wayfind\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// kindCaser title-cases error kinds for display ("not_found" -> "Not Found").
var kindCaser = cases.Title(language.English)

// displayKind renders an error kind for human-readable output.
func displayKind(kind model.ErrorKind) string {
	if kind == "" {
		return "Unknown"
	}
	return kindCaser.String(strings.ReplaceAll(string(kind), "_", " "))
}
