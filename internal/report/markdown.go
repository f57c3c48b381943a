package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ingestkit/wayfind/internal/model"
)

// MarkdownWriter outputs run reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(summary model.RunSummary, results []model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeFrontier(md, summary)
	w.writeFailures(md, summary, results)
	w.writeResults(md, results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary model.RunSummary) {
	md.H1("Wayfind Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + summary.RunID + "`"},
			{"Strategy", string(summary.Strategy)},
			{"Seed", "`" + summary.Seed + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed)},
		},
	})
	md.PlainText("")
}

// writeFrontier writes the frontier accounting section.
func (w *MarkdownWriter) writeFrontier(md *markdown.Markdown, summary model.RunSummary) {
	md.H2("Frontier")
	md.PlainText("")

	f := summary.Frontier
	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Count"},
		Rows: [][]string{
			{"Dispatched", strconv.Itoa(f.Dispatched)},
			{"Enqueued", strconv.Itoa(f.Enqueued)},
			{"Duplicates", strconv.Itoa(f.Duplicate)},
			{"Filtered", strconv.Itoa(f.Filtered)},
			{"Depth exceeded", strconv.Itoa(f.DepthExceeded)},
			{"Malformed", strconv.Itoa(f.Malformed)},
		},
	})
	md.PlainText("")
}

// writeFailures writes the failure breakdown with an alert and pie chart.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, summary model.RunSummary, results []model.Result) {
	md.H2("Failures")
	md.PlainText("")

	kinds, grouped := failuresByKind(results)
	if len(kinds) == 0 {
		md.Tip("Every dispatched task completed successfully.")
		md.PlainText("")
		return
	}

	switch {
	case summary.Succeeded == 0:
		md.Cautionf("All %d dispatched task(s) failed.", summary.Failed)
	case summary.Failed > summary.Succeeded:
		md.Warningf("%d of %d result(s) failed.", summary.Failed, summary.Failed+summary.Succeeded)
	default:
		md.Importantf("%d result(s) failed.", summary.Failed)
	}
	md.PlainText("")

	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		rows = append(rows, []string{displayKind(kind), strconv.Itoa(len(grouped[kind]))})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Error Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary, kinds, grouped)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary model.RunSummary, kinds []model.ErrorKind, grouped map[model.ErrorKind][]model.Result) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Result Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.Succeeded > 0 {
		chart.LabelAndIntValue("Succeeded", uint64(summary.Succeeded))
	}
	for _, kind := range kinds {
		chart.LabelAndIntValue(displayKind(kind), uint64(len(grouped[kind])))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes the per-result table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []model.Result) {
	md.H2("Results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No results were yielded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i, res := range results {
		outcome := "ok"
		if !res.Success {
			outcome = string(res.ErrorKind())
		}

		detail := res.Title
		if detail == "" && len(res.Rows) > 0 {
			detail = strconv.Itoa(len(res.Rows)) + " rows"
		}
		if detail == "" {
			detail = "-"
		}

		rows[i] = []string{
			truncateString(res.Task.Target, 60),
			strconv.Itoa(res.Task.Depth),
			outcome,
			truncateString(detail, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Target", "Depth", "Outcome", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wayfind](https://github.com/ingestkit/wayfind)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
