package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/donaldgifford/card-price-catalog/internal/pipeline"
	"github.com/donaldgifford/card-price-catalog/pkg/report"
)

// stdout is where reports go; tests swap it out.
var stdout io.Writer = os.Stdout

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printStageResults(stage string, results []pipeline.StageResult) error {
	if jsonOutput() {
		return outputJSON(map[string]any{"stage": stage, "files": results})
	}

	tw := newTabWriter(stdout)
	tw.writef("INPUT\tOUTPUT\tIN\tOUT\n")
	for i := range results {
		r := &results[i]
		out := r.Output
		if r.Skipped {
			out = "(skipped: unexpected format)"
		}
		tw.writef("%s\t%s\t%d\t%d\n", r.Input, out, r.CardsIn, r.CardsOut)
	}
	return tw.finish()
}

func printReport(r *report.Report) error {
	if jsonOutput() {
		return outputJSON(r)
	}
	_, err := io.WriteString(stdout, report.Format(r))
	return err
}

func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
