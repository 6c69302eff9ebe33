package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Output renders command results as either tabulated text or indented
// JSON. Data goes to stdout, status messages to stderr, so JSON output
// stays pipeable.
type Output struct {
	jsonMode bool
	w        io.Writer
	errW     io.Writer
}

func NewOutput(format string) *Output {
	return &Output{
		jsonMode: format == "json",
		w:        os.Stdout,
		errW:     os.Stderr,
	}
}

// List renders a result set: a table in table mode, the raw records in
// JSON mode.
func (o *Output) List(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(o.errW, "No results.")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Detail renders a single record as aligned key/value lines, or the raw
// record in JSON mode.
func (o *Output) Detail(pairs [][2]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	for _, kv := range pairs {
		fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
	}
	tw.Flush()
}

// JSON writes v indented to stdout.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck
}

// Success writes a confirmation line to stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, "✓ "+msg)
}

// Info writes an informational line to stderr.
func (o *Output) Info(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// confirm prompts on stderr and reads a y/N answer from stdin.
func confirm(msg string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", msg)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// formatTime renders a millisecond Unix timestamp, "-" when absent.
func formatTime(millis int64) string {
	if millis == 0 {
		return "-"
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

// orDash substitutes "-" for an empty table cell.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
