// Package render draws version records and release history as tables for CLI output.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	domain "github.com/kidevu123/expense-release/internal/domain/release"
	"github.com/kidevu123/expense-release/internal/repository/history"
)

// neverReleased is shown for records that predate the first release.
const neverReleased = "never"

// Record renders the version record as a two-column table.
func Record(w io.Writer, record *domain.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendRows([]table.Row{
		{"Version", record.String()},
		{"Build", record.Build},
		{"Display", record.DisplayVersion()},
		{"Commit", orDash(record.Commit)},
		{"Branch", orDash(record.Branch)},
		{"Released", formatTime(record.ReleasedAt)},
	})

	t.Render()
}

// History renders release history entries, newest first.
func History(w io.Writer, entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No releases recorded yet.")

		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Version", "Build", "Kind", "Tag", "Commit", "Released", "Message"})

	for _, entry := range entries {
		t.AppendRow(table.Row{
			entry.Version,
			entry.Build,
			entry.Kind,
			entry.Tag,
			orDash(entry.Commit),
			formatTime(entry.ReleasedAt),
			entry.Message,
		})
	}

	t.Render()
}

// Successf prints a green confirmation line.
func Successf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.GreenString(format, args...))
}

// formatTime renders a release timestamp in UTC (records are stamped in
// UTC), or a placeholder when zero.
func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return neverReleased
	}

	return ts.UTC().Format(time.RFC1123)
}

// orDash substitutes a dash for empty values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
