package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fraudlab/txload/pkg/txload"
	"golang.org/x/term"
)

var (
	colorSuccess = lipgloss.Color("34")  // Green
	colorMuted   = lipgloss.Color("240") // Dark gray
)

// isStyledOutput reports whether w is a terminal that accepts color.
// NO_COLOR and CI switch styling off, as do pipes and files.
func isStyledOutput(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// printSuccess writes the success line. It is the only stdout output of a load.
func printSuccess(w io.Writer) {
	if isStyledOutput(w) {
		style := lipgloss.NewRenderer(w).NewStyle().Foreground(colorSuccess).Bold(true)
		fmt.Fprintln(w, style.Render(txload.SuccessMessage))
		return
	}
	fmt.Fprintln(w, txload.SuccessMessage)
}

// printTableSummary writes one line per table written.
func printTableSummary(w io.Writer, result *txload.Result) {
	muted := func(s string) string { return s }
	if isStyledOutput(w) {
		style := lipgloss.NewRenderer(w).NewStyle().Foreground(colorMuted)
		muted = func(s string) string { return style.Render(s) }
	}

	for _, t := range result.Tables {
		fmt.Fprintln(w, muted(fmt.Sprintf("  %-6s -> %s: %d rows, %d columns", t.Dataset, t.Table, t.Rows, t.Columns)))
	}
	fmt.Fprintln(w, muted(fmt.Sprintf("  run %s: %d rows in %v", result.RunID, result.TotalRows(), result.Duration.Round(time.Millisecond))))
}
