package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// printSummary writes a one-line run summary plus one line per skipped
// document. Color is used only when w is a terminal.
func printSummary(w io.Writer, s runSummary) {
	colorOutput := false
	if f, ok := w.(*os.File); ok {
		colorOutput = isatty.IsTerminal(f.Fd())
	}

	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)
	gray := color.New(color.FgHiBlack)
	if !colorOutput {
		for _, c := range []*color.Color{green, yellow, red, gray} {
			c.DisableColor()
		}
	}

	status := green.Sprint("done")
	if s.Err != nil {
		status = red.Sprint("aborted")
	}
	fmt.Fprintf(w, "%s: %d row(s), %d skipped in %s %s\n",
		status, s.Rows, len(s.Skipped), s.Elapsed.Round(time.Millisecond), gray.Sprintf("[%s]", s.RunID))

	for _, sk := range s.Skipped {
		yellow.Fprintf(w, "  skipped %s: %v\n", sk.File, sk.Err)
	}
	if s.Err != nil {
		red.Fprintf(w, "  %v\n", s.Err)
	}
}
