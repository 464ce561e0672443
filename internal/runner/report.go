package runner

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	labelColor  = color.New(color.FgCyan)
	answerColor = color.New(color.FgGreen, color.Bold)
	errorColor  = color.New(color.FgRed)
	timeColor   = color.New(color.FgHiBlack)
)

// Report writes one line per result. Colour is used only when w is a terminal.
func Report(w io.Writer, results []Result) {
	colored := isTerminal(w)

	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}

	for _, r := range results {
		label := paint(labelColor, fmt.Sprintf("Day %d Part %d:", r.Day, r.Part))
		if r.Failed() {
			fmt.Fprintf(w, "%s %s\n", label, paint(errorColor, "error: "+r.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", label, paint(answerColor, r.Answer), paint(timeColor, "("+formatDuration(r.Duration)+")"))
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
