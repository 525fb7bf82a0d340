package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ASCIILogo is printed at the start of a crawl
const ASCIILogo = `
   ┌─────────────────────────────────────────────┐
   │  ╔═╗╔═╗╦═╗╔╦╗  ╔═╗╦═╗╔═╗╦ ╦╦                │
   │  ║  ╠═╣╠╦╝ ║║  ║  ╠╦╝╠═╣║║║║                │
   │  ╚═╝╩ ╩╩╚══╩╝  ╚═╝╩╚═╩ ╩╚╩╝╩═╝  card assets │
   └─────────────────────────────────────────────┘
`

// Output receives everything the print helpers write
var Output io.Writer = color.Output

var quiet bool

// Color functions for terminal output
var (
	Cyan    = colorize(color.FgCyan)
	Yellow  = colorize(color.FgYellow)
	Red     = colorize(color.FgRed)
	Green   = colorize(color.FgGreen)
	Magenta = colorize(color.FgMagenta)
	Dim     = colorize(color.Faint)
)

func colorize(attr color.Attribute) func(string) string {
	c := color.New(attr)
	return func(text string) string {
		return c.Sprint(text)
	}
}

// Configure sets up colors and verbosity. Colors are turned off when
// noColor is set or stdout is not a terminal.
func Configure(noColor, quietMode bool) {
	color.NoColor = noColor || !term.IsTerminal(int(os.Stdout.Fd()))
	quiet = quietMode
}

// IsQuiet reports whether informational output is suppressed
func IsQuiet() bool {
	return quiet
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quiet {
		return
	}
	fmt.Fprint(Output, Cyan(ASCIILogo))
}

// PrintError prints an error message in red. Errors are shown even in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quiet {
		return
	}
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	if quiet {
		return
	}
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quiet {
		return
	}
	fmt.Fprintln(Output, Magenta(msg))
}
