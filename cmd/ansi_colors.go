package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes for terminal coloring.
const (
	ansiReset    = "\033[0m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiRed      = "\033[31m"
	ansiDarkGray = "\033[90m"
)

// colorize wraps s in the given ANSI color when stdout is a terminal, and
// returns it unchanged when output is piped or redirected.
func colorize(color string, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + ansiReset
}
