package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

func PrintJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", b)

	return nil
}

const (
	ansiNormal          = "\x1B[0m"
	ansiHighlightRed    = "\x1B[0;1;31m"
	ansiHighlightGreen  = "\x1B[0;1;32m"
	ansiHighlightYellow = "\x1B[0;1;33m"
)

// ColorsEnabled reports whether escape sequences may be written to f.
func ColorsEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalColumns returns the width of the terminal attached to f,
// then the value of $COLUMNS, then 80.
func TerminalColumns(f *os.File) int {
	if isatty.IsTerminal(f.Fd()) {
		if ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil && ws.Col > 0 {
			return int(ws.Col)
		}
	}

	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		return v
	}

	return 80
}

func (c *Client) operationalStateColor(state string) (string, string) {
	if !c.opts.Colors {
		return "", ""
	}

	switch state {
	case "routable", "enslaved":
		return ansiHighlightGreen, ansiNormal
	case "degraded":
		return ansiHighlightYellow, ansiNormal
	}

	return "", ""
}

func (c *Client) setupStateColor(state string) (string, string) {
	if !c.opts.Colors {
		return "", ""
	}

	switch state {
	case "configured":
		return ansiHighlightGreen, ansiNormal
	case "configuring":
		return ansiHighlightYellow, ansiNormal
	case "failed", "linger":
		return ansiHighlightRed, ansiNormal
	}

	return "", ""
}

func strna(s string) string {
	if len(s) == 0 {
		return "n/a"
	}

	return s
}

// ellipsize shortens s to at most n runes replacing the tail with "…".
func ellipsize(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	if n <= 1 {
		return "…"
	}

	r := []rune(s)

	return string(r[:n-1]) + "…"
}
