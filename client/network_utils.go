package client

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// statusTable is a two-column listing of right-aligned keys and
// their values, headed by a colored dot.
type statusTable struct {
	title []string
	rows  [][2]string
}

func (t *statusTable) add(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// addList puts the key on the first value only.
func (t *statusTable) addList(key string, values []string) {
	for i, v := range values {
		if i == 0 {
			t.add(key, v)
		} else {
			t.add("", v)
		}
	}
}

func (t *statusTable) print(w io.Writer, dotColor, dotColorOff string) {
	var width int

	for _, r := range t.rows {
		if n := utf8.RuneCountInString(r[0]); n > width {
			width = n
		}
	}

	dot := dotColor + "●" + dotColorOff

	if len(t.title) > 0 {
		fmt.Fprintf(w, "%s %s\n", dot, strings.Join(t.title, " "))
		dot = " "
	}

	for _, r := range t.rows {
		pad := width - utf8.RuneCountInString(r[0])

		fmt.Fprintf(w, "%s %s%s %s\n", dot, strings.Repeat(" ", pad), r[0], r[1])

		dot = " "
	}
}
