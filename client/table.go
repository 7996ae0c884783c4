package client

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

type column struct {
	header   string
	minWidth int
	align    int
}

// listing is a borderless table of space-separated columns with
// an optional header line.
type listing struct {
	table *tablewriter.Table
	buf   bytes.Buffer
}

func newListing(legend bool, columns ...column) *listing {
	l := listing{}

	t := tablewriter.NewWriter(&l.buf)

	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("")
	t.SetColumnSeparator("")
	t.SetRowSeparator("")
	t.SetNoWhiteSpace(true)
	t.SetTablePadding(" ")

	headers := make([]string, 0, len(columns))
	aligns := make([]int, 0, len(columns))

	for i, c := range columns {
		// Must precede SetHeader which only widens columns
		if c.minWidth > 0 {
			t.SetColMinWidth(i, c.minWidth)
		}

		headers = append(headers, c.header)

		if c.align == tablewriter.ALIGN_DEFAULT {
			aligns = append(aligns, tablewriter.ALIGN_LEFT)
		} else {
			aligns = append(aligns, c.align)
		}
	}

	t.SetColumnAlignment(aligns)

	if legend {
		t.SetHeader(headers)
	}

	l.table = t

	return &l
}

func (l *listing) append(cells ...string) {
	l.table.Append(cells)
}

// render writes the table to w without trailing padding.
func (l *listing) render(w io.Writer) {
	l.table.Render()

	sc := bufio.NewScanner(&l.buf)

	for sc.Scan() {
		fmt.Fprintln(w, strings.TrimRight(sc.Text(), " "))
	}
}
