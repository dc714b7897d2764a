package cli

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/JonMunkholm/postdesk/internal/paste"
)

// maxCellWidth truncates long cells so one paragraph does not push every
// other column off screen.
const maxCellWidth = 40

// writeGrid prints a rendered table as aligned text columns. Widths are
// measured in terminal cells, so CJK and emoji content stays aligned.
func writeGrid(w io.Writer, t *paste.RenderedTable) {
	rows := make([][]string, 0, len(t.Body)+1)

	header := make([]string, len(t.Header))
	for i, c := range t.Header {
		header[i] = c.Content
	}
	rows = append(rows, header)
	for _, br := range t.Body {
		row := make([]string, len(br.Cells))
		for i, c := range br.Cells {
			row[i] = c.Content
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			cell = runewidth.Truncate(cell, maxCellWidth, "…")
			row[i] = cell
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		writeRow(&b, row, widths)
		if r == 0 {
			rule := make([]string, len(widths))
			for i, width := range widths {
				rule[i] = strings.Repeat("-", width)
			}
			writeRow(&b, rule, widths)
		}
	}
	io.WriteString(w, b.String())
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	for i, cell := range row {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == len(row)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	b.WriteByte('\n')
}
