package paste

import (
	"fmt"
	"strings"
)

// MinColumns is the smallest column count a Grid may have.
const MinColumns = 2

// DefaultPlaceholder fills the synthesized row of a table with no data rows.
const DefaultPlaceholder = "-"

// Grid is the canonical rectangular table: every row has len(Headers) cells
// and len(Headers) >= MinColumns.
type Grid struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Columns returns the column count.
func (g Grid) Columns() int {
	return len(g.Headers)
}

// Normalizer turns detected content into a Grid.
type Normalizer struct {
	// Placeholder is the cell text used when a table has no data rows.
	Placeholder string
}

// NewNormalizer returns a Normalizer using placeholder for empty tables.
func NewNormalizer(placeholder string) *Normalizer {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Normalizer{Placeholder: placeholder}
}

// Normalize parses text or htmlFragment according to f. It always returns a
// rectangular Grid; content that yields no rows gets a placeholder row.
// None is treated as a single column of lines.
func (n *Normalizer) Normalize(plainText, htmlFragment string, f Format) Grid {
	switch {
	case f == HTML:
		return n.fromHTML(htmlFragment)
	case f == Markdown:
		return n.fromMarkdown(plainText)
	case f.Delimited():
		return n.fromDelimited(plainText, f)
	default:
		return n.fromDelimited(plainText, None)
	}
}

func (n *Normalizer) fromMarkdown(text string) Grid {
	var parsed [][]string
	for _, l := range contentLines(text) {
		if isSeparatorRow(l) {
			continue
		}
		parsed = append(parsed, splitMarkdownRow(l))
	}
	if len(parsed) == 0 {
		return n.finish(nil, nil, MinColumns)
	}

	cols := 0
	for _, row := range parsed {
		cols = max(cols, len(row))
	}

	// The nominal header only becomes the header when it spans every column;
	// otherwise it stays as data under synthesized labels.
	if len(parsed[0]) == cols {
		return n.finish(parsed[0], parsed[1:], cols)
	}
	return n.finish(nil, parsed, cols)
}

func (n *Normalizer) fromDelimited(text string, f Format) Grid {
	lines := contentLines(text)
	if len(lines) == 0 {
		return n.finish(nil, nil, MinColumns)
	}

	parsed := make([][]string, len(lines))
	cols := 0
	for i, l := range lines {
		parsed[i] = splitDelimited(l, f)
		cols = max(cols, len(parsed[i]))
	}
	return n.finish(parsed[0], parsed[1:], cols)
}

func (n *Normalizer) fromHTML(fragment string) Grid {
	t := parseHTMLTable(fragment)

	cols := len(t.header)
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}
	if len(t.header) == 0 {
		return n.finish(nil, t.rows, cols)
	}

	header := t.header
	for i := len(header); i < cols; i++ {
		header = append(header, columnLabel(i))
	}
	return n.finish(header, t.rows, cols)
}

// finish enforces the Grid invariants: at least MinColumns columns, headers
// synthesized when missing, rows padded or truncated to the column count and
// a placeholder row when there is no data.
func (n *Normalizer) finish(header []string, rows [][]string, cols int) Grid {
	cols = max(cols, MinColumns)

	g := Grid{Headers: make([]string, cols)}
	for i := range g.Headers {
		if header == nil {
			g.Headers[i] = columnLabel(i)
		} else if i < len(header) {
			g.Headers[i] = header[i]
		}
	}

	for _, row := range rows {
		g.Rows = append(g.Rows, fitRow(row, cols))
	}
	if len(g.Rows) == 0 {
		placeholder := make([]string, cols)
		for i := range placeholder {
			placeholder[i] = n.placeholder()
		}
		g.Rows = [][]string{placeholder}
	}
	return g
}

func (n *Normalizer) placeholder() string {
	if n == nil || n.Placeholder == "" {
		return DefaultPlaceholder
	}
	return n.Placeholder
}

// fitRow pads with empty cells on the right or truncates to cols.
func fitRow(row []string, cols int) []string {
	out := make([]string, cols)
	copy(out, row)
	return out
}

func columnLabel(i int) string {
	return fmt.Sprintf("Column %d", i+1)
}

// String renders the grid as tab-separated lines, header first.
func (g Grid) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(g.Headers, "\t"))
	for _, row := range g.Rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}
