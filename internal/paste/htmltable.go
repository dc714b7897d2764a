package paste

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxColSpan bounds colspan expansion so a hostile attribute cannot blow up the grid.
const maxColSpan = 64

// htmlTable is the raw row structure pulled out of a <table> element.
type htmlTable struct {
	header []string
	rows   [][]string
}

// findDataTable returns the first <table> that has a <tr> holding a <td> or <th>.
func findDataTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		for _, tr := range tableRows(n) {
			if len(rowCells(tr, true)) > 0 {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findDataTable(c); t != nil {
			return t
		}
	}
	return nil
}

// tableRows returns the <tr> elements that belong to table itself, in
// document order. Rows of nested tables are not included.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

// rowCells returns the cell elements of a row. With includeTH false only
// <td> cells are returned.
func rowCells(tr *html.Node, includeTH bool) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Td || (includeTH && c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}

// parseHTMLTable extracts header and data rows from clipboard HTML. The
// header is the first <thead> row when present, otherwise the first row.
// Data rows only take <td> cells. Cell content is reduced to trimmed text.
func parseHTMLTable(fragment string) htmlTable {
	doc, err := parseFragment(fragment)
	if err != nil {
		return htmlTable{}
	}
	table := findDataTable(doc)
	if table == nil {
		return htmlTable{}
	}

	rows := tableRows(table)
	if len(rows) == 0 {
		return htmlTable{}
	}

	headerRow := rows[0]
	for _, tr := range rows {
		if tr.Parent != nil && tr.Parent.DataAtom == atom.Thead {
			headerRow = tr
			break
		}
	}

	out := htmlTable{
		header: cellTexts(rowCells(headerRow, true)),
	}
	for _, tr := range rows {
		if tr == headerRow {
			continue
		}
		out.rows = append(out.rows, cellTexts(rowCells(tr, false)))
	}
	return out
}

func cellTexts(cells []*html.Node) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, textContent(c))
		for i := 1; i < colSpan(c); i++ {
			out = append(out, "")
		}
	}
	return out
}

func colSpan(n *html.Node) int {
	v := attr(n, "colspan")
	if v == "" {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || span < 1 {
		return 1
	}
	if span > maxColSpan {
		return maxColSpan
	}
	return span
}

// textContent extracts the text of n and its descendants, trimmed.
func textContent(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template:
			return
		case atom.Br:
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
