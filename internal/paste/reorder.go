package paste

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Reorder swaps the content of columns source and target in every row of t,
// header included. Cell ids stay where they are. originTableID is the table
// the drag started in; a mismatch, equal indices or an out-of-range index
// leave t untouched. It reports whether anything moved.
func Reorder(t *RenderedTable, originTableID string, source, target int) bool {
	if t == nil || originTableID != t.TableID {
		return false
	}
	cols := t.Columns()
	if source == target || !inRange(source, cols) || !inRange(target, cols) {
		return false
	}

	swapContent(t.Header, source, target)
	for _, row := range t.Body {
		if inRange(source, len(row.Cells)) && inRange(target, len(row.Cells)) {
			swapContent(row.Cells, source, target)
		}
	}
	return true
}

func swapContent(cells []CellRef, a, b int) {
	cells[a].Content, cells[b].Content = cells[b].Content, cells[a].Content
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// ReorderOutcome is the result of ReorderMarkup.
type ReorderOutcome int

const (
	// ReorderNoop means the table was found but nothing moved.
	ReorderNoop ReorderOutcome = iota
	// ReorderMoved means column content was swapped.
	ReorderMoved
	// ReorderTableMissing means no table with the requested id exists.
	ReorderTableMissing
)

// ReorderMarkup applies Reorder to the table with id tableID inside a stored
// document fragment. Cell child nodes move between cells; the cells and their
// attributes stay in place. The returned markup equals doc unless content moved.
func ReorderMarkup(doc, tableID string, source, target int) (string, ReorderOutcome) {
	if tableID == "" {
		return doc, ReorderTableMissing
	}
	nodes, err := html.ParseFragment(strings.NewReader(doc), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return doc, ReorderTableMissing
	}

	var table *html.Node
	for _, n := range nodes {
		if table = findTableByID(n, tableID); table != nil {
			break
		}
	}
	if table == nil {
		return doc, ReorderTableMissing
	}

	rows := tableRows(table)
	if len(rows) == 0 {
		return doc, ReorderNoop
	}
	cols := len(rowCells(rows[0], true))
	if source == target || !inRange(source, cols) || !inRange(target, cols) {
		return doc, ReorderNoop
	}

	for _, tr := range rows {
		cells := rowCells(tr, true)
		if inRange(source, len(cells)) && inRange(target, len(cells)) {
			swapChildren(cells[source], cells[target])
		}
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(renderNode(n))
	}
	return b.String(), ReorderMoved
}

func findTableByID(n *html.Node, tableID string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table && attr(n, "data-table-id") == tableID {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTableByID(c, tableID); t != nil {
			return t
		}
	}
	return nil
}

func swapChildren(a, b *html.Node) {
	ac := detachChildren(a)
	bc := detachChildren(b)
	for _, c := range bc {
		a.AppendChild(c)
	}
	for _, c := range ac {
		b.AppendChild(c)
	}
}

func detachChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		out = append(out, c)
		c = next
	}
	return out
}
