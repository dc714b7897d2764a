package paste

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HeaderRow is the Row value carried by header cells.
const HeaderRow = -1

// TableClass is the class attribute placed on every rendered table.
const TableClass = "content-table"

// CellRef addresses one cell of a rendered table. ID is derived from the
// table id, row and column and never changes for the life of the table.
type CellRef struct {
	ID      string `json:"cell_id"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Content string `json:"content"`
}

// BodyRow is one data row of a rendered table.
type BodyRow struct {
	Index int       `json:"row"`
	Cells []CellRef `json:"cells"`
}

// RenderedTable is the canonical, addressable form of a Grid.
type RenderedTable struct {
	TableID string    `json:"table_id"`
	Header  []CellRef `json:"header_cells"`
	Body    []BodyRow `json:"body_cells"`
}

// Columns returns the current column count.
func (t *RenderedTable) Columns() int {
	return len(t.Header)
}

// HeaderCellID returns the id of the header cell in column col.
func HeaderCellID(tableID string, col int) string {
	return "header_" + tableID + "_" + strconv.Itoa(col)
}

// BodyCellID returns the id of the body cell at (row, col).
func BodyCellID(tableID string, row, col int) string {
	return "cell_" + tableID + "_" + strconv.Itoa(row) + "_" + strconv.Itoa(col)
}

// CellAddress is a parsed cell id.
type CellAddress struct {
	TableID string
	Row     int
	Col     int
}

// IsHeader reports whether the address points at a header cell.
func (a CellAddress) IsHeader() bool {
	return a.Row == HeaderRow
}

// ParseCellID resolves an id produced by HeaderCellID or BodyCellID.
// Table ids never contain '_', so the numeric parts are the trailing fields.
func ParseCellID(id string) (CellAddress, bool) {
	switch {
	case strings.HasPrefix(id, "header_"):
		parts := strings.Split(strings.TrimPrefix(id, "header_"), "_")
		if len(parts) != 2 || parts[0] == "" {
			return CellAddress{}, false
		}
		col, err := strconv.Atoi(parts[1])
		if err != nil || col < 0 {
			return CellAddress{}, false
		}
		return CellAddress{TableID: parts[0], Row: HeaderRow, Col: col}, true

	case strings.HasPrefix(id, "cell_"):
		parts := strings.Split(strings.TrimPrefix(id, "cell_"), "_")
		if len(parts) != 3 || parts[0] == "" {
			return CellAddress{}, false
		}
		row, err1 := strconv.Atoi(parts[1])
		col, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || row < 0 || col < 0 {
			return CellAddress{}, false
		}
		return CellAddress{TableID: parts[0], Row: row, Col: col}, true
	}
	return CellAddress{}, false
}

// IDGenerator produces table ids made of a millisecond timestamp (base 36)
// and a short random suffix. Timestamps are kept strictly increasing, so ids
// from one generator never collide even if the suffix repeats.
type IDGenerator struct {
	mu     sync.Mutex
	last   int64
	now    func() time.Time
	random func() string
}

// NewIDGenerator returns a generator backed by the wall clock and uuid.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		now:    time.Now,
		random: randomSuffix,
	}
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:6]
}

// Next returns a fresh table id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts

	return "t" + strconv.FormatInt(ts, 36) + g.random()
}

// Renderer turns Grids into RenderedTables.
type Renderer struct {
	ids *IDGenerator
}

// NewRenderer returns a Renderer drawing table ids from ids. A nil
// generator gets a default one.
func NewRenderer(ids *IDGenerator) *Renderer {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Renderer{ids: ids}
}

// Render assigns a new table id and a CellRef to every cell of g.
func (r *Renderer) Render(g Grid) *RenderedTable {
	t := &RenderedTable{
		TableID: r.ids.Next(),
		Header:  make([]CellRef, len(g.Headers)),
		Body:    make([]BodyRow, len(g.Rows)),
	}

	for col, h := range g.Headers {
		t.Header[col] = CellRef{
			ID:      HeaderCellID(t.TableID, col),
			Row:     HeaderRow,
			Col:     col,
			Content: h,
		}
	}

	for row, cells := range g.Rows {
		br := BodyRow{Index: row, Cells: make([]CellRef, len(cells))}
		for col, v := range cells {
			br.Cells[col] = CellRef{
				ID:      BodyCellID(t.TableID, row, col),
				Row:     row,
				Col:     col,
				Content: v,
			}
		}
		t.Body[row] = br
	}
	return t
}

// Node builds the table as a detached html.Node tree.
func (t *RenderedTable) Node() *html.Node {
	table := element(atom.Table,
		html.Attribute{Key: "class", Val: TableClass},
		html.Attribute{Key: "data-table-id", Val: t.TableID},
	)

	thead := element(atom.Thead)
	headRow := element(atom.Tr)
	for _, c := range t.Header {
		th := element(atom.Th,
			html.Attribute{Key: "id", Val: c.ID},
			html.Attribute{Key: "data-table-id", Val: t.TableID},
			html.Attribute{Key: "data-col", Val: strconv.Itoa(c.Col)},
			html.Attribute{Key: "draggable", Val: "true"},
		)
		th.AppendChild(text(c.Content))
		headRow.AppendChild(th)
	}
	thead.AppendChild(headRow)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range t.Body {
		tr := element(atom.Tr, html.Attribute{Key: "data-row", Val: strconv.Itoa(row.Index)})
		for _, c := range row.Cells {
			td := element(atom.Td,
				html.Attribute{Key: "id", Val: c.ID},
				html.Attribute{Key: "data-table-id", Val: t.TableID},
				html.Attribute{Key: "data-row", Val: strconv.Itoa(c.Row)},
				html.Attribute{Key: "data-col", Val: strconv.Itoa(c.Col)},
			)
			td.AppendChild(text(c.Content))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	return table
}

// HTML serialises the table as a self-contained <table> fragment.
func (t *RenderedTable) HTML() string {
	return renderNode(t.Node())
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	// Only writer errors or void elements with children make Render fail.
	_ = html.Render(&b, n)
	return b.String()
}
