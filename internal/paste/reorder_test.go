package paste

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeColumnTable(t *testing.T) *RenderedTable {
	t.Helper()
	r := NewRenderer(fixedIDs("c0ffee"))
	return r.Render(Grid{
		Headers: []string{"A", "B", "C"},
		Rows: [][]string{
			{"a1", "b1", "c1"},
			{"a2", "b2", "c2"},
		},
	})
}

func cellIDs(t *RenderedTable) []string {
	var ids []string
	for _, c := range t.Header {
		ids = append(ids, c.ID)
	}
	for _, row := range t.Body {
		for _, c := range row.Cells {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func contents(cells []CellRef) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Content
	}
	return out
}

func TestReorder_SwapsContentKeepsIDs(t *testing.T) {
	table := threeColumnTable(t)
	before := cellIDs(table)

	moved := Reorder(table, table.TableID, 0, 2)

	require.True(t, moved)
	assert.Equal(t, before, cellIDs(table))
	assert.Equal(t, []string{"C", "B", "A"}, contents(table.Header))
	assert.Equal(t, []string{"c1", "b1", "a1"}, contents(table.Body[0].Cells))
	assert.Equal(t, []string{"c2", "b2", "a2"}, contents(table.Body[1].Cells))
}

func TestReorder_Noops(t *testing.T) {
	tests := []struct {
		name   string
		origin func(*RenderedTable) string
		source int
		target int
	}{
		{"same column", tableID, 1, 1},
		{"source out of range", tableID, 3, 0},
		{"target negative", tableID, 0, -1},
		{"other table", func(*RenderedTable) string { return "tother" }, 0, 1},
		{"empty origin", func(*RenderedTable) string { return "" }, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := threeColumnTable(t)

			assert.False(t, Reorder(table, tt.origin(table), tt.source, tt.target))
			assert.Equal(t, threeColumnTable(t), table)
		})
	}
}

func tableID(t *RenderedTable) string {
	return t.TableID
}

func TestReorder_NilTable(t *testing.T) {
	assert.False(t, Reorder(nil, "t1", 0, 1))
}

func TestReorderMarkup_MatchesReorder(t *testing.T) {
	table := threeColumnTable(t)
	doc := "<p>intro</p>" + table.HTML() + "<p>outro</p>"

	got, outcome := ReorderMarkup(doc, table.TableID, 0, 2)
	require.Equal(t, ReorderMoved, outcome)

	require.True(t, Reorder(table, table.TableID, 0, 2))
	assert.Equal(t, "<p>intro</p>"+table.HTML()+"<p>outro</p>", got)
}

func TestReorderMarkup_OnlyTargetTable(t *testing.T) {
	r := NewRenderer(fixedIDs("123456"))
	first := r.Render(Grid{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}})
	second := r.Render(Grid{Headers: []string{"X", "Y"}, Rows: [][]string{{"8", "9"}}})
	doc := first.HTML() + second.HTML()

	got, outcome := ReorderMarkup(doc, second.TableID, 0, 1)
	require.Equal(t, ReorderMoved, outcome)

	Reorder(second, second.TableID, 0, 1)
	assert.Equal(t, first.HTML()+second.HTML(), got)
}

func TestReorderMarkup_Outcomes(t *testing.T) {
	table := threeColumnTable(t)
	doc := table.HTML()

	got, outcome := ReorderMarkup(doc, "tmissing", 0, 1)
	assert.Equal(t, ReorderTableMissing, outcome)
	assert.Equal(t, doc, got)

	got, outcome = ReorderMarkup(doc, "", 0, 1)
	assert.Equal(t, ReorderTableMissing, outcome)
	assert.Equal(t, doc, got)

	got, outcome = ReorderMarkup(doc, table.TableID, 1, 1)
	assert.Equal(t, ReorderNoop, outcome)
	assert.Equal(t, doc, got)

	got, outcome = ReorderMarkup(doc, table.TableID, 0, 7)
	assert.Equal(t, ReorderNoop, outcome)
	assert.Equal(t, doc, got)
}
