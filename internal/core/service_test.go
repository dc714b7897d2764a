package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/postdesk/internal/paste"
)

func newTestService(t *testing.T, opts Options) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewService(store, opts), store
}

var documentTarget = paste.PasteTarget{Kind: paste.TargetDocument, DocumentID: "doc-1"}

func TestService_PasteMarkdownTable(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	res, err := svc.Paste(context.Background(), PasteRequest{
		Text:   "| Name | Age |\n|------|-----|\n| Alice | 30 |",
		Target: documentTarget,
	})
	require.NoError(t, err)

	assert.Equal(t, paste.InsertTable, res.Action)
	assert.Equal(t, paste.Markdown, res.Format)
	require.NotNil(t, res.Table)
	assert.Equal(t, 2, res.Table.Columns())
	assert.Contains(t, res.HTML, `data-table-id="`+res.Table.TableID+`"`)
	assert.True(t, res.ContentChanged)
	assert.Empty(t, res.AdjustCells)
}

func TestService_PasteVideoIntoCell(t *testing.T) {
	svc, _ := newTestService(t, Options{EmbedBase: "https://www.youtube-nocookie.com/embed"})

	res, err := svc.Paste(context.Background(), PasteRequest{
		Text:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Target: paste.PasteTarget{Kind: paste.TargetCell, CellID: "cell_t1_0_0"},
	})
	require.NoError(t, err)

	assert.Equal(t, paste.InsertMedia, res.Action)
	require.NotNil(t, res.Classification)
	assert.Equal(t, paste.Video, res.Classification.Kind)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", res.EmbedURL)
	assert.Equal(t, []string{"cell_t1_0_0"}, res.AdjustCells)
	assert.True(t, res.ContentChanged)
}

func TestService_PastePassThrough(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	for _, text := range []string{"just a sentence", "https://images.unsplash.com/photo-1"} {
		res, err := svc.Paste(context.Background(), PasteRequest{Text: text, Target: documentTarget})
		require.NoError(t, err)

		assert.Equal(t, paste.PassThrough, res.Action, text)
		assert.Empty(t, res.HTML)
		assert.False(t, res.ContentChanged)
	}
}

func TestService_PasteCustomImageHosts(t *testing.T) {
	svc, _ := newTestService(t, Options{ImageHosts: []string{"cdn.example.org"}})

	res, err := svc.Paste(context.Background(), PasteRequest{
		Text:   "https://cdn.example.org/pictures/42",
		Target: paste.PasteTarget{Kind: paste.TargetCell, CellID: "cell_t1_0_0"},
	})
	require.NoError(t, err)
	assert.Equal(t, paste.InsertMedia, res.Action)
	assert.Equal(t, paste.Image, res.Classification.Kind)
}

func TestService_PasteRejections(t *testing.T) {
	svc, _ := newTestService(t, Options{MaxPasteBytes: 16})
	ctx := context.Background()

	tests := []struct {
		name string
		req  PasteRequest
		want error
	}{
		{"too large", PasteRequest{Text: strings.Repeat("a", 10), HTML: strings.Repeat("b", 10)}, ErrPasteTooLarge},
		{"empty", PasteRequest{Text: "  \n", HTML: ""}, ErrEmptyPaste},
		{"cell without id", PasteRequest{Text: "x", Target: paste.PasteTarget{Kind: paste.TargetCell}}, ErrInvalidTarget},
		{"malformed cell id", PasteRequest{Text: "x", Target: paste.PasteTarget{Kind: paste.TargetCell, CellID: "B2"}}, ErrInvalidTarget},
		{"cell id missing column", PasteRequest{Text: "x", Target: paste.PasteTarget{Kind: paste.TargetCell, CellID: "cell_t1_0"}}, ErrInvalidTarget},
		{"header cell", PasteRequest{Text: "x", Target: paste.PasteTarget{Kind: paste.TargetCell, CellID: "header_t1_0"}}, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Paste(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_PasteBusy(t *testing.T) {
	svc, _ := newTestService(t, Options{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})

	require.True(t, svc.Limiter().TryAcquire())
	defer svc.Limiter().Release()

	_, err := svc.Paste(context.Background(), PasteRequest{Text: "hello", Target: documentTarget})
	assert.ErrorIs(t, err, ErrTooManyPastes)
}

func TestService_PasteNormalizesUnicode(t *testing.T) {
	svc, _ := newTestService(t, Options{NormalizeUnicode: true})

	res, err := svc.Paste(context.Background(), PasteRequest{
		Text:   "Name\tCity\nJose\u0301\tLima",
		Target: documentTarget,
	})
	require.NoError(t, err)
	require.Equal(t, paste.InsertTable, res.Action)
	assert.Equal(t, "Jos\u00e9", res.Table.Body[0].Cells[0].Content)
}

func TestService_ConvertAs(t *testing.T) {
	svc, _ := newTestService(t, Options{MaxPasteBytes: 64})
	ctx := context.Background()

	// One CSV line is not enough for detection but converts when forced.
	require.Equal(t, paste.None, svc.Detect(ctx, "name,city", ""))

	res, err := svc.ConvertAs(ctx, "name,city", "", paste.CSV)
	require.NoError(t, err)
	assert.Equal(t, paste.InsertTable, res.Action)
	assert.Equal(t, paste.CSV, res.Format)
	require.NotNil(t, res.Table)
	assert.Equal(t, "city", res.Table.Header[1].Content)
	assert.Len(t, res.Table.Body, 1)
	assert.Contains(t, res.HTML, `data-table-id="`+res.Table.TableID+`"`)
	assert.True(t, res.ContentChanged)

	_, err = svc.ConvertAs(ctx, "a,b", "", paste.None)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = svc.ConvertAs(ctx, " ", "", paste.CSV)
	assert.ErrorIs(t, err, ErrEmptyPaste)

	_, err = svc.ConvertAs(ctx, strings.Repeat("a,", 40), "", paste.CSV)
	assert.ErrorIs(t, err, ErrPasteTooLarge)
}

func TestService_Detect(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	assert.Equal(t, paste.TSV, svc.Detect(context.Background(), "a\tb\nc\td", ""))
	assert.Equal(t, paste.None, svc.Detect(context.Background(), "hello", ""))
}

func TestService_PostLifecycle(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := ContextWithIPAddress(context.Background(), "203.0.113.7")

	post, err := svc.CreatePost(ctx, "  Notes  ", "<p>hi</p>")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.Equal(t, "Notes", post.Title)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post, got)

	synced, err := svc.SyncContent(ctx, post.ID, "<p>bye</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>bye</p>", synced.Content)

	history, err := svc.PostHistory(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ActionContentSync, history[0].Action)
	assert.Equal(t, ActionCreate, history[1].Action)
	assert.Equal(t, "203.0.113.7", history[1].IPAddress)

	require.NoError(t, svc.DeletePost(ctx, post.ID))

	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), ErrPostNotFound)

	_, err = svc.PostHistory(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestService_ContentLimit(t *testing.T) {
	svc, _ := newTestService(t, Options{MaxContentBytes: 8})
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "big", "123456789")
	assert.ErrorIs(t, err, ErrContentTooLarge)

	post, err := svc.CreatePost(ctx, "small", "1234")
	require.NoError(t, err)

	_, err = svc.SyncContent(ctx, post.ID, "123456789")
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestService_ListPosts(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()

	empty, err := svc.ListPosts(ctx, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.CreatePost(ctx, Post{
			ID:        uuid.New(),
			Title:     string(rune('a' + i)),
			CreatedAt: base,
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "c", posts[0].Title)
	assert.Equal(t, "b", posts[1].Title)

	posts, err = svc.ListPosts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].Title)

	posts, err = svc.ListPosts(ctx, 10, -5)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

// tableContent pastes a TSV table and returns it wrapped in a paragraph
// context, the way an editor stores it.
func tableContent(t *testing.T, svc *Service) (string, string) {
	t.Helper()
	res, err := svc.Paste(context.Background(), PasteRequest{
		Text:   "A\tB\tC\n1\t2\t3",
		Target: documentTarget,
	})
	require.NoError(t, err)
	require.Equal(t, paste.InsertTable, res.Action)
	return "<p>before</p>" + res.HTML + "<p>after</p>", res.Table.TableID
}

func TestService_ReorderColumns(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	content, tableID := tableContent(t, svc)
	post, err := svc.CreatePost(ctx, "table", content)
	require.NoError(t, err)

	updated, moved, err := svc.ReorderColumns(ctx, post.ID, tableID, 0, 2)
	require.NoError(t, err)
	require.True(t, moved)

	assert.Less(t, strings.Index(updated.Content, ">C<"), strings.Index(updated.Content, ">A<"))
	assert.Less(t, strings.Index(updated.Content, ">3<"), strings.Index(updated.Content, ">1<"))
	assert.Contains(t, updated.Content, `id="`+paste.HeaderCellID(tableID, 0)+`"`)
	assert.True(t, strings.HasPrefix(updated.Content, "<p>before</p>"))

	history, err := svc.PostHistory(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ActionColumnReorder, history[0].Action)
}

func TestService_ReorderColumnsNoop(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	content, tableID := tableContent(t, svc)
	post, err := svc.CreatePost(ctx, "table", content)
	require.NoError(t, err)

	for _, cols := range [][2]int{{1, 1}, {0, 7}} {
		got, moved, err := svc.ReorderColumns(ctx, post.ID, tableID, cols[0], cols[1])
		require.NoError(t, err)
		assert.False(t, moved)
		assert.Equal(t, content, got.Content)
	}

	history, err := svc.PostHistory(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestService_ReorderColumnsErrors(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	content, tableID := tableContent(t, svc)
	post, err := svc.CreatePost(ctx, "table", content)
	require.NoError(t, err)

	_, _, err = svc.ReorderColumns(ctx, post.ID, "t-missing", 0, 1)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, _, err = svc.ReorderColumns(ctx, post.ID, tableID, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, _, err = svc.ReorderColumns(ctx, uuid.New(), tableID, 0, 1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

type failingEventStore struct {
	*MemoryStore
}

func (failingEventStore) RecordEvent(context.Context, PostEvent) error {
	return errors.New("history unavailable")
}

func TestService_HistoryIsBestEffort(t *testing.T) {
	svc := NewService(failingEventStore{NewMemoryStore()}, Options{})

	post, err := svc.CreatePost(context.Background(), "t", "c")
	require.NoError(t, err)
	assert.Equal(t, "c", post.Content)
}
