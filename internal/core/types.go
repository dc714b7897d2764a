package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/postdesk/internal/paste"
)

var (
	// ErrPostNotFound is returned when no post has the requested id.
	ErrPostNotFound = errors.New("post not found")

	// ErrPasteTooLarge is returned when text and html together exceed the limit.
	ErrPasteTooLarge = errors.New("paste too large")

	// ErrContentTooLarge is returned when post content exceeds the limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrEmptyPaste is returned when neither text nor html carries content.
	ErrEmptyPaste = errors.New("empty paste")

	// ErrInvalidTarget is returned for a cell paste whose cell id is missing,
	// malformed or names a header cell.
	ErrInvalidTarget = errors.New("invalid paste target")

	// ErrUnknownFormat is returned when a forced conversion names no table format.
	ErrUnknownFormat = errors.New("unknown table format")

	// ErrTableNotFound is returned when a post has no table with the given id.
	ErrTableNotFound = errors.New("table not found")

	// ErrInvalidColumn is returned for a negative column index.
	ErrInvalidColumn = errors.New("invalid column index")
)

// Post is a stored document. Content is the markup the editor last synced,
// including any tables inserted by a paste.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostAction identifies a recorded change to a post.
type PostAction string

const (
	ActionCreate        PostAction = "create"
	ActionContentSync   PostAction = "content_sync"
	ActionColumnReorder PostAction = "column_reorder"
	ActionDelete        PostAction = "delete"
)

// PostEvent is one entry of a post's history.
type PostEvent struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	Action    PostAction `json:"action"`
	Detail    string     `json:"detail,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ContentEditFunc receives the current content of a post and returns the
// replacement and whether it differs. Returning changed=false leaves the
// post untouched.
type ContentEditFunc func(content string) (updated string, changed bool, err error)

// PostStore persists posts and their history. Implementations return
// ErrPostNotFound for unknown ids.
type PostStore interface {
	CreatePost(ctx context.Context, p Post) (Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]Post, error)
	UpdatePostContent(ctx context.Context, id uuid.UUID, content string) (Post, error)
	// EditPostContent applies fn to the current content atomically with
	// respect to other edits of the same post.
	EditPostContent(ctx context.Context, id uuid.UUID, fn ContentEditFunc) (Post, bool, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	RecordEvent(ctx context.Context, e PostEvent) error
	ListEvents(ctx context.Context, postID uuid.UUID, limit int) ([]PostEvent, error)
}

// PasteRequest is one clipboard payload routed to a target surface.
type PasteRequest struct {
	Text   string
	HTML   string
	Target paste.PasteTarget
}

// PasteResult is what the caller inserts. HTML is empty for pass-through.
// AdjustCells lists the cells whose height should be recomputed and
// ContentChanged tells the caller to sync the document afterwards.
type PasteResult struct {
	Action         paste.ActionKind      `json:"action"`
	Format         paste.Format          `json:"format"`
	Classification *paste.Classification `json:"classification,omitempty"`
	EmbedURL       string                `json:"embed_url,omitempty"`
	Table          *paste.RenderedTable  `json:"table,omitempty"`
	HTML           string                `json:"html"`
	AdjustCells    []string              `json:"adjust_cells,omitempty"`
	ContentChanged bool                  `json:"content_changed"`
}
