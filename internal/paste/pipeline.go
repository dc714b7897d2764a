package paste

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TargetKind says where a paste lands.
type TargetKind int

const (
	// TargetDocument is a paste into the document body.
	TargetDocument TargetKind = iota
	// TargetCell is a paste into a single table cell.
	TargetCell
)

// String returns the lowercase name used in JSON and logs.
func (k TargetKind) String() string {
	if k == TargetCell {
		return "cell"
	}
	return "document"
}

// PasteTarget identifies the editing surface a paste is routed to.
type PasteTarget struct {
	Kind       TargetKind
	DocumentID string
	CellID     string
}

// ActionKind is what the caller should insert.
type ActionKind int

const (
	// PassThrough means insert the original clipboard content unchanged.
	PassThrough ActionKind = iota
	// InsertMedia means embed an image or video.
	InsertMedia
	// InsertTable means insert a canonical table.
	InsertTable
)

// String returns the snake_case name used in JSON and logs.
func (k ActionKind) String() string {
	switch k {
	case InsertMedia:
		return "insert_media"
	case InsertTable:
		return "insert_table"
	default:
		return "pass_through"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Action is the outcome of one paste. Media is set for InsertMedia; RawHTML
// is set instead of an embed when the clipboard already carried an <img>.
// Table and Format are set for InsertTable.
type Action struct {
	Kind     ActionKind
	Media    Classification
	EmbedURL string
	RawHTML  string
	Table    *RenderedTable
	Format   Format
}

// HTML returns the markup the caller inserts. PassThrough yields "".
func (a Action) HTML() string {
	switch a.Kind {
	case InsertTable:
		if a.Table == nil {
			return ""
		}
		return a.Table.HTML()
	case InsertMedia:
		if a.RawHTML != "" {
			return a.RawHTML
		}
		return mediaHTML(a.Media, a.EmbedURL)
	}
	return ""
}

func mediaHTML(c Classification, embedURL string) string {
	switch c.Kind {
	case Image:
		return renderNode(element(atom.Img,
			html.Attribute{Key: "src", Val: c.URL},
			html.Attribute{Key: "alt", Val: ""},
			html.Attribute{Key: "loading", Val: "lazy"},
		))
	case Video:
		if embedURL == "" {
			return ""
		}
		return renderNode(element(atom.Iframe,
			html.Attribute{Key: "src", Val: embedURL},
			html.Attribute{Key: "title", Val: "YouTube video player"},
			html.Attribute{Key: "frameborder", Val: "0"},
			html.Attribute{Key: "allow", Val: "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"},
			html.Attribute{Key: "allowfullscreen", Val: ""},
		))
	}
	return ""
}

// Hooks are notifications for the host surface. Either field may be nil.
type Hooks struct {
	// AdjustCellHeight is called with the cell id after media is routed to a cell.
	AdjustCellHeight func(cellID string)
	// ContentChanged is called after any action other than PassThrough.
	ContentChanged func()
}

// Pipeline sequences classification, detection, normalisation and rendering.
type Pipeline struct {
	classifier *Classifier
	normalizer *Normalizer
	renderer   *Renderer
	hooks      Hooks
}

// NewPipeline wires the components together. Nil components get defaults.
func NewPipeline(c *Classifier, n *Normalizer, r *Renderer, hooks Hooks) *Pipeline {
	if c == nil {
		c = NewClassifier(nil, "")
	}
	if n == nil {
		n = NewNormalizer("")
	}
	if r == nil {
		r = NewRenderer(nil)
	}
	return &Pipeline{classifier: c, normalizer: n, renderer: r, hooks: hooks}
}

// Classifier returns the pipeline's URL classifier.
func (p *Pipeline) Classifier() *Classifier {
	return p.classifier
}

// Handle decides what a paste becomes. It has no side effects other than
// the hooks; inserting the result is up to the caller.
func (p *Pipeline) Handle(plainText, htmlFragment string, target PasteTarget) Action {
	a := p.decide(plainText, htmlFragment, target)

	if a.Kind == InsertMedia && target.Kind == TargetCell && target.CellID != "" && p.hooks.AdjustCellHeight != nil {
		p.hooks.AdjustCellHeight(target.CellID)
	}
	if a.Kind != PassThrough && p.hooks.ContentChanged != nil {
		p.hooks.ContentChanged()
	}
	return a
}

func (p *Pipeline) decide(plainText, htmlFragment string, target PasteTarget) Action {
	// A URL pasted into a cell is never read as tabular data.
	if target.Kind == TargetCell {
		if c := p.classifier.Classify(plainText); c.IsMedia() {
			return Action{
				Kind:     InsertMedia,
				Media:    c,
				EmbedURL: p.classifier.EmbedURL(c),
			}
		}
	}

	if isImageOnlyHTML(htmlFragment) {
		return Action{
			Kind:    InsertMedia,
			Media:   Classification{Kind: Image},
			RawHTML: htmlFragment,
		}
	}

	f := Detect(plainText, htmlFragment)
	if f == None {
		return Action{Kind: PassThrough}
	}

	grid := p.normalizer.Normalize(plainText, htmlFragment, f)
	return Action{
		Kind:   InsertTable,
		Table:  p.renderer.Render(grid),
		Format: f,
	}
}

// isImageOnlyHTML reports whether clipboard HTML carries an <img> and no table
// markup. Tags are read with the tokenizer rather than the tree builder, which
// drops stray <tr> and <td> found outside a <table>.
func isImageOnlyHTML(fragment string) bool {
	if fragment == "" {
		return false
	}

	hasImage := false
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return hasImage
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Img:
				hasImage = true
			case atom.Table, atom.Thead, atom.Tbody, atom.Tr, atom.Td, atom.Th:
				return false
			}
		}
	}
}
