package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/postdesk/internal/logging"
	"github.com/JonMunkholm/postdesk/internal/paste"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// MaxPasteBytes bounds len(text)+len(html) of one paste.
	MaxPasteBytes int64
	// MaxContentBytes bounds the stored content of one post.
	MaxContentBytes int64
	// Placeholder fills the synthesized row of an empty table.
	Placeholder string
	// NormalizeUnicode applies NFC to pasted text before detection.
	NormalizeUnicode bool
	// ImageHosts replaces the built-in image host allow-list when non-nil.
	ImageHosts []string
	// EmbedBase is the prefix of generated video embed URLs.
	EmbedBase string
	// MaxConcurrent and MaxWait configure the paste limiter.
	MaxConcurrent int
	MaxWait       time.Duration
}

const (
	// DefaultMaxPasteBytes is used when Options.MaxPasteBytes is zero.
	DefaultMaxPasteBytes = 1 << 20
	// DefaultMaxContentBytes is used when Options.MaxContentBytes is zero.
	DefaultMaxContentBytes = 8 << 20
)

// Service is the entry point for pastes and post storage. It is safe for
// concurrent use.
type Service struct {
	store   PostStore
	opts    Options
	limiter *PasteLimiter

	classifier *paste.Classifier
	normalizer *paste.Normalizer
	renderer   *paste.Renderer
}

// NewService creates a Service backed by store.
func NewService(store PostStore, opts Options) *Service {
	if opts.MaxPasteBytes <= 0 {
		opts.MaxPasteBytes = DefaultMaxPasteBytes
	}
	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = DefaultMaxContentBytes
	}
	if opts.ImageHosts != nil && len(opts.ImageHosts) == 0 {
		opts.ImageHosts = nil
	}

	return &Service{
		store:      store,
		opts:       opts,
		limiter:    NewPasteLimiter(opts.MaxConcurrent, opts.MaxWait),
		classifier: paste.NewClassifier(opts.ImageHosts, opts.EmbedBase),
		normalizer: paste.NewNormalizer(opts.Placeholder),
		renderer:   paste.NewRenderer(paste.NewIDGenerator()),
	}
}

// Limiter exposes the paste limiter for health reporting and shutdown.
func (s *Service) Limiter() *PasteLimiter {
	return s.limiter
}

// Paste routes one clipboard payload through the pipeline and returns what
// the caller should insert. Only request-level problems produce errors;
// content that cannot be interpreted comes back as pass-through.
func (s *Service) Paste(ctx context.Context, req PasteRequest) (*PasteResult, error) {
	logger := logging.WithFields(ctx, "target", req.Target.Kind.String())

	if err := s.checkPayload(req.Text, req.HTML); err != nil {
		logger.Warn("paste rejected", "error", err)
		return nil, err
	}
	if req.Target.Kind == paste.TargetCell {
		if err := checkCellTarget(req.Target.CellID); err != nil {
			return nil, err
		}
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("paste rejected", "reason", "busy", "error", err)
		return nil, err
	}
	defer s.limiter.Release()

	result := &PasteResult{}
	hooks := paste.Hooks{
		AdjustCellHeight: func(cellID string) {
			result.AdjustCells = append(result.AdjustCells, cellID)
		},
		ContentChanged: func() {
			result.ContentChanged = true
		},
	}
	p := paste.NewPipeline(s.classifier, s.normalizer, s.renderer, hooks)

	text := paste.Sanitize(req.Text, s.opts.NormalizeUnicode)
	action := p.Handle(text, req.HTML, req.Target)

	result.Action = action.Kind
	result.Format = action.Format
	result.HTML = action.HTML()
	switch action.Kind {
	case paste.InsertMedia:
		media := action.Media
		result.Classification = &media
		result.EmbedURL = action.EmbedURL
	case paste.InsertTable:
		result.Table = action.Table
	}

	logger.Debug("paste handled",
		"action", action.Kind.String(),
		"format", action.Format.String(),
		"bytes", len(req.Text)+len(req.HTML),
	)
	return result, nil
}

// ConvertAs converts text (or html for the HTML format) into a table of the
// given format, skipping detection. It is the forced counterpart of Paste for
// content the detector would not recognise, such as a single CSV line.
func (s *Service) ConvertAs(ctx context.Context, text, html string, f paste.Format) (*PasteResult, error) {
	if f == paste.None {
		return nil, fmt.Errorf("%w: a table format is required", ErrUnknownFormat)
	}
	if err := s.checkPayload(text, html); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	grid := s.normalizer.Normalize(paste.Sanitize(text, s.opts.NormalizeUnicode), html, f)
	table := s.renderer.Render(grid)

	logging.FromContext(ctx).Debug("paste converted",
		"format", f.String(),
		"columns", table.Columns(),
		"rows", len(table.Body),
	)
	return &PasteResult{
		Action:         paste.InsertTable,
		Format:         f,
		Table:          table,
		HTML:           table.HTML(),
		ContentChanged: true,
	}, nil
}

// checkPayload rejects oversized and blank payloads.
func (s *Service) checkPayload(text, html string) error {
	if size := int64(len(text) + len(html)); size > s.opts.MaxPasteBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPasteTooLarge, size, s.opts.MaxPasteBytes)
	}
	if strings.TrimSpace(text) == "" && strings.TrimSpace(html) == "" {
		return ErrEmptyPaste
	}
	return nil
}

// checkCellTarget accepts only body cell ids. Header cells take part in
// column reorder but are never paste targets.
func checkCellTarget(cellID string) error {
	if strings.TrimSpace(cellID) == "" {
		return fmt.Errorf("%w: cell target without cell id", ErrInvalidTarget)
	}
	addr, ok := paste.ParseCellID(cellID)
	if !ok {
		return fmt.Errorf("%w: malformed cell id %q", ErrInvalidTarget, cellID)
	}
	if addr.IsHeader() {
		return fmt.Errorf("%w: cannot paste into header cell %q", ErrInvalidTarget, cellID)
	}
	return nil
}

// Classify runs the URL classifier on a single candidate.
func (s *Service) Classify(_ context.Context, candidate string) paste.Classification {
	return s.classifier.Classify(candidate)
}

// EmbedURL returns the embed URL for a video classification, or "".
func (s *Service) EmbedURL(c paste.Classification) string {
	return s.classifier.EmbedURL(c)
}

// Detect reports the tabular format of a payload without converting it.
func (s *Service) Detect(_ context.Context, text, html string) paste.Format {
	return paste.Detect(paste.Sanitize(text, s.opts.NormalizeUnicode), html)
}
