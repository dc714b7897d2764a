package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/postdesk/internal/core"
	"github.com/JonMunkholm/postdesk/internal/paste"
	"github.com/JonMunkholm/postdesk/internal/web/templates"
)

type pasteTargetRequest struct {
	Kind       string `json:"kind"`
	DocumentID string `json:"document_id"`
	CellID     string `json:"cell_id"`
}

type pasteRequest struct {
	Text   string             `json:"text"`
	HTML   string             `json:"html"`
	Target pasteTargetRequest `json:"target"`
}

type classifyRequest struct {
	URL string `json:"url"`
}

type classifyResponse struct {
	Classification paste.Classification `json:"classification"`
	EmbedURL       string               `json:"embed_url,omitempty"`
}

type detectRequest struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

type detectResponse struct {
	Format paste.Format `json:"format"`
}

// pasteBodyLimit bounds paste bodies. JSON escaping can double the size of
// the payload; the service enforces the exact limit afterwards.
func (s *Server) pasteBodyLimit() int64 {
	return 2*s.cfg.Paste.MaxBytes + maxJSONOverhead
}

// parseTarget maps the wire form of a paste target. An empty kind means
// the document.
func parseTarget(t pasteTargetRequest) (paste.PasteTarget, error) {
	target := paste.PasteTarget{DocumentID: t.DocumentID, CellID: t.CellID}
	switch strings.ToLower(strings.TrimSpace(t.Kind)) {
	case "", "document":
		target.Kind = paste.TargetDocument
	case "cell":
		target.Kind = paste.TargetCell
	default:
		return target, fmt.Errorf("%w: unknown kind %q", core.ErrInvalidTarget, t.Kind)
	}
	return target, nil
}

// handlePaste runs one clipboard payload through the pipeline. HTMX callers
// receive the markup fragment, everyone else the full result as JSON.
func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := decodeJSON(w, r, s.pasteBodyLimit(), core.ErrPasteTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}

	target, err := parseTarget(req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.Paste(r.Context(), core.PasteRequest{
		Text:   req.Text,
		HTML:   req.HTML,
		Target: target,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if result.ContentChanged {
			w.Header().Set("HX-Trigger", "content-changed")
		}
		fragment := templates.PasteFragment(result.Action.String(), result.Format.String(), result.HTML)
		if err := fragment.Render(r.Context(), w); err != nil {
			respondError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleClassify classifies a single URL candidate.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, maxJSONOverhead, core.ErrPasteTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}

	c := s.service.Classify(r.Context(), req.URL)
	writeJSON(w, http.StatusOK, classifyResponse{
		Classification: c,
		EmbedURL:       s.service.EmbedURL(c),
	})
}

// handleDetect reports the tabular format of a payload without converting it.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decodeJSON(w, r, s.pasteBodyLimit(), core.ErrPasteTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detectResponse{
		Format: s.service.Detect(r.Context(), req.Text, req.HTML),
	})
}
