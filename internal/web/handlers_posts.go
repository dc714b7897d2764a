package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/postdesk/internal/core"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type syncContentRequest struct {
	Content string `json:"content"`
}

type reorderRequest struct {
	Source *int `json:"source"`
	Target *int `json:"target"`
}

type reorderResponse struct {
	Moved bool      `json:"moved"`
	Post  core.Post `json:"post"`
}

type listPostsResponse struct {
	Posts  []core.Post `json:"posts"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// contentBodyLimit bounds bodies that carry post content.
func (s *Server) contentBodyLimit() int64 {
	return 2*s.cfg.Paste.MaxContentBytes + maxJSONOverhead
}

// handleListPosts returns a page of posts, most recently updated first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", core.DefaultPageSize), core.MaxPageSize)
	if limit == 0 {
		limit = core.DefaultPageSize
	}
	offset := parseIntParam(r, "offset", 0)

	posts, err := s.service.ListPosts(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listPostsResponse{Posts: posts, Limit: limit, Offset: offset})
}

// handleCreatePost stores a new post.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(w, r, s.contentBodyLimit(), core.ErrContentTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	post, err := s.service.CreatePost(ctx, req.Title, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/posts/"+post.ID.String())
	writeJSON(w, http.StatusCreated, post)
}

// handleGetPost returns one post.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	post, err := s.service.GetPost(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleSyncContent replaces the stored content of a post. Editors call it
// after a paste reports content_changed.
func (s *Server) handleSyncContent(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req syncContentRequest
	if err := decodeJSON(w, r, s.contentBodyLimit(), core.ErrContentTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	post, err := s.service.SyncContent(ctx, id, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleDeletePost removes a post.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.DeletePost(ctx, id); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReorderColumns swaps two columns of a table stored in a post.
func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tableID := chi.URLParam(r, "tableID")

	var req reorderRequest
	if err := decodeJSON(w, r, maxJSONOverhead, core.ErrContentTooLarge, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Source == nil || req.Target == nil {
		writeError(w, http.StatusBadRequest, "REQ003", "source and target are required")
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	post, moved, err := s.service.ReorderColumns(ctx, id, tableID, *req.Source, *req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reorderResponse{Moved: moved, Post: post})
}

// handlePostHistory lists the recorded changes of a post, newest first.
func (s *Server) handlePostHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	events, err := s.service.PostHistory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
