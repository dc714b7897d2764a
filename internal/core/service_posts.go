package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/postdesk/internal/logging"
	"github.com/JonMunkholm/postdesk/internal/paste"
)

const (
	// DefaultPageSize is used by ListPosts when limit is not positive.
	DefaultPageSize = 20
	// MaxPageSize caps ListPosts.
	MaxPageSize = 100
	// historyLimit caps PostHistory.
	historyLimit = 200
)

// CreatePost stores a new post with a fresh id.
func (s *Service) CreatePost(ctx context.Context, title, content string) (Post, error) {
	if int64(len(content)) > s.opts.MaxContentBytes {
		return Post{}, fmt.Errorf("%w: post content of %d bytes exceeds limit of %d", ErrContentTooLarge, len(content), s.opts.MaxContentBytes)
	}

	now := time.Now().UTC()
	post, err := s.store.CreatePost(ctx, Post{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	s.recordEvent(ctx, post.ID, ActionCreate, "")
	logging.FromContext(ctx).Info("post created", "post_id", post.ID)
	return post, nil
}

// GetPost returns the post with the given id.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// ListPosts returns a page of posts, most recently updated first.
func (s *Service) ListPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)

	posts, err := s.store.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// SyncContent replaces the stored content of a post. Editors call it after
// a paste reports ContentChanged.
func (s *Service) SyncContent(ctx context.Context, id uuid.UUID, content string) (Post, error) {
	if int64(len(content)) > s.opts.MaxContentBytes {
		return Post{}, fmt.Errorf("%w: post content of %d bytes exceeds limit of %d", ErrContentTooLarge, len(content), s.opts.MaxContentBytes)
	}

	post, err := s.store.UpdatePostContent(ctx, id, content)
	if err != nil {
		return Post{}, fmt.Errorf("sync post %s: %w", id, err)
	}

	s.recordEvent(ctx, id, ActionContentSync, fmt.Sprintf("%d bytes", len(content)))
	return post, nil
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	s.recordEvent(ctx, id, ActionDelete, "")
	logging.FromContext(ctx).Info("post deleted", "post_id", id)
	return nil
}

// ReorderColumns swaps the content of two columns of a table stored in a
// post. The post is only written when something moved. Equal or
// out-of-range columns are a no-op, not an error.
func (s *Service) ReorderColumns(ctx context.Context, postID uuid.UUID, tableID string, source, target int) (Post, bool, error) {
	if source < 0 || target < 0 {
		return Post{}, false, fmt.Errorf("%w: %d, %d", ErrInvalidColumn, source, target)
	}

	post, moved, err := s.store.EditPostContent(ctx, postID, func(content string) (string, bool, error) {
		updated, outcome := paste.ReorderMarkup(content, tableID, source, target)
		switch outcome {
		case paste.ReorderTableMissing:
			return content, false, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
		case paste.ReorderMoved:
			return updated, true, nil
		default:
			return content, false, nil
		}
	})
	if err != nil {
		return Post{}, false, fmt.Errorf("reorder columns in post %s: %w", postID, err)
	}

	if moved {
		s.recordEvent(ctx, postID, ActionColumnReorder,
			fmt.Sprintf("table %s: column %d <-> %d", tableID, source, target))
	}
	logging.FromContext(ctx).Debug("columns reordered",
		"post_id", postID,
		"table_id", tableID,
		"source", source,
		"target", target,
		"moved", moved,
	)
	return post, moved, nil
}

// PostHistory returns the recorded changes of a post, newest first.
func (s *Service) PostHistory(ctx context.Context, id uuid.UUID) ([]PostEvent, error) {
	if _, err := s.store.GetPost(ctx, id); err != nil {
		return nil, fmt.Errorf("post history %s: %w", id, err)
	}

	events, err := s.store.ListEvents(ctx, id, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("post history %s: %w", id, err)
	}
	if events == nil {
		events = []PostEvent{}
	}
	return events, nil
}

// recordEvent writes a history entry. History is best effort: a failure is
// logged and does not fail the mutation that triggered it.
func (s *Service) recordEvent(ctx context.Context, postID uuid.UUID, action PostAction, detail string) {
	err := s.store.RecordEvent(ctx, PostEvent{
		ID:        uuid.New(),
		PostID:    postID,
		Action:    action,
		Detail:    detail,
		IPAddress: IPAddressFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logging.FromContext(ctx).Warn("failed to record post event",
			"post_id", postID,
			"action", action,
			"error", err,
		)
	}
}
