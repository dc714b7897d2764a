package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/JonMunkholm/postdesk/internal/database"
)

// PgStore is a PostStore backed by PostgreSQL.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PostStore that runs its queries on pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) CreatePost(ctx context.Context, p Post) (Post, error) {
	row, err := db.New(s.pool).InsertPost(ctx, db.InsertPostParams{
		ID:      toPgUUID(p.ID),
		Title:   p.Title,
		Content: p.Content,
	})
	if err != nil {
		return Post{}, err
	}
	return dbPostToPost(row), nil
}

func (s *PgStore) GetPost(ctx context.Context, id uuid.UUID) (Post, error) {
	row, err := db.New(s.pool).GetPost(ctx, toPgUUID(id))
	if err != nil {
		return Post{}, mapNoRows(err)
	}
	return dbPostToPost(row), nil
}

func (s *PgStore) ListPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	rows, err := db.New(s.pool).ListPosts(ctx, db.ListPostsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, dbPostToPost(row))
	}
	return posts, nil
}

func (s *PgStore) UpdatePostContent(ctx context.Context, id uuid.UUID, content string) (Post, error) {
	row, err := db.New(s.pool).UpdatePostContent(ctx, db.UpdatePostContentParams{
		ID:      toPgUUID(id),
		Content: content,
	})
	if err != nil {
		return Post{}, mapNoRows(err)
	}
	return dbPostToPost(row), nil
}

// EditPostContent locks the post row for the duration of fn so concurrent
// edits of the same post are serialized.
func (s *PgStore) EditPostContent(ctx context.Context, id uuid.UUID, fn ContentEditFunc) (Post, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := db.New(tx)

	row, err := qtx.GetPostForUpdate(ctx, toPgUUID(id))
	if err != nil {
		return Post{}, false, mapNoRows(err)
	}

	updated, changed, err := fn(row.Content)
	if err != nil {
		return Post{}, false, err
	}
	if !changed {
		return dbPostToPost(row), false, nil
	}

	row, err = qtx.UpdatePostContent(ctx, db.UpdatePostContentParams{
		ID:      row.ID,
		Content: updated,
	})
	if err != nil {
		return Post{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Post{}, false, fmt.Errorf("commit transaction: %w", err)
	}
	return dbPostToPost(row), true, nil
}

func (s *PgStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(s.pool).DeletePost(ctx, toPgUUID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *PgStore) RecordEvent(ctx context.Context, e PostEvent) error {
	_, err := db.New(s.pool).InsertPostEvent(ctx, db.InsertPostEventParams{
		ID:        toPgUUID(e.ID),
		PostID:    toPgUUID(e.PostID),
		Action:    string(e.Action),
		Detail:    toPgText(e.Detail),
		IpAddress: toPgText(e.IPAddress),
		UserAgent: toPgText(e.UserAgent),
	})
	return err
}

func (s *PgStore) ListEvents(ctx context.Context, postID uuid.UUID, limit int) ([]PostEvent, error) {
	rows, err := db.New(s.pool).ListPostEvents(ctx, db.ListPostEventsParams{
		PostID: toPgUUID(postID),
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, err
	}

	events := make([]PostEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, dbEventToEvent(row))
	}
	return events, nil
}

// Helper functions for type conversion

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromPgUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}

func fromPgTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func dbPostToPost(row db.Post) Post {
	return Post{
		ID:        fromPgUUID(row.ID),
		Title:     row.Title,
		Content:   row.Content,
		CreatedAt: fromPgTime(row.CreatedAt),
		UpdatedAt: fromPgTime(row.UpdatedAt),
	}
}

func dbEventToEvent(row db.PostEvent) PostEvent {
	return PostEvent{
		ID:        fromPgUUID(row.ID),
		PostID:    fromPgUUID(row.PostID),
		Action:    PostAction(row.Action),
		Detail:    row.Detail.String,
		IPAddress: row.IpAddress.String,
		UserAgent: row.UserAgent.String,
		CreatedAt: fromPgTime(row.CreatedAt),
	}
}
