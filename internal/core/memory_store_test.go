package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/JonMunkholm/postdesk/internal/database"
)

func TestMemoryStore_EditPostContent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p, err := store.CreatePost(ctx, Post{ID: uuid.New(), Content: "old"})
	require.NoError(t, err)

	got, changed, err := store.EditPostContent(ctx, p.ID, func(c string) (string, bool, error) {
		return c, false, nil
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "old", got.Content)

	boom := errors.New("boom")
	_, _, err = store.EditPostContent(ctx, p.ID, func(string) (string, bool, error) {
		return "ignored", true, boom
	})
	assert.ErrorIs(t, err, boom)

	got, changed, err = store.EditPostContent(ctx, p.ID, func(c string) (string, bool, error) {
		return c + "+new", true, nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "old+new", got.Content)

	_, _, err = store.EditPostContent(ctx, uuid.New(), func(c string) (string, bool, error) {
		return c, true, nil
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestMemoryStore_ListEvents(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	postID := uuid.New()

	for _, a := range []PostAction{ActionCreate, ActionContentSync, ActionColumnReorder} {
		require.NoError(t, store.RecordEvent(ctx, PostEvent{ID: uuid.New(), PostID: postID, Action: a}))
	}

	events, err := store.ListEvents(ctx, postID, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionColumnReorder, events[0].Action)
	assert.Equal(t, ActionContentSync, events[1].Action)
	assert.False(t, events[0].CreatedAt.IsZero())

	none, err := store.ListEvents(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPgConversions(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, id, fromPgUUID(toPgUUID(id)))
	assert.Equal(t, uuid.Nil, fromPgUUID(pgtype.UUID{}))
	assert.False(t, toPgText("").Valid)
	assert.Equal(t, pgtype.Text{String: "x", Valid: true}, toPgText("x"))

	ev := dbEventToEvent(db.PostEvent{
		ID:     toPgUUID(id),
		PostID: toPgUUID(id),
		Action: string(ActionDelete),
		Detail: toPgText("gone"),
	})
	assert.Equal(t, ActionDelete, ev.Action)
	assert.Equal(t, "gone", ev.Detail)
	assert.Empty(t, ev.IPAddress)
	assert.True(t, ev.CreatedAt.IsZero())

	assert.ErrorIs(t, mapNoRows(pgx.ErrNoRows), ErrPostNotFound)
	other := errors.New("other")
	assert.Equal(t, other, mapNoRows(other))
}
