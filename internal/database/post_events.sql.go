package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertPostEvent = `-- name: InsertPostEvent :one
INSERT INTO post_events (id, post_id, action, detail, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, post_id, action, detail, ip_address, user_agent, created_at
`

type InsertPostEventParams struct {
	ID        pgtype.UUID
	PostID    pgtype.UUID
	Action    string
	Detail    pgtype.Text
	IpAddress pgtype.Text
	UserAgent pgtype.Text
}

func (q *Queries) InsertPostEvent(ctx context.Context, arg InsertPostEventParams) (PostEvent, error) {
	row := q.db.QueryRow(ctx, insertPostEvent,
		arg.ID,
		arg.PostID,
		arg.Action,
		arg.Detail,
		arg.IpAddress,
		arg.UserAgent,
	)
	var i PostEvent
	err := row.Scan(
		&i.ID,
		&i.PostID,
		&i.Action,
		&i.Detail,
		&i.IpAddress,
		&i.UserAgent,
		&i.CreatedAt,
	)
	return i, err
}

const listPostEvents = `-- name: ListPostEvents :many
SELECT id, post_id, action, detail, ip_address, user_agent, created_at
FROM post_events
WHERE post_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListPostEventsParams struct {
	PostID pgtype.UUID
	Limit  int32
}

func (q *Queries) ListPostEvents(ctx context.Context, arg ListPostEventsParams) ([]PostEvent, error) {
	rows, err := q.db.Query(ctx, listPostEvents, arg.PostID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PostEvent
	for rows.Next() {
		var i PostEvent
		if err := rows.Scan(
			&i.ID,
			&i.PostID,
			&i.Action,
			&i.Detail,
			&i.IpAddress,
			&i.UserAgent,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
