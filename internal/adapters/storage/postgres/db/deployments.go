package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const ensureSchema = `
CREATE TABLE IF NOT EXISTS command_deployments (
    id            BIGSERIAL PRIMARY KEY,
    app_id        TEXT        NOT NULL,
    guild_id      TEXT        NOT NULL DEFAULT '',
    fingerprint   TEXT        NOT NULL,
    command_count INTEGER     NOT NULL,
    mode          TEXT        NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS command_deployments_target_idx
    ON command_deployments (app_id, guild_id, created_at DESC)
`

func (q *Queries) EnsureSchema(ctx context.Context) error {
	_, err := q.db.Exec(ctx, ensureSchema)
	return err
}

const getLastDeployment = `-- name: GetLastDeployment :one
SELECT id, app_id, guild_id, fingerprint, command_count, mode, created_at
FROM command_deployments
WHERE app_id = $1 AND guild_id = $2
ORDER BY created_at DESC, id DESC
LIMIT 1
`

type GetLastDeploymentParams struct {
	AppID   string
	GuildID string
}

func (q *Queries) GetLastDeployment(ctx context.Context, arg GetLastDeploymentParams) (CommandDeployment, error) {
	row := q.db.QueryRow(ctx, getLastDeployment, arg.AppID, arg.GuildID)
	var i CommandDeployment
	err := row.Scan(
		&i.ID,
		&i.AppID,
		&i.GuildID,
		&i.Fingerprint,
		&i.CommandCount,
		&i.Mode,
		&i.CreatedAt,
	)
	return i, err
}

const insertDeployment = `-- name: InsertDeployment :exec
INSERT INTO command_deployments (app_id, guild_id, fingerprint, command_count, mode, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertDeploymentParams struct {
	AppID        string
	GuildID      string
	Fingerprint  string
	CommandCount int32
	Mode         string
	CreatedAt    pgtype.Timestamptz
}

func (q *Queries) InsertDeployment(ctx context.Context, arg InsertDeploymentParams) error {
	_, err := q.db.Exec(ctx, insertDeployment,
		arg.AppID,
		arg.GuildID,
		arg.Fingerprint,
		arg.CommandCount,
		arg.Mode,
		arg.CreatedAt,
	)
	return err
}

const listDeployments = `-- name: ListDeployments :many
SELECT id, app_id, guild_id, fingerprint, command_count, mode, created_at
FROM command_deployments
WHERE app_id = $1 AND guild_id = $2
ORDER BY created_at DESC, id DESC
LIMIT $3
`

type ListDeploymentsParams struct {
	AppID   string
	GuildID string
	Limit   int32
}

func (q *Queries) ListDeployments(ctx context.Context, arg ListDeploymentsParams) ([]CommandDeployment, error) {
	rows, err := q.db.Query(ctx, listDeployments, arg.AppID, arg.GuildID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CommandDeployment
	for rows.Next() {
		var i CommandDeployment
		if err := rows.Scan(
			&i.ID,
			&i.AppID,
			&i.GuildID,
			&i.Fingerprint,
			&i.CommandCount,
			&i.Mode,
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
