package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type CommandDeployment struct {
	ID           int64
	AppID        string
	GuildID      string
	Fingerprint  string
	CommandCount int32
	Mode         string
	CreatedAt    pgtype.Timestamptz
}
