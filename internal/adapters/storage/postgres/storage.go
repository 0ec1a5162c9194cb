package postgres

import (
	"context"
	"errors"
	"fmt"

	"command-registrar/internal/adapters/storage/postgres/db"
	"command-registrar/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the history of successful submissions per target.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{
		pool: pool,
		q:    db.New(pool),
	}

	if err := store.q.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LastDeployment returns nil when the target has never been deployed.
func (s *PostgresStore) LastDeployment(ctx context.Context, target domain.Target) (*domain.Deployment, error) {
	row, err := s.q.GetLastDeployment(ctx, db.GetLastDeploymentParams{
		AppID:   target.AppID,
		GuildID: target.GuildID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last deployment: %w", err)
	}

	d := toDeployment(row)
	return &d, nil
}

func (s *PostgresStore) RecordDeployment(ctx context.Context, d domain.Deployment) error {
	err := s.q.InsertDeployment(ctx, db.InsertDeploymentParams{
		AppID:        d.Target.AppID,
		GuildID:      d.Target.GuildID,
		Fingerprint:  d.Fingerprint,
		CommandCount: int32(d.Count),
		Mode:         string(d.Mode),
		CreatedAt:    pgtype.Timestamptz{Time: d.CreatedAt, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("record deployment: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, target domain.Target, limit int) ([]domain.Deployment, error) {
	rows, err := s.q.ListDeployments(ctx, db.ListDeploymentsParams{
		AppID:   target.AppID,
		GuildID: target.GuildID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	result := make([]domain.Deployment, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDeployment(row))
	}
	return result, nil
}

func toDeployment(row db.CommandDeployment) domain.Deployment {
	return domain.Deployment{
		Target:      domain.Target{AppID: row.AppID, GuildID: row.GuildID},
		Fingerprint: row.Fingerprint,
		Count:       int(row.CommandCount),
		Mode:        domain.SubmitMode(row.Mode),
		CreatedAt:   row.CreatedAt.Time,
	}
}
