// Package storage archives finished matches in PostgreSQL. The archive is
// optional: the server runs fully in memory when no database is configured.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"shiritori/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresMatchRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresMatchRepo connects to the database, applies pending migrations
// and returns a repository ready for use.
func NewPostgresMatchRepo(ctx context.Context, connString string, logger zerolog.Logger) (*PostgresMatchRepo, error) {
	if err := runMigrations(connString); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresMatchRepo{pool: pool, logger: logger}, nil
}

func runMigrations(connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (r *PostgresMatchRepo) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("failed to encode scores: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO matches (id, room_code, players, winner, reason, scores, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.RoomCode, result.Players, result.Winner, result.Reason, scores, result.FinishedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("match", result.ID).Msg("failed to insert match")
		return domain.UnexpectedDatabaseError
	}
	return nil
}

func (r *PostgresMatchRepo) RecentMatches(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, room_code, players, winner, reason, scores, finished_at
		 FROM matches
		 ORDER BY finished_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query matches")
		return nil, domain.UnexpectedDatabaseError
	}
	defer rows.Close()

	matches := []domain.MatchResult{}
	for rows.Next() {
		var m domain.MatchResult
		var scores []byte
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.Players, &m.Winner, &m.Reason, &scores, &m.FinishedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan match row")
			return nil, domain.UnexpectedDatabaseError
		}
		if err := json.Unmarshal(scores, &m.Scores); err != nil {
			r.logger.Error().Err(err).Str("match", m.ID).Msg("failed to decode scores")
			return nil, domain.UnexpectedDatabaseError
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnexpectedDatabaseError
	}
	return matches, nil
}

func (r *PostgresMatchRepo) Close() {
	r.pool.Close()
}
