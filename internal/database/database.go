//go:generate go run go.uber.org/mock/mockgen -source=database.go -destination=../mocks/mock_database.go -package=mocks
package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service archives finished rounds in Postgres. Live game state never goes
// through it.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	RecordRound(ctx context.Context, record internal.RoundRecord) error
	RecentRounds(ctx context.Context, roomID string, limit int) ([]internal.RoundRecord, error)

	// Close terminates the connection pool.
	Close() error
}

type service struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS round_results (
	id          BIGSERIAL PRIMARY KEY,
	room_id     TEXT        NOT NULL,
	room_name   TEXT        NOT NULL,
	round       INTEGER     NOT NULL,
	outcome     TEXT        NOT NULL,
	evil_id     TEXT        NOT NULL,
	players     INTEGER     NOT NULL,
	awarded     JSONB       NOT NULL,
	scores      JSONB       NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS round_results_room_idx ON round_results (room_id, finished_at DESC);
`

// New connects to databaseURL and makes sure the schema exists.
func New(ctx context.Context, databaseURL string) (Service, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &service{pool: pool}, nil
}

func (s *service) RecordRound(ctx context.Context, record internal.RoundRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO round_results (room_id, room_name, round, outcome, evil_id, players, awarded, scores, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.RoomId,
		record.RoomName,
		record.Round,
		string(record.Outcome),
		record.EvilId,
		record.Players,
		record.Awarded,
		record.Scores,
		record.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert round %d of room %s: %w", record.Round, record.RoomId, err)
	}
	return nil
}

// RecentRounds returns the latest rounds of a room, newest first.
func (s *service) RecentRounds(ctx context.Context, roomID string, limit int) ([]internal.RoundRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT room_id, room_name, round, outcome, evil_id, players, awarded, scores, finished_at
		FROM round_results
		WHERE room_id = $1
		ORDER BY finished_at DESC, id DESC
		LIMIT $2`, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds of room %s: %w", roomID, err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.RoundRecord, error) {
		var (
			record  internal.RoundRecord
			outcome string
		)
		err := row.Scan(
			&record.RoomId,
			&record.RoomName,
			&record.Round,
			&outcome,
			&record.EvilId,
			&record.Players,
			&record.Awarded,
			&record.Scores,
			&record.FinishedAt,
		)
		record.Outcome = internal.Outcome(outcome)
		return record, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan rounds of room %s: %w", roomID, err)
	}
	return records, nil
}

// Health checks the pool. It returns a map with keys indicating various
// health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	poolStats := s.pool.Stat()
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_connections"] = strconv.Itoa(int(poolStats.MaxConns()))
	stats["acquire_count"] = strconv.FormatInt(poolStats.AcquireCount(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(poolStats.EmptyAcquireCount(), 10)

	if poolStats.AcquiredConns() > poolStats.MaxConns()*8/10 {
		stats["message"] = "The database is experiencing heavy load."
	}
	return stats
}

func (s *service) Close() error {
	s.pool.Close()
	return nil
}
