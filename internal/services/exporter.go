package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/payments-engine/internal/models"
)

// Exporter ships the final account table of a run somewhere besides stdout.
// Exports are write-only.
type Exporter interface {
	Name() string
	Export(ctx context.Context, runID string, accounts []models.Account) error
}

// PostgresExporter inserts the snapshot into account_snapshots in a single
// SQL transaction.
type PostgresExporter struct {
	db *sql.DB
}

func NewPostgresExporter(db *sql.DB) *PostgresExporter {
	return &PostgresExporter{db: db}
}

func (e *PostgresExporter) Name() string { return "postgres" }

func (e *PostgresExporter) Export(ctx context.Context, runID string, accounts []models.Account) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot export: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, a := range accounts {
		if err := e.insertAccount(ctx, tx, runID, a, now); err != nil {
			return fmt.Errorf("export client %d: %w", a.ClientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot export: %w", err)
	}
	return nil
}

func (e *PostgresExporter) insertAccount(ctx context.Context, tx *sql.Tx, runID string, a models.Account, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, int64(a.ClientID), a.Available.String(), a.Held.String(), a.Total().String(), a.Locked, at)
	return err
}

// RedisExporter writes one hash per account under engine:{runID}:client:{id}.
type RedisExporter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisExporter(client *redis.Client, ttl time.Duration) *RedisExporter {
	return &RedisExporter{client: client, ttl: ttl}
}

func (e *RedisExporter) Name() string { return "redis" }

func SnapshotKey(runID string, client models.ClientID) string {
	return fmt.Sprintf("engine:%s:client:%d", runID, client)
}

// Export queues every HSET (and EXPIRE when a TTL is set) on one pipeline,
// so a snapshot costs a single round trip.
func (e *RedisExporter) Export(ctx context.Context, runID string, accounts []models.Account) error {
	_, err := e.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range accounts {
			key := SnapshotKey(runID, a.ClientID)
			pipe.HSet(ctx, key,
				"available", a.Available.String(),
				"held", a.Held.String(),
				"total", a.Total().String(),
				"locked", strconv.FormatBool(a.Locked),
			)
			if e.ttl > 0 {
				pipe.Expire(ctx, key, e.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	return nil
}
