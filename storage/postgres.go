package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSeenStore хранит множество идентификаторов в таблице seen_events.
type PostgresSeenStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresSeenStore(pool *pgxpool.Pool, log *slog.Logger) *PostgresSeenStore {
	log.Info("Initializing Postgres seen-state storage")
	return &PostgresSeenStore{
		pool: pool,
		log:  log,
	}
}

func (s *PostgresSeenStore) Close() {
	s.log.Info("Closing database connection pool")
	s.pool.Close()
}

// Load
func (s *PostgresSeenStore) Load(ctx context.Context) (map[string]struct{}, error) {
	const op = "storage.postgres.Load"
	rows, err := s.pool.Query(ctx, `SELECT id FROM seen_events;`)
	if err != nil {
		s.log.Error("Database query failed", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	seen := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			s.log.Error("Failed to scan row", slog.String("op", op), slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		seen[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration failed: %w", op, err)
	}
	s.log.Info("Seen state loaded", slog.Int("count", len(seen)))
	return seen, nil
}

// Save дописывает недостающие идентификаторы одной транзакцией.
// Множество только растет, поэтому вставки с ON CONFLICT DO NOTHING
// дают тот же результат, что и полная замена объединением.
func (s *PostgresSeenStore) Save(ctx context.Context, ids map[string]struct{}) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.log.Error(
			"Failed to begin transaction",
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				s.log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()
	batch := &pgx.Batch{}
	query := `
	INSERT INTO seen_events (id)
	VALUES ($1)
	ON CONFLICT (id) DO NOTHING;
	`
	for id := range ids {
		batch.Queue(query, id)
	}
	batchResult := tx.SendBatch(ctx, batch)
	if err = batchResult.Close(); err != nil {
		s.log.Error(
			"Failed to execute batch",
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("Seen state saved", slog.Int("count", len(ids)))
	return nil
}
