package storage

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the latest document per region in region_snapshots.
type PostgresStore struct {
	pool  *pgxpool.Pool
	runID uuid.UUID
}

func NewPostgresStore(ctx context.Context, dsn string, runID uuid.UUID) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create postgres pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to connect postgres")
	}

	return &PostgresStore{pool: pool, runID: runID}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS region_snapshots (
		code TEXT PRIMARY KEY,
		document JSONB NOT NULL,
		run_id UUID NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return errors.Wrap(err, "failed to ensure schema")
	}

	return nil
}

// Write upserts every document in a single transaction, so readers see
// either the previous run or this one.
func (s *PostgresStore) Write(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		upsertSQL := `
		INSERT INTO region_snapshots (code, document, run_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (code) DO UPDATE
		SET document = EXCLUDED.document, run_id = EXCLUDED.run_id, updated_at = EXCLUDED.updated_at;
		`
		for _, doc := range docs {
			batch.Queue(upsertSQL, doc.Key, string(doc.Body), s.runID)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range docs {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return errors.Wrapf(err, "batch upsert failed at %s", docs[i].Key)
			}
		}
		return errors.Wrap(results.Close(), "close batch")
	})
}

// Document returns the stored JSON for code.
func (s *PostgresStore) Document(ctx context.Context, code string) ([]byte, uuid.UUID, error) {
	var (
		body  string
		runID uuid.UUID
	)
	err := s.pool.QueryRow(ctx, `SELECT document::text, run_id FROM region_snapshots WHERE code = $1`, code).Scan(&body, &runID)
	if err != nil {
		return nil, uuid.Nil, errors.Wrapf(err, "load snapshot %s", code)
	}
	return []byte(body), runID, nil
}
