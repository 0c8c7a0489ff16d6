package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
)

// PostgresStore keeps one row per key in kv_entries. Every Set also appends the written value to
// kv_entry_revisions and prunes revisions older than the configured retention, all in one transaction.
type PostgresStore struct {
	q    *db.Queries
	pool *pgxpool.Pool

	keepRevisions int
}

// NewPostgres builds a store on pool. keepRevisions <= 0 disables the revision log.
func NewPostgres(pool *pgxpool.Pool, keepRevisions int) *PostgresStore {
	return &PostgresStore{
		q:             db.New(pool),
		pool:          pool,
		keepRevisions: keepRevisions,
	}
}

func NewPostgresWithTx(tx pgx.Tx, keepRevisions int) *PostgresStore {
	return &PostgresStore{
		q:             db.New(tx),
		pool:          nil, // use provided transaction instead
		keepRevisions: keepRevisions,
	}
}

var (
	_ port.KeyValueStore = (*PostgresStore)(nil)
	_ port.KeyHistory    = (*PostgresStore)(nil)
)

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := s.q.GetEntry(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetEntry: %w", err)
	}

	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, s.pool, s.q, func(q *db.Queries) (int64, error) {
		revision, err := q.UpsertEntry(ctx, db.UpsertEntryParams{
			Key:   key,
			Value: value,
		})
		if err != nil {
			return 0, fmt.Errorf("q.UpsertEntry: %w", err)
		}

		if s.keepRevisions <= 0 {
			return revision, nil
		}

		err = q.InsertRevision(ctx, db.InsertRevisionParams{
			Key:      key,
			Revision: revision,
			Value:    value,
		})
		if err != nil {
			return 0, fmt.Errorf("q.InsertRevision: %w", err)
		}

		_, err = q.PruneRevisions(ctx, db.PruneRevisionsParams{
			Key:      key,
			Revision: revision - int64(s.keepRevisions),
		})
		if err != nil {
			return 0, fmt.Errorf("q.PruneRevisions: %w", err)
		}

		return revision, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

// Revisions returns up to limit retained values of key, newest first.
// It is empty when the store keeps no revisions.
func (s *PostgresStore) Revisions(ctx context.Context, key string, limit int) ([]port.Revision, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.q.ListRevisions(ctx, db.ListRevisionsParams{
		Key:   key,
		Limit: int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("q.ListRevisions: %w", err)
	}

	revisions := make([]port.Revision, 0, len(rows))
	for _, row := range rows {
		revisions = append(revisions, port.Revision{
			Number:    row.Revision,
			Value:     row.Value,
			CreatedAt: row.CreatedAt,
		})
	}

	return revisions, nil
}
