package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repositoryTimeout = 5 * time.Second

// Repository computes usage aggregates from file metadata.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a usage repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Totals returns per-type size sums and latest upload times for the owner.
func (r *Repository) Totals(ctx context.Context, ownerID uuid.UUID) (map[filetype.Type]Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `
SELECT file_type,
       COALESCE(SUM(size_bytes), 0) AS total_bytes,
       MAX(created_at) AS latest_at
FROM files
WHERE owner_id = $1
GROUP BY file_type;`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[filetype.Type]Bucket, len(filetype.All))
	for rows.Next() {
		var (
			typ    string
			bucket Bucket
		)
		if err := rows.Scan(&typ, &bucket.SizeBytes, &bucket.LatestDate); err != nil {
			return nil, fmt.Errorf("scan usage totals: %w", err)
		}
		totals[filetype.Type(typ)] = bucket
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage totals: %w", err)
	}
	return totals, nil
}

// Used returns the total number of bytes stored by the owner.
func (r *Repository) Used(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	var used int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(size_bytes), 0) FROM files WHERE owner_id = $1;`, ownerID).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("query used bytes: %w", err)
	}
	return used, nil
}

// RecordSnapshot inserts an aggregate usage snapshot for the owner.
func (r *Repository) RecordSnapshot(ctx context.Context, ownerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	query := `
WITH stats AS (
    SELECT COALESCE(SUM(size_bytes), 0) AS total_bytes,
           COUNT(*) AS file_count
    FROM files
    WHERE owner_id = $1
)
INSERT INTO usage_snapshots (user_id, total_bytes, file_count)
SELECT $1, stats.total_bytes, stats.file_count FROM stats;`

	if _, err := r.pool.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("record usage snapshot: %w", err)
	}
	return nil
}
