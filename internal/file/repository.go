package file

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const recordColumns = `f.id, f.owner_id, u.full_name, f.name, f.extension, f.file_type, f.size_bytes, f.content_type, f.checksum, f.object_name, f.created_at, f.updated_at`

var sortColumns = map[string]string{
	SortByCreatedAt: "f.created_at",
	SortByName:      "f.name",
	SortBySize:      "f.size_bytes",
}

// Repository provides access to file metadata storage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new file repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts metadata for a new file.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
WITH f AS (
    INSERT INTO files (id, owner_id, name, extension, file_type, size_bytes, content_type, checksum, object_name)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING *
)
SELECT ` + recordColumns + `
FROM f
JOIN users u ON u.id = f.owner_id;`

	row := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Name,
		rec.Extension,
		string(rec.Type),
		rec.SizeBytes,
		rec.ContentType,
		rec.Checksum,
		rec.ObjectName,
	)

	stored, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("create file metadata: %w", err)
	}
	return stored, nil
}

// List returns the owner's files matching the filter.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query, args := buildListQuery(ownerID, filter.normalized())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file metadata: %w", err)
		}
		files = append(files, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

// Get fetches metadata for a single file ensuring ownership.
func (r *Repository) Get(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT ` + recordColumns + `
FROM files f
JOIN users u ON u.id = f.owner_id
WHERE f.id = $1 AND f.owner_id = $2;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, fileID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("get file metadata: %w", err)
	}
	return rec, nil
}

// Rename updates the name and the classification derived from it.
func (r *Repository) Rename(ctx context.Context, ownerID, fileID uuid.UUID, name string, info filetype.Info) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
UPDATE files f
SET name = $3, extension = $4, file_type = $5, updated_at = NOW()
FROM users u
WHERE f.id = $1
  AND f.owner_id = $2
  AND u.id = f.owner_id
RETURNING ` + recordColumns + `;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, fileID, ownerID, name, info.Extension, string(info.Type)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("rename file: %w", err)
	}
	return rec, nil
}

// Delete removes metadata and returns the deleted record.
func (r *Repository) Delete(ctx context.Context, ownerID, fileID uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
DELETE FROM files f
USING users u
WHERE f.id = $1
  AND f.owner_id = $2
  AND u.id = f.owner_id
RETURNING ` + recordColumns + `;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, fileID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("delete file metadata: %w", err)
	}
	return rec, nil
}

func buildListQuery(ownerID uuid.UUID, filter ListFilter) (string, []any) {
	args := []any{ownerID}
	conditions := []string{"f.owner_id = $1"}

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		args = append(args, types)
		conditions = append(conditions, fmt.Sprintf("f.file_type = ANY($%d)", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("f.name ILIKE $%d", len(args)))
	}

	column, ok := sortColumns[filter.Sort.Field]
	if !ok {
		column = sortColumns[DefaultSort.Field]
	}
	direction := "ASC"
	if filter.Sort.Desc {
		direction = "DESC"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(recordColumns)
	b.WriteString("\nFROM files f\nJOIN users u ON u.id = f.owner_id\nWHERE ")
	b.WriteString(strings.Join(conditions, " AND "))
	fmt.Fprintf(&b, "\nORDER BY %s %s, f.id", column, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, "\nLIMIT $%d", len(args))
	}
	b.WriteString(";")

	return b.String(), args
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec Record
		typ string
	)
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Owner,
		&rec.Name,
		&rec.Extension,
		&typ,
		&rec.SizeBytes,
		&rec.ContentType,
		&rec.Checksum,
		&rec.ObjectName,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Type = filetype.Type(typ)
	return rec, nil
}
