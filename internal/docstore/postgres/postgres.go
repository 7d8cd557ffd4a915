// Package postgres backs the docstore interface with a single JSONB
// documents table. Merge updates use the jsonb || operator, so only the
// supplied top-level fields are overwritten; compare-and-swap adds a
// version predicate to the same UPDATE.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/epichardware/storefront/internal/config"
	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id UUID NOT NULL,
		data JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, id)
	)`

type Store struct {
	DB *sql.DB
}

// Open connects the pool, applies pool limits from config and ensures
// the documents table exists.
func Open(cfg *config.Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure documents table: %w", err)
	}

	return &Store{DB: db}, nil
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Get(ctx context.Context, collection string, id uuid.UUID) (*docstore.Document, error) {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		SELECT data, version, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`

	doc := &docstore.Document{ID: id}

	err := s.DB.QueryRowContext(dbCtx, query, collection, id).
		Scan(&doc.Data, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, docstore.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, data, version, created_at, updated_at
		FROM documents
		WHERE collection = $1
	`

	rows, err := s.DB.QueryContext(dbCtx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	defer rows.Close()

	return scanDocuments(rows)
}

// Query matches documents whose top-level field equals value, compared
// as text. Only equality is supported; the core never needs range or
// full-text operators.
func (s *Store) Query(ctx context.Context, collection, field, value string) ([]docstore.Document, error) {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, data, version, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND data->>$2 = $3
	`

	rows, err := s.DB.QueryContext(dbCtx, query, collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Store) Create(ctx context.Context, collection string, id uuid.UUID, data any) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data, version, created_at, updated_at)
		VALUES ($1, $2, $3, 1, NOW(), NOW())
	`

	if _, err := s.DB.ExecContext(dbCtx, query, collection, id, body); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("document %s in %s: %w", id, collection, docstore.ErrAlreadyExists)
		}

		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

func (s *Store) MergeUpdate(ctx context.Context, collection string, id uuid.UUID, partial map[string]any) error {
	return s.mergeUpdate(ctx, collection, id, partial, nil)
}

func (s *Store) MergeUpdateCAS(ctx context.Context, collection string, id uuid.UUID, partial map[string]any, expectedVersion int64) error {
	return s.mergeUpdate(ctx, collection, id, partial, &expectedVersion)
}

func (s *Store) mergeUpdate(ctx context.Context, collection string, id uuid.UUID, partial map[string]any, expectedVersion *int64) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	patch, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("failed to marshal patch: %w", err)
	}

	var result sql.Result

	if expectedVersion == nil {
		query := `
			UPDATE documents
			SET data = data || $3, version = version + 1, updated_at = NOW()
			WHERE collection = $1 AND id = $2
		`
		result, err = s.DB.ExecContext(dbCtx, query, collection, id, patch)
	} else {
		query := `
			UPDATE documents
			SET data = data || $3, version = version + 1, updated_at = NOW()
			WHERE collection = $1 AND id = $2 AND version = $4
		`
		result, err = s.DB.ExecContext(dbCtx, query, collection, id, patch, *expectedVersion)
	}

	if err != nil {
		return fmt.Errorf("failed to merge document: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		if expectedVersion == nil {
			return docstore.ErrNotFound
		}

		// Distinguish a stale version from a missing document.
		if _, getErr := s.Get(ctx, collection, id); getErr != nil {
			return getErr
		}

		return docstore.ErrVersionConflict
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	if _, err := s.DB.ExecContext(dbCtx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func scanDocuments(rows *sql.Rows) ([]docstore.Document, error) {
	var docs []docstore.Document

	for rows.Next() {
		var doc docstore.Document

		if err := rows.Scan(&doc.ID, &doc.Data, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
