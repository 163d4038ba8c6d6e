package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Registers the "postgres" driver used by SQLStore.
	_ "github.com/lib/pq"

	"github.com/brightloom/pathguard/internal/policy"
)

// SQLStore is a Repository backed by a SQL table of the shape:
//
//	CREATE TABLE policies (
//	    name     TEXT PRIMARY KEY,
//	    document JSONB NOT NULL
//	);
//
// document holds the JSON encoding of a policy.PolicyDocument. SQLStore
// does not manage schema migration; callers are expected to have the
// table in place already.
type SQLStore struct {
	db        *sql.DB
	tableName string
}

// OpenSQLStore opens a "postgres" connection via lib/pq and wraps it in a
// SQLStore reading from tableName.
func OpenSQLStore(dsn, tableName string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: open sql store: %w", err)
	}
	return NewSQLStore(db, tableName), nil
}

// NewSQLStore wraps an already-open *sql.DB. Useful for tests against a
// sqlmock or an already-configured connection pool.
func NewSQLStore(db *sql.DB, tableName string) *SQLStore {
	if tableName == "" {
		tableName = "policies"
	}
	return &SQLStore{db: db, tableName: tableName}
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) selectByName(ctx context.Context, name string) (policy.Policy, error) {
	query := fmt.Sprintf("SELECT document FROM %s WHERE name = $1", s.tableName)
	row := s.db.QueryRowContext(ctx, query, name)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return policy.Policy{}, notFound(name)
		}
		return policy.Policy{}, fmt.Errorf("repository: query %q: %w", name, err)
	}

	return decodeRow(raw)
}

func decodeRow(raw []byte) (policy.Policy, error) {
	var doc policy.PolicyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return policy.Policy{}, fmt.Errorf("repository: decode document: %w", err)
	}
	return policy.FromDocument(doc)
}

// Get implements Repository.
func (s *SQLStore) Get(ctx context.Context, name string) (policy.Policy, error) {
	return s.selectByName(ctx, name)
}

// Has implements Repository.
func (s *SQLStore) Has(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE name = $1", s.tableName)
	row := s.db.QueryRowContext(ctx, query, name)

	var exists int
	if err := row.Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("repository: query %q: %w", name, err)
	}
	return true, nil
}

// All implements Repository.
func (s *SQLStore) All(ctx context.Context) (map[string]policy.Policy, error) {
	query := fmt.Sprintf("SELECT document FROM %s", s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: query all: %w", err)
	}
	defer rows.Close()

	out := make(map[string]policy.Policy)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("repository: scan row: %w", err)
		}
		pol, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		out[pol.Name()] = pol
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate rows: %w", err)
	}
	return out, nil
}

// GetMany implements Repository.
func (s *SQLStore) GetMany(ctx context.Context, names []string) (map[string]policy.Policy, error) {
	return getManyFallback(ctx, s, names)
}
