package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentsSchema = `CREATE TABLE IF NOT EXISTS documents (
	resource   TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	body       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (resource, id)
)`

// pgxDB is satisfied by *pgxpool.Pool.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PGStore keeps every resource in a single documents table so that a local
// deployment can run without the external data service.
type PGStore struct {
	db pgxDB
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, documentsSchema)
	return err
}

func (s *PGStore) List(ctx context.Context, resource string) ([]json.RawMessage, error) {
	rows, err := s.db.Query(ctx, `SELECT body FROM documents WHERE resource=$1 ORDER BY created_at, id`, resource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		docs = append(docs, body)
	}
	return docs, rows.Err()
}

func (s *PGStore) Create(ctx context.Context, resource string, doc json.RawMessage) (json.RawMessage, error) {
	id := uuid.NewString()
	body, err := withID(doc, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, `INSERT INTO documents (resource, id, body) VALUES ($1, $2, $3)`, resource, id, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *PGStore) Update(ctx context.Context, resource, id string, doc json.RawMessage) (json.RawMessage, error) {
	body, err := withID(doc, id)
	if err != nil {
		return nil, err
	}
	var stored []byte
	err = s.db.QueryRow(ctx, `UPDATE documents SET body=$3, updated_at=now() WHERE resource=$1 AND id=$2 RETURNING body`, resource, id, body).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", resource, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *PGStore) Delete(ctx context.Context, resource, id string) error {
	cmd, err := s.db.Exec(ctx, `DELETE FROM documents WHERE resource=$1 AND id=$2`, resource, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", resource, id, ErrNotFound)
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// withID stamps the document's "id" field with the storage id.
func withID(doc json.RawMessage, id string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	encodedID, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields["id"] = encodedID
	return json.Marshal(fields)
}

var _ DocumentStore = (*PGStore)(nil)
