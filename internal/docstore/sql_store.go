package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"kinship/internal/database"
)

// SQLStore keeps documents in the documents table of a relational database
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a document store over an initialized, migrated database
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get returns the document stored under collection/id
func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return getDocument(ctx, s.db, collection, id, "")
}

// Set writes a document, merging into the stored one when merge is true
func (s *SQLStore) Set(ctx context.Context, collection, id string, doc Document, merge bool) error {
	doc = Sanitize(doc)

	if !merge {
		return putDocument(ctx, s.db, collection, id, doc)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := getDocument(ctx, tx, collection, id, s.db.Dialect.LockingSelectSuffix())
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	default:
		doc = Merge(existing, doc)
	}

	if err := putDocument(ctx, tx, collection, id, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document %s/%s: %w", collection, id, err)
	}
	return nil
}

// List returns all documents in a collection ordered by id
func (s *SQLStore) List(ctx context.Context, collection string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, body FROM documents WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
		}
		entries = append(entries, Entry{ID: id, Document: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection %s: %w", collection, err)
	}

	return entries, nil
}

// Delete removes a document
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

func getDocument(ctx context.Context, q database.DBTX, collection, id, suffix string) (Document, error) {
	var body string
	query := "SELECT body FROM documents WHERE collection = ? AND id = ?" + suffix
	err := q.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func putDocument(ctx context.Context, q database.DBTX, collection, id string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	if _, err := q.ExecContext(ctx, q.GetDialect().UpsertDocumentQuery(), collection, id, string(body)); err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}
