package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// documentRepository implements DocumentRepository on a documents table
type documentRepository struct {
	db      dbExecutor
	dialect Dialect
}

// NewDocumentRepository creates a new SQL document repository
func NewDocumentRepository(db dbExecutor, dialect Dialect) DocumentRepository {
	return &documentRepository{db: db, dialect: dialect}
}

// Get returns the stored document or ErrNotFound
func (r *documentRepository) Get(ownerID uuid.UUID, key string) (string, error) {
	query := `SELECT value FROM documents WHERE owner_id = $1 AND doc_key = $2`

	var value string
	err := r.db.QueryRow(r.dialect.Rebind(query), ownerID, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get document %s: %w", key, err)
	}

	return value, nil
}

// Put replaces the whole document
func (r *documentRepository) Put(ownerID uuid.UUID, key, value string) error {
	query := `
		INSERT INTO documents (owner_id, doc_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, doc_key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(r.dialect.Rebind(query), ownerID, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", key, err)
	}

	return nil
}

// Delete removes a document; deleting a missing document is not an error
func (r *documentRepository) Delete(ownerID uuid.UUID, key string) error {
	query := `DELETE FROM documents WHERE owner_id = $1 AND doc_key = $2`

	if _, err := r.db.Exec(r.dialect.Rebind(query), ownerID, key); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}

	return nil
}
