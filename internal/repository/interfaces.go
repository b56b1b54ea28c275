package repository

import (
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/models"
)

// ErrNotFound is returned when a user or document does not exist
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}

// DocumentRepository stores whole JSON documents as strings, keyed per owner.
// Writes replace the document; there is no partial update.
type DocumentRepository interface {
	Get(ownerID uuid.UUID, key string) (string, error)
	Put(ownerID uuid.UUID, key, value string) error
	Delete(ownerID uuid.UUID, key string) error
}

// DocumentStore is a DocumentRepository bound to a single owner
type DocumentStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	User      UserRepository
	Documents DocumentRepository

	closer io.Closer
}

// Close releases the underlying storage
func (r *Repositories) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

type scopedStore struct {
	docs    DocumentRepository
	ownerID uuid.UUID
}

// Scope binds a document repository to one owner
func Scope(docs DocumentRepository, ownerID uuid.UUID) DocumentStore {
	return &scopedStore{docs: docs, ownerID: ownerID}
}

func (s *scopedStore) Get(key string) (string, error) {
	return s.docs.Get(s.ownerID, key)
}

func (s *scopedStore) Put(key, value string) error {
	return s.docs.Put(s.ownerID, key, value)
}
