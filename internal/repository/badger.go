package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ajharbinger/vetted-api/internal/models"
)

// badgerDocument is the record stored for each owner document
type badgerDocument struct {
	OwnerID   string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// NewBadgerRepositories opens (or creates) an embedded Badger store at path
func NewBadgerRepositories(path string) (*Repositories, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Repositories{
		User:      &badgerUserRepository{store: store},
		Documents: &badgerDocumentRepository{store: store},
		closer:    store,
	}, nil
}

type badgerDocumentRepository struct {
	store *badgerhold.Store
}

func (r *badgerDocumentRepository) Get(ownerID uuid.UUID, key string) (string, error) {
	var doc badgerDocument
	err := r.store.Get(documentKey(ownerID, key), &doc)
	if err == badgerhold.ErrNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return doc.Value, nil
}

func (r *badgerDocumentRepository) Put(ownerID uuid.UUID, key, value string) error {
	doc := badgerDocument{
		OwnerID:   ownerID.String(),
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.store.Upsert(documentKey(ownerID, key), &doc); err != nil {
		return fmt.Errorf("failed to store document %s: %w", key, err)
	}
	return nil
}

func (r *badgerDocumentRepository) Delete(ownerID uuid.UUID, key string) error {
	err := r.store.Delete(documentKey(ownerID, key), badgerDocument{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

type badgerUserRepository struct {
	store *badgerhold.Store
}

func (r *badgerUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.store.Get(id.String(), &user)
	if err == badgerhold.ErrNotFound {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *badgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var users []models.User
	err := r.store.Find(&users, badgerhold.Where("Email").Eq(strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return &users[0], nil
}

func (r *badgerUserRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)

	if existing, err := r.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.store.Insert(user.ID.String(), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *badgerUserRepository) Update(user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	err := r.store.Update(user.ID.String(), user)
	if err == badgerhold.ErrNotFound {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *badgerUserRepository) Delete(id uuid.UUID) error {
	err := r.store.DeleteMatching(&badgerDocument{}, badgerhold.Where("OwnerID").Eq(id.String()))
	if err != nil {
		return fmt.Errorf("failed to delete user documents: %w", err)
	}

	err = r.store.Delete(id.String(), models.User{})
	if err == badgerhold.ErrNotFound {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
