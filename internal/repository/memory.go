package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/models"
)

// NewMemoryRepositories creates repositories that live only as long as the process
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		User:      NewMemoryUserRepository(),
		Documents: NewMemoryDocumentRepository(),
	}
}

type memoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewMemoryDocumentRepository creates an in-memory document repository
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{docs: make(map[string]string)}
}

func documentKey(ownerID uuid.UUID, key string) string {
	return ownerID.String() + "/" + key
}

func (r *memoryDocumentRepository) Get(ownerID uuid.UUID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.docs[documentKey(ownerID, key)]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (r *memoryDocumentRepository) Put(ownerID uuid.UUID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[documentKey(ownerID, key)] = value
	return nil
}

func (r *memoryDocumentRepository) Delete(ownerID uuid.UUID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.docs, documentKey(ownerID, key))
	return nil
}

// NewMemoryStore returns a single-owner document store, mainly for tests
func NewMemoryStore() DocumentStore {
	return Scope(NewMemoryDocumentRepository(), uuid.Nil)
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

// NewMemoryUserRepository creates an in-memory user repository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *memoryUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (r *memoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	return nil
}
