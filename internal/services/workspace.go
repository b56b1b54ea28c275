package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/criteria"
	apperrors "github.com/ajharbinger/vetted-api/internal/errors"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/profiles"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/internal/scoring"
)

// workspace is the resolver and profile store of one owner
type workspace struct {
	resolver *criteria.Resolver
	profiles *profiles.Store
	catalog  *catalog.Catalog
	engine   *scoring.Engine
}

func (w *workspace) snapshot() (criteria.Snapshot, error) {
	return w.resolver.Snapshot(w.catalog)
}

type workspaces struct {
	docs    repository.DocumentRepository
	catalog *catalog.Catalog
	engine  *scoring.Engine
	log     logger.Logger
	locks   *ownerLocks
}

func (w *workspaces) open(owner uuid.UUID) *workspace {
	store := repository.Scope(w.docs, owner)
	log := w.log.With("owner_id", owner.String())

	ws := &workspace{
		resolver: criteria.NewResolver(store, log),
		catalog:  w.catalog,
		engine:   w.engine,
	}
	ws.profiles = profiles.NewStore(store, ws.snapshot, w.engine, log)
	return ws
}

// do runs fn with the owner's documents locked. Domain errors are classified
// into AppErrors tagged with op.
func (w *workspaces) do(owner uuid.UUID, op string, fn func(ws *workspace) error) error {
	unlock := w.locks.lock(owner)
	defer unlock()

	if err := fn(w.open(owner)); err != nil {
		return apperrors.FromDomain(err, op)
	}
	return nil
}

// ownerLocks serializes read-modify-write cycles per owner. Entries are
// dropped once nobody holds or waits for them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[uuid.UUID]*ownerLock)}
}

func (l *ownerLocks) lock(owner uuid.UUID) func() {
	l.mu.Lock()
	ol, ok := l.locks[owner]
	if !ok {
		ol = &ownerLock{}
		l.locks[owner] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.Lock()
	return func() {
		ol.Unlock()
		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, owner)
		}
		l.mu.Unlock()
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
