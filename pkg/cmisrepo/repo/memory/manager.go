package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// Manager implements cmisrepo.StoreManager: the process-wide registry of
// repositories. Repositories are registered explicitly and never silently
// overwritten.
type Manager struct {
	mu           sync.RWMutex
	repositories map[string]*repository
}

type repository struct {
	store       *Store
	types       *TypeManager
	name        string
	description string
}

// NewManager creates an empty store manager.
func NewManager() *Manager {
	return &Manager{repositories: make(map[string]*repository)}
}

func (m *Manager) CreateAndInitRepository(ctx context.Context, id, name, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: repository id must not be empty", cmisrepo.ErrInvalidArgument)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.repositories[id]; exists {
		return fmt.Errorf("%w: %q", cmisrepo.ErrRepositoryExists, id)
	}
	types := NewTypeManager()
	m.repositories[id] = &repository{
		store:       NewStore(id, types),
		types:       types,
		name:        name,
		description: description,
	}
	return nil
}

func (m *Manager) GetObjectStore(repositoryID string) (cmisrepo.ObjectStore, error) {
	repo, err := m.get(repositoryID)
	if err != nil {
		return nil, err
	}
	return repo.store, nil
}

func (m *Manager) GetTypeManager(repositoryID string) (cmisrepo.TypeManager, error) {
	repo, err := m.get(repositoryID)
	if err != nil {
		return nil, err
	}
	return repo.types, nil
}

func (m *Manager) GetRepositoryInfo(ctx context.Context, repositoryID string) (*cmisrepo.RepositoryInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := m.get(repositoryID)
	if err != nil {
		return nil, err
	}
	return &cmisrepo.RepositoryInfo{
		ID:           repositoryID,
		Name:         repo.name,
		Description:  repo.description,
		RootFolderID: repo.store.RootFolderID(),
		CMISVersion:  "1.1",
		ProductName:  "simple-cmis",
		Capabilities: cmisrepo.RepositoryCapabilities{
			Multifiling:    true,
			Unfiling:       true,
			GetDescendants: true,
			GetFolderTree:  true,
		},
	}, nil
}

func (m *Manager) RepositoryIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.repositories))
	for id := range m.repositories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) get(repositoryID string) (*repository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	repo, ok := m.repositories[repositoryID]
	if !ok {
		return nil, fmt.Errorf("%w: repository %q", cmisrepo.ErrNotFound, repositoryID)
	}
	return repo, nil
}
