package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// TypeManager implements cmisrepo.TypeManager using in-memory storage. The
// forest is seeded with the fixed base types; registration and read paging
// share one RWMutex.
type TypeManager struct {
	mu       sync.RWMutex
	types    map[string]*cmisrepo.TypeDefinition
	children map[string][]string // parent type id -> child type ids, registration order
	rootIDs  []string
}

// NewTypeManager creates a type manager seeded with the base types.
func NewTypeManager() *TypeManager {
	tm := &TypeManager{
		types:    make(map[string]*cmisrepo.TypeDefinition),
		children: make(map[string][]string),
	}
	for _, def := range cmisrepo.DefaultTypeDefinitions() {
		tm.types[def.ID] = def
		tm.rootIDs = append(tm.rootIDs, def.ID)
	}
	return tm
}

// AddType registers def under its declared parent type. The effective
// property set is computed here, once: the parent's effective definitions
// are copied with the inherited flag and overlaid with def's own. Later
// edits to the parent do not reach already-registered children.
func (m *TypeManager) AddType(ctx context.Context, def *cmisrepo.TypeDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if def == nil || def.ID == "" {
		return fmt.Errorf("%w: type definition requires an id", cmisrepo.ErrInvalidArgument)
	}
	if def.ParentTypeID == "" {
		return fmt.Errorf("%w: type %q declares no parent type", cmisrepo.ErrConstraint, def.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.types[def.ID]; exists {
		return fmt.Errorf("%w: type %q is already registered", cmisrepo.ErrConstraint, def.ID)
	}
	parent, ok := m.types[def.ParentTypeID]
	if !ok {
		return fmt.Errorf("%w: parent type %q", cmisrepo.ErrNotFound, def.ParentTypeID)
	}

	stored := def.Clone(true)
	stored.BaseTypeID = parent.BaseTypeID
	if stored.PropertyDefinitions == nil {
		stored.PropertyDefinitions = make(map[string]cmisrepo.PropertyDefinition)
	}
	for id, parentDef := range parent.PropertyDefinitions {
		if _, own := stored.PropertyDefinitions[id]; own {
			continue
		}
		inherited := parentDef
		inherited.Inherited = true
		stored.PropertyDefinitions[id] = inherited
	}

	m.types[stored.ID] = stored
	m.children[parent.ID] = append(m.children[parent.ID], stored.ID)
	return nil
}

func (m *TypeManager) GetTypeDefinition(ctx context.Context, typeID string) (*cmisrepo.TypeDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.types[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: type %q", cmisrepo.ErrNotFound, typeID)
	}
	return def.Clone(true), nil
}

func (m *TypeManager) GetTypeChildren(ctx context.Context, typeID string, includeProps bool, maxItems, skipCount int) (*cmisrepo.TypeDefinitionPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if skipCount < 0 {
		return nil, fmt.Errorf("%w: negative skip count", cmisrepo.ErrInvalidArgument)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var childIDs []string
	if typeID == "" {
		childIDs = m.rootIDs
	} else {
		if _, ok := m.types[typeID]; !ok {
			return nil, fmt.Errorf("%w: type %q", cmisrepo.ErrNotFound, typeID)
		}
		childIDs = m.children[typeID]
	}

	numItems := len(childIDs)
	if skipCount >= numItems {
		return &cmisrepo.TypeDefinitionPage{Types: []*cmisrepo.TypeDefinition{}, NumItems: numItems}, nil
	}
	page := childIDs[skipCount:]
	if maxItems >= 0 && maxItems < len(page) {
		page = page[:maxItems]
	}
	types := make([]*cmisrepo.TypeDefinition, len(page))
	for i, id := range page {
		types[i] = m.types[id].Clone(includeProps)
	}
	return &cmisrepo.TypeDefinitionPage{
		Types:        types,
		HasMoreItems: skipCount+len(types) < numItems,
		NumItems:     numItems,
	}, nil
}

func (m *TypeManager) GetTypeDescendants(ctx context.Context, typeID string, depth int, includeProps bool) ([]*cmisrepo.TypeDefinitionContainer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if depth == 0 || depth < -1 {
		return nil, fmt.Errorf("%w: depth must be -1 or positive, got %d", cmisrepo.ErrInvalidArgument, depth)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rootIDs []string
	if typeID == "" {
		rootIDs = m.rootIDs
	} else {
		if _, ok := m.types[typeID]; !ok {
			return nil, fmt.Errorf("%w: type %q", cmisrepo.ErrNotFound, typeID)
		}
		rootIDs = m.children[typeID]
	}
	containers := make([]*cmisrepo.TypeDefinitionContainer, 0, len(rootIDs))
	for _, id := range rootIDs {
		containers = append(containers, m.descendantsLocked(id, depth, includeProps))
	}
	return containers, nil
}

// descendantsLocked copies the subtree at typeID down to depth more levels.
func (m *TypeManager) descendantsLocked(typeID string, depth int, includeProps bool) *cmisrepo.TypeDefinitionContainer {
	container := &cmisrepo.TypeDefinitionContainer{Type: m.types[typeID].Clone(includeProps)}
	if depth == 1 {
		return container
	}
	next := depth - 1
	if depth == -1 {
		next = -1
	}
	for _, childID := range m.children[typeID] {
		container.Children = append(container.Children, m.descendantsLocked(childID, next, includeProps))
	}
	return container
}
