package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/cmisrepo"
)

// Store implements cmisrepo.ObjectStore using in-memory storage. One
// RWMutex guards the whole repository: every check-then-act sequence
// (name uniqueness, checkout state, structural deletes) runs under it.
type Store struct {
	mu           sync.RWMutex
	repositoryID string
	rootID       uuid.UUID
	objects      map[uuid.UUID]*cmisrepo.StoredObject
	// children indexes filed objects per folder by child name. Folder
	// listings and name-uniqueness checks go through this index instead of
	// scanning the whole arena.
	children map[uuid.UUID]map[string]uuid.UUID
	types    cmisrepo.TypeManager
}

// NewStore creates an empty store for one repository, owning a fresh root
// folder. The type manager is consulted for versionability and property
// validation.
func NewStore(repositoryID string, types cmisrepo.TypeManager) *Store {
	now := time.Now().UTC()
	root := &cmisrepo.StoredObject{
		ID:         uuid.New(),
		Kind:       cmisrepo.KindFolder,
		Name:       "",
		TypeID:     cmisrepo.BaseTypeFolder,
		CreatedBy:  "system",
		CreatedAt:  now,
		ModifiedBy: "system",
		ModifiedAt: now,
	}
	s := &Store{
		repositoryID: repositoryID,
		rootID:       root.ID,
		objects:      map[uuid.UUID]*cmisrepo.StoredObject{root.ID: root},
		children:     map[uuid.UUID]map[string]uuid.UUID{root.ID: {}},
		types:        types,
	}
	return s
}

func (s *Store) RepositoryID() string { return s.repositoryID }

func (s *Store) RootFolderID() uuid.UUID { return s.rootID }

// Lookup

func (s *Store) GetObjectByID(ctx context.Context, id uuid.UUID) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return copyObject(obj), nil
}

func (s *Store) GetObjectByPath(ctx context.Context, path string) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: path %q must be absolute", cmisrepo.ErrInvalidArgument, path)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.objects[s.rootID]
	if path == "/" {
		return copyObject(current), nil
	}
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			return nil, fmt.Errorf("%w: empty path segment in %q", cmisrepo.ErrInvalidArgument, path)
		}
		childID, ok := s.children[current.ID][segment]
		if !ok {
			return nil, fmt.Errorf("%w: no object at path %q", cmisrepo.ErrNotFound, path)
		}
		current = s.objects[childID]
	}
	return copyObject(current), nil
}

func (s *Store) GetIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Creation

func (s *Store) CreateFolder(ctx context.Context, parentID uuid.UUID, name, typeID, user string, props map[string]interface{}) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def, err := s.lookupType(ctx, typeID, cmisrepo.BaseTypeFolder)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateProperties(def, props); err != nil {
		return nil, err
	}
	folder := s.newObject(cmisrepo.KindFolder, name, typeID, user, props)
	if err := s.fileLocked(folder, parentID); err != nil {
		return nil, err
	}
	s.objects[folder.ID] = folder
	s.children[folder.ID] = map[string]uuid.UUID{}
	return copyObject(folder), nil
}

func (s *Store) CreateDocument(ctx context.Context, folderID *uuid.UUID, name, typeID, user string, props map[string]interface{}, content *cmisrepo.ContentStream, state cmisrepo.VersioningState) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if state == "" {
		state = cmisrepo.VersioningStateNone
	}
	def, err := s.lookupType(ctx, typeID, cmisrepo.BaseTypeDocument)
	if err != nil {
		return nil, err
	}
	if !def.Versionable && state != cmisrepo.VersioningStateNone {
		if state == cmisrepo.VersioningStateCheckedOut {
			return nil, fmt.Errorf("%w: type %q is not versionable", cmisrepo.ErrNotSupported, typeID)
		}
		return nil, fmt.Errorf("%w: versioning state %q on non-versionable type %q", cmisrepo.ErrConstraint, state, typeID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateProperties(def, props); err != nil {
		return nil, err
	}

	if !def.Versionable {
		doc := s.newObject(cmisrepo.KindDocument, name, typeID, user, props)
		doc.Content = content
		if folderID != nil {
			if err := s.fileLocked(doc, *folderID); err != nil {
				return nil, err
			}
		}
		s.objects[doc.ID] = doc
		return copyObject(doc), nil
	}

	series := s.newObject(cmisrepo.KindVersionedDocument, name, typeID, user, props)
	if folderID != nil {
		if err := s.fileLocked(series, *folderID); err != nil {
			return nil, err
		}
	}
	version := s.newObject(cmisrepo.KindDocumentVersion, name, typeID, user, nil)
	version.SeriesID = series.ID
	version.Content = content
	switch state {
	case cmisrepo.VersioningStateMajor:
		version.IsMajor = true
	case cmisrepo.VersioningStateCheckedOut:
		version.IsPWC = true
	}
	series.VersionIDs = []uuid.UUID{version.ID}
	s.objects[series.ID] = series
	s.objects[version.ID] = version
	return copyObject(series), nil
}

func (s *Store) CreateItem(ctx context.Context, folderID *uuid.UUID, name, typeID, user string, props map[string]interface{}) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def, err := s.lookupType(ctx, typeID, cmisrepo.BaseTypeItem)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateProperties(def, props); err != nil {
		return nil, err
	}
	item := s.newObject(cmisrepo.KindItem, name, typeID, user, props)
	if folderID != nil {
		if err := s.fileLocked(item, *folderID); err != nil {
			return nil, err
		}
	}
	s.objects[item.ID] = item
	return copyObject(item), nil
}

// Object mutation

func (s *Store) UpdateProperties(ctx context.Context, id uuid.UUID, props map[string]interface{}, user string) (*cmisrepo.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.get(id)
	if err != nil {
		return nil, err
	}
	def, err := s.types.GetTypeDefinition(ctx, obj.TypeID)
	if err != nil {
		return nil, err
	}
	if err := validateProperties(def, props); err != nil {
		return nil, err
	}

	// A cmis:name update renames the object, revalidated against every
	// parent folder before anything is applied.
	newName := obj.Name
	if raw, ok := props[cmisrepo.PropertyName]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", cmisrepo.ErrInvalidArgument, cmisrepo.PropertyName)
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		if name != obj.Name {
			for _, parentID := range obj.ParentIDs {
				if existing, ok := s.children[parentID][name]; ok && existing != obj.ID {
					return nil, fmt.Errorf("%w: folder %s already has a child named %q", cmisrepo.ErrConstraint, parentID, name)
				}
			}
			newName = name
		}
	}

	if newName != obj.Name {
		for _, parentID := range obj.ParentIDs {
			delete(s.children[parentID], obj.Name)
			s.children[parentID][newName] = obj.ID
		}
		obj.Name = newName
	}
	for key, value := range props {
		if key == cmisrepo.PropertyName {
			continue
		}
		if obj.Properties == nil {
			obj.Properties = map[string]interface{}{}
		}
		if value == nil {
			delete(obj.Properties, key)
			continue
		}
		obj.Properties[key] = value
	}
	s.touch(obj, user)
	return copyObject(obj), nil
}

func (s *Store) SetContentStream(ctx context.Context, id uuid.UUID, content *cmisrepo.ContentStream, user string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.get(id)
	if err != nil {
		return err
	}
	target, err := s.contentHolderLocked(obj)
	if err != nil {
		return err
	}
	target.Content = content
	s.touch(target, user)
	if target != obj {
		s.touch(obj, user)
	}
	return nil
}

// contentHolderLocked resolves the object whose content stream an id refers
// to: the object itself for documents and versions, the PWC when a series is
// checked out, the latest version otherwise.
func (s *Store) contentHolderLocked(obj *cmisrepo.StoredObject) (*cmisrepo.StoredObject, error) {
	switch obj.Kind {
	case cmisrepo.KindDocument, cmisrepo.KindDocumentVersion:
		return obj, nil
	case cmisrepo.KindVersionedDocument:
		if pwc := s.pwcLocked(obj); pwc != nil {
			return pwc, nil
		}
		if len(obj.VersionIDs) == 0 {
			return nil, fmt.Errorf("%w: series %s has no versions", cmisrepo.ErrNotFound, obj.ID)
		}
		return s.objects[obj.VersionIDs[len(obj.VersionIDs)-1]], nil
	default:
		return nil, fmt.Errorf("%w: object %s has no content stream", cmisrepo.ErrConstraint, obj.ID)
	}
}

func (s *Store) DeleteObject(ctx context.Context, id uuid.UUID, allVersions bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id, allVersions)
}

func (s *Store) deleteLocked(id uuid.UUID, allVersions bool) error {
	obj, err := s.get(id)
	if err != nil {
		return err
	}
	switch obj.Kind {
	case cmisrepo.KindFolder:
		if id == s.rootID {
			return fmt.Errorf("%w: cannot delete the root folder", cmisrepo.ErrConstraint)
		}
		if len(s.children[id]) > 0 {
			return fmt.Errorf("%w: folder %s is not empty", cmisrepo.ErrConstraint, id)
		}
		s.unfileAllLocked(obj)
		delete(s.children, id)
		delete(s.objects, id)
	case cmisrepo.KindDocument, cmisrepo.KindItem:
		s.unfileAllLocked(obj)
		delete(s.objects, id)
	case cmisrepo.KindVersionedDocument:
		for _, versionID := range obj.VersionIDs {
			delete(s.objects, versionID)
		}
		s.unfileAllLocked(obj)
		delete(s.objects, id)
	case cmisrepo.KindDocumentVersion:
		series := s.objects[obj.SeriesID]
		if series == nil {
			delete(s.objects, id)
			return nil
		}
		if allVersions {
			return s.deleteLocked(series.ID, true)
		}
		series.VersionIDs = removeID(series.VersionIDs, id)
		delete(s.objects, id)
		if len(series.VersionIDs) == 0 {
			s.unfileAllLocked(series)
			delete(s.objects, series.ID)
		}
	}
	return nil
}

func (s *Store) DeleteTree(ctx context.Context, folderID uuid.UUID, continueOnFailure bool) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, err := s.get(folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: object %s is not a folder", cmisrepo.ErrInvalidArgument, folderID)
	}
	if folderID == s.rootID {
		return nil, fmt.Errorf("%w: cannot delete the root folder", cmisrepo.ErrConstraint)
	}
	var failed []uuid.UUID
	s.deleteTreeLocked(folder, continueOnFailure, &failed)
	return failed, nil
}

// deleteTreeLocked removes children depth-first, then the folder itself.
// Multi-filed children are only unfiled from this tree, not destroyed, when
// they remain filed elsewhere.
func (s *Store) deleteTreeLocked(folder *cmisrepo.StoredObject, continueOnFailure bool, failed *[]uuid.UUID) bool {
	for _, childID := range sortedChildIDs(s.children[folder.ID]) {
		child := s.objects[childID]
		switch {
		case child.IsFolder():
			// Recursion records its own failures.
			if !s.deleteTreeLocked(child, continueOnFailure, failed) && !continueOnFailure {
				return false
			}
		case len(child.ParentIDs) > 1:
			s.unfileOneLocked(child, folder.ID)
		default:
			if err := s.deleteLocked(childID, true); err != nil {
				*failed = append(*failed, childID)
				if !continueOnFailure {
					return false
				}
			}
		}
	}
	if len(s.children[folder.ID]) > 0 {
		*failed = append(*failed, folder.ID)
		return false
	}
	if err := s.deleteLocked(folder.ID, true); err != nil {
		*failed = append(*failed, folder.ID)
		return false
	}
	return true
}

// Internal helpers. All assume the caller holds the lock.

func (s *Store) get(id uuid.UUID) (*cmisrepo.StoredObject, error) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: object %s", cmisrepo.ErrNotFound, id)
	}
	return obj, nil
}

func (s *Store) newObject(kind cmisrepo.ObjectKind, name, typeID, user string, props map[string]interface{}) *cmisrepo.StoredObject {
	now := time.Now().UTC()
	obj := &cmisrepo.StoredObject{
		ID:         uuid.New(),
		Kind:       kind,
		Name:       name,
		TypeID:     typeID,
		CreatedBy:  user,
		CreatedAt:  now,
		ModifiedBy: user,
		ModifiedAt: now,
	}
	if len(props) > 0 {
		obj.Properties = make(map[string]interface{}, len(props))
		for key, value := range props {
			if key == cmisrepo.PropertyName {
				continue
			}
			obj.Properties[key] = value
		}
	}
	return obj
}

func (s *Store) touch(obj *cmisrepo.StoredObject, user string) {
	obj.ModifiedBy = user
	obj.ModifiedAt = time.Now().UTC()
}

func (s *Store) lookupType(ctx context.Context, typeID, wantBase string) (*cmisrepo.TypeDefinition, error) {
	def, err := s.types.GetTypeDefinition(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if def.BaseTypeID != wantBase {
		return nil, fmt.Errorf("%w: type %q has base type %q, want %q", cmisrepo.ErrConstraint, typeID, def.BaseTypeID, wantBase)
	}
	return def, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: object name must not be empty", cmisrepo.ErrInvalidArgument)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: illegal object name %q", cmisrepo.ErrInvalidArgument, name)
	}
	for _, r := range name {
		if r < 0x20 {
			return fmt.Errorf("%w: illegal object name %q", cmisrepo.ErrInvalidArgument, name)
		}
	}
	return nil
}

func validateProperties(def *cmisrepo.TypeDefinition, props map[string]interface{}) error {
	for key := range props {
		if _, ok := def.PropertyDefinitions[key]; !ok {
			return fmt.Errorf("%w: property %q is not defined for type %q", cmisrepo.ErrConstraint, key, def.ID)
		}
	}
	return nil
}

func copyObject(obj *cmisrepo.StoredObject) *cmisrepo.StoredObject {
	c := *obj
	if obj.Properties != nil {
		c.Properties = make(map[string]interface{}, len(obj.Properties))
		for key, value := range obj.Properties {
			c.Properties[key] = value
		}
	}
	if obj.ParentIDs != nil {
		c.ParentIDs = append([]uuid.UUID(nil), obj.ParentIDs...)
	}
	if obj.VersionIDs != nil {
		c.VersionIDs = append([]uuid.UUID(nil), obj.VersionIDs...)
	}
	if obj.Content != nil {
		stream := *obj.Content
		c.Content = &stream
	}
	return &c
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func sortObjectsByName(objs []*cmisrepo.StoredObject) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].Name == objs[j].Name {
			return objs[i].ID.String() < objs[j].ID.String()
		}
		return objs[i].Name < objs[j].Name
	})
}

func sortedChildIDs(byName map[string]uuid.UUID) []uuid.UUID {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		ids[i] = byName[name]
	}
	return ids
}
